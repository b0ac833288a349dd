package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transactionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billfold_transactions_created_total",
		Help: "Number of transactions created",
	})

	transactionsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billfold_transactions_updated_total",
		Help: "Number of transactions updated",
	})

	transactionsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billfold_transactions_deleted_total",
		Help: "Number of transactions deleted, explicitly or by removing the last amount",
	})

	balanceAdjustments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billfold_balance_adjustments_total",
		Help: "Number of account balance adjustments applied",
	})
)
