package ledger

import (
	"github.com/billfold/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// contribution is the signed effect one amount row has on its account's
// balance: +amountPaid for income transactions, -amountPaid otherwise.
func contribution(amount models.Amount, isIncome bool) decimal.Decimal {
	if isIncome {
		return amount.AmountPaid
	}

	return amount.AmountPaid.Neg()
}

// ComputeBalanceDeltas returns the balance adjustment per account that turns
// the contributions of the old row set into those of the new row set.
//
// Passing the same rows with a flipped isIncome flag yields the reversal
// deltas for an income/expense flip; passing nil for either side yields the
// deltas for a plain insert or delete. Rows attributed to an external payee
// carry no account and are skipped.
func ComputeBalanceDeltas(old []models.Amount, oldIsIncome bool, updated []models.Amount, newIsIncome bool) map[uuid.UUID]decimal.Decimal {
	deltas := make(map[uuid.UUID]decimal.Decimal)

	for _, amount := range old {
		if amount.AccountID == nil {
			continue
		}
		deltas[*amount.AccountID] = deltas[*amount.AccountID].Sub(contribution(amount, oldIsIncome))
	}

	for _, amount := range updated {
		if amount.AccountID == nil {
			continue
		}
		deltas[*amount.AccountID] = deltas[*amount.AccountID].Add(contribution(amount, newIsIncome))
	}

	for id, delta := range deltas {
		if delta.IsZero() {
			delete(deltas, id)
		}
	}

	return deltas
}

// applyBalanceDeltas adjusts the balance of every affected account inside
// the enclosing database transaction. Writers are serialized by the single
// connection the pool hands out, so read-adjust-write is race free here.
func applyBalanceDeltas(tx *gorm.DB, deltas map[uuid.UUID]decimal.Decimal) error {
	for id, delta := range deltas {
		var account models.Account
		err := tx.First(&account, "id = ?", id).Error
		if err != nil {
			return err
		}

		err = tx.Model(&account).Update("balance", account.Balance.Add(delta)).Error
		if err != nil {
			return err
		}

		balanceAdjustments.Inc()
	}

	return nil
}
