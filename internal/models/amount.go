package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Amount is one party's stake in a transaction's bill split: what they owe
// (AmountToPay) and what they contributed (AmountPaid).
//
// Exactly one of AccountID and AccountName is set. AccountID points at a
// registered account, AccountName is a free-text external payee. When an
// account is deleted, rows referencing it keep the ledger history readable
// by being converted to AccountName rows carrying the account's last name.
type Amount struct {
	DefaultModel
	TransactionID uuid.UUID  `json:"transactionId" gorm:"index"`
	AccountID     *uuid.UUID `json:"accountId" gorm:"index;check:amount_exactly_one_target,(account_id IS NULL) <> (account_name = '')"`
	AccountName   string     `json:"accountName" gorm:"not null;default:''"`

	AmountToPay decimal.Decimal `json:"amountToPay" gorm:"type:DECIMAL(20,4)"`
	AmountPaid  decimal.Decimal `json:"amountPaid" gorm:"type:DECIMAL(20,4)"`
}

var (
	ErrAmountTargetConflict = errors.New("an amount must reference exactly one of a registered account or an external payee name")
	ErrAmountNegative       = errors.New("amounts owed and paid must not be negative")
)

// BeforeSave verifies the state of the amount row before it is written.
func (a *Amount) BeforeSave(_ *gorm.DB) error {
	a.AccountName = strings.TrimSpace(a.AccountName)

	if (a.AccountID == nil) == (a.AccountName == "") {
		return ErrAmountTargetConflict
	}

	if a.AmountToPay.IsNegative() || a.AmountPaid.IsNegative() {
		return ErrAmountNegative
	}

	return nil
}

// AmountTarget is the party an amount row is attributed to, either a
// registered account or an external payee known only by name.
type AmountTarget interface {
	isAmountTarget()
}

// RegisteredTarget attributes a stake to a registered account.
type RegisteredTarget struct {
	AccountID uuid.UUID
}

// ExternalTarget attributes a stake to a free-text payee.
type ExternalTarget struct {
	Name string
}

func (RegisteredTarget) isAmountTarget() {}
func (ExternalTarget) isAmountTarget()   {}

// Target returns the party this row is attributed to, or nil if the row
// is in an illegal state.
func (a Amount) Target() AmountTarget {
	if a.AccountID != nil && a.AccountName == "" {
		return RegisteredTarget{AccountID: *a.AccountID}
	}

	if a.AccountID == nil && a.AccountName != "" {
		return ExternalTarget{Name: a.AccountName}
	}

	return nil
}

// Settlement returns the signed difference between paid and owed: zero for a
// settled party, positive for a party that is owed money, negative for one
// that owes.
func (a Amount) Settlement() decimal.Decimal {
	return a.AmountPaid.Sub(a.AmountToPay)
}
