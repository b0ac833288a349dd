package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account is a balance-bearing account owned by exactly one user.
//
// Balance is a derived cache over the amount rows referencing the account.
// It is seeded once at creation and afterwards written exclusively by the
// balance maintenance code in the ledger package, never directly.
type Account struct {
	DefaultModel
	UserID  uint64          `json:"userId" gorm:"index;uniqueIndex:account_name_user_id"`
	Name    string          `json:"name" gorm:"uniqueIndex:account_name_user_id"`
	Balance decimal.Decimal `json:"balance" gorm:"type:DECIMAL(20,4)"`
}

// BeforeSave trims whitespace from all strings.
func (a *Account) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)

	return nil
}

// Amounts returns all amount rows currently referencing this account.
func (a Account) Amounts(db *gorm.DB) ([]Amount, error) {
	var amounts []Amount
	err := db.Where("account_id = ?", a.ID).Find(&amounts).Error
	return amounts, err
}
