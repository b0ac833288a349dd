package models

import (
	"strings"

	"gorm.io/gorm"
)

// Transaction is one logical financial event, e.g. "dinner with friends".
//
// A transaction has no owner of its own. Visibility is transitive: whoever
// owns an account referenced by one of its amount rows can see it. It exists
// exactly as long as it has at least one amount row; removing the last row
// removes the transaction.
type Transaction struct {
	DefaultModel
	Category         string `json:"category"`
	IsIncome         bool   `json:"isIncome"`
	IncludeInReports bool   `json:"includeInReports"`
	Description      string `json:"description"`
	Notes            string `json:"notes"`

	Amounts []Amount `json:"amounts" gorm:"constraint:OnDelete:CASCADE"`
	Tags    []Tag    `json:"tags" gorm:"constraint:OnDelete:CASCADE"`
}

// BeforeSave trims whitespace from all strings.
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.Category = strings.TrimSpace(t.Category)
	t.Description = strings.TrimSpace(t.Description)
	t.Notes = strings.TrimSpace(t.Notes)

	return nil
}
