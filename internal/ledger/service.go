// Package ledger implements the transaction service: the create, read,
// update, delete and query operations on transactions and their split
// amounts, the bill-splitting invariants, and the balance maintenance that
// keeps every account's cached balance consistent with the amount rows
// referencing it.
package ledger

import (
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// validate checks the shape of incoming payloads before any business
// validation runs.
var validate = validator.New()

// Service orchestrates all ledger mutations. Every mutating operation runs
// inside a single database transaction together with the balance updates it
// triggers, so balances and amount rows are never observably inconsistent.
type Service struct {
	db *gorm.DB
}

// NewService returns a Service operating on the given database handle.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}
