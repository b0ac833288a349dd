package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/billfold/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// sumTolerance absorbs decimal rounding when comparing the total amount owed
// with the total amount paid. A difference of exactly 0.01 still passes.
var sumTolerance = decimal.NewFromFloat(0.01)

// AmountCreate is one amount row in a create request. Exactly one of
// AccountID and AccountName must be set.
type AmountCreate struct {
	AccountID   *uuid.UUID
	AccountName string
	AmountToPay decimal.Decimal
	AmountPaid  decimal.Decimal
}

// TransactionCreate is the payload for creating a transaction.
type TransactionCreate struct {
	Category         string `validate:"required"`
	IsIncome         bool
	IncludeInReports bool
	Description      string
	Notes            string
	Amounts          []AmountCreate `validate:"min=1"`
	Tags             []string
}

// AmountUpdate is one entry of the desired amount set in an update request.
// A zero ID inserts a new row; a non-zero ID patches the existing row in
// place.
type AmountUpdate struct {
	ID          uuid.UUID
	AccountID   *uuid.UUID
	AccountName string
	AmountToPay decimal.Decimal
	AmountPaid  decimal.Decimal
}

// TransactionUpdate is the payload for a partial transaction update. Nil
// fields stay untouched. A non-nil Amounts is the full desired state of the
// amount set: rows missing from it are deleted, entries without an ID are
// inserted, entries with an ID are patched.
type TransactionUpdate struct {
	Category         *string
	IsIncome         *bool
	IncludeInReports *bool
	Description      *string
	Notes            *string
	Amounts          *[]AmountUpdate
}

// headerEdit reports whether the update touches any header field.
func (u TransactionUpdate) headerEdit() bool {
	return u.Category != nil || u.IsIncome != nil || u.IncludeInReports != nil || u.Description != nil || u.Notes != nil
}

// CreateTransaction validates and creates a transaction with its amount rows
// and tags, and adjusts the balances of all referenced accounts. Everything
// commits atomically; on any failure nothing is observable.
func (s *Service) CreateTransaction(ctx context.Context, userID uint64, create TransactionCreate) (models.Transaction, error) {
	if err := validate.StructCtx(ctx, create); err != nil {
		if len(create.Amounts) == 0 {
			return models.Transaction{}, ErrNoAmounts
		}
		return models.Transaction{}, ErrCategoryRequired
	}

	var transaction models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		amounts := make([]models.Amount, 0, len(create.Amounts))
		hasSelfStake := false

		for _, entry := range create.Amounts {
			amount := models.Amount{
				AccountID:   entry.AccountID,
				AccountName: entry.AccountName,
				AmountToPay: entry.AmountToPay,
				AmountPaid:  entry.AmountPaid,
			}

			selfOwned, err := s.checkAmount(tx, userID, amount)
			if err != nil {
				return err
			}
			hasSelfStake = hasSelfStake || selfOwned

			amounts = append(amounts, amount)
		}

		if err := checkSums(amounts); err != nil {
			return err
		}

		if !hasSelfStake {
			return ErrNoSelfStake
		}

		tags := make([]models.Tag, 0, len(create.Tags))
		for _, name := range create.Tags {
			tags = append(tags, models.Tag{Name: name})
		}

		transaction = models.Transaction{
			Category:         create.Category,
			IsIncome:         create.IsIncome,
			IncludeInReports: create.IncludeInReports,
			Description:      create.Description,
			Notes:            create.Notes,
			Amounts:          amounts,
			Tags:             tags,
		}

		err := tx.Create(&transaction).Error
		if err != nil {
			return err
		}

		return applyBalanceDeltas(tx, ComputeBalanceDeltas(nil, false, transaction.Amounts, transaction.IsIncome))
	})
	if err != nil {
		return models.Transaction{}, err
	}

	transactionsCreated.Inc()
	return transaction, nil
}

// GetTransaction returns the transaction with all its amounts and tags.
//
// Access is transitive: the requesting user must own at least one account
// referenced by the transaction's amount rows. Transactions the user cannot
// access are reported as not found, not as forbidden, so their existence
// does not leak.
func (s *Service) GetTransaction(ctx context.Context, userID uint64, id uuid.UUID) (models.Transaction, error) {
	db := s.db.WithContext(ctx)

	if err := checkAccess(db, userID, id); err != nil {
		return models.Transaction{}, err
	}

	return loadTransaction(db, id)
}

// UpdateTransaction applies a partial header update and/or replaces the
// amount set with the supplied desired state.
//
// Removing the last amount row deletes the transaction itself; in that case
// the returned transaction is nil. Mixing that drain with header edits in
// the same call is rejected. After the row changes, the sum and self-stake
// invariants are re-checked against the new row set; a violation rolls the
// whole update back, balance adjustments included.
func (s *Service) UpdateTransaction(ctx context.Context, userID uint64, id uuid.UUID, update TransactionUpdate) (*models.Transaction, error) {
	db := s.db.WithContext(ctx)

	if err := checkAccess(db, userID, id); err != nil {
		return nil, err
	}

	deleted := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var transaction models.Transaction
		err := tx.First(&transaction, "id = ?", id).Error
		if errors.Is(err, models.ErrResourceNotFound) {
			return ErrTransactionNotFound
		}
		if err != nil {
			return err
		}

		var oldRows []models.Amount
		err = tx.Where("transaction_id = ?", id).Find(&oldRows).Error
		if err != nil {
			return err
		}
		oldIsIncome := transaction.IsIncome

		// Drain-to-delete: an empty desired amount set removes the
		// transaction, but only if nothing else changes in the same call.
		if update.Amounts != nil && len(*update.Amounts) == 0 {
			if update.headerEdit() {
				return ErrDrainWithEdit
			}

			err := applyBalanceDeltas(tx, ComputeBalanceDeltas(oldRows, oldIsIncome, nil, oldIsIncome))
			if err != nil {
				return err
			}

			deleted = true
			return tx.Delete(&transaction).Error
		}

		if update.Category != nil {
			transaction.Category = *update.Category
		}
		if update.IsIncome != nil {
			transaction.IsIncome = *update.IsIncome
		}
		if update.IncludeInReports != nil {
			transaction.IncludeInReports = *update.IncludeInReports
		}
		if update.Description != nil {
			transaction.Description = *update.Description
		}
		if update.Notes != nil {
			transaction.Notes = *update.Notes
		}

		if transaction.Category == "" {
			return ErrCategoryRequired
		}

		err = tx.Save(&transaction).Error
		if err != nil {
			return err
		}

		if update.Amounts == nil {
			// Header-only update. An income/expense flip reverses the sign
			// of every row's contribution.
			if transaction.IsIncome != oldIsIncome {
				return applyBalanceDeltas(tx, ComputeBalanceDeltas(oldRows, oldIsIncome, oldRows, transaction.IsIncome))
			}
			return nil
		}

		newRows, err := s.applyAmountSet(tx, userID, &transaction, oldRows, *update.Amounts)
		if err != nil {
			return err
		}

		return applyBalanceDeltas(tx, ComputeBalanceDeltas(oldRows, oldIsIncome, newRows, transaction.IsIncome))
	})
	if err != nil {
		return nil, err
	}

	if deleted {
		transactionsDeleted.Inc()
		return nil, nil
	}

	transactionsUpdated.Inc()

	transaction, err := loadTransaction(db, id)
	if err != nil {
		return nil, err
	}

	return &transaction, nil
}

// applyAmountSet reconciles the stored amount rows of a transaction with the
// desired row set: deletes rows missing from it, inserts entries without an
// ID, patches entries with one. An existing row may appear at most once in
// the desired set; a repeated ID would make the invariant checks and balance
// deltas run against rows that do not exist in the database. It returns the
// new row set after verifying the transaction-level invariants against it.
func (s *Service) applyAmountSet(tx *gorm.DB, userID uint64, transaction *models.Transaction, oldRows []models.Amount, desired []AmountUpdate) ([]models.Amount, error) {
	existing := make(map[uuid.UUID]models.Amount, len(oldRows))
	for _, row := range oldRows {
		existing[row.ID] = row
	}

	kept := make(map[uuid.UUID]bool, len(desired))
	newRows := make([]models.Amount, 0, len(desired))
	hasSelfStake := false

	for _, entry := range desired {
		var row models.Amount

		if entry.ID == uuid.Nil {
			row = models.Amount{
				TransactionID: transaction.ID,
			}
		} else {
			var ok bool
			row, ok = existing[entry.ID]
			if !ok {
				return nil, ErrAmountNotFound
			}
			if kept[entry.ID] {
				return nil, ErrDuplicateAmount
			}
			kept[entry.ID] = true
		}

		row.AccountID = entry.AccountID
		row.AccountName = entry.AccountName
		row.AmountToPay = entry.AmountToPay
		row.AmountPaid = entry.AmountPaid

		selfOwned, err := s.checkAmount(tx, userID, row)
		if err != nil {
			return nil, err
		}
		hasSelfStake = hasSelfStake || selfOwned

		if entry.ID == uuid.Nil {
			err = tx.Create(&row).Error
		} else {
			err = tx.Save(&row).Error
		}
		if err != nil {
			return nil, err
		}

		newRows = append(newRows, row)
	}

	for _, row := range oldRows {
		if kept[row.ID] {
			continue
		}
		err := tx.Delete(&models.Amount{}, "id = ?", row.ID).Error
		if err != nil {
			return nil, err
		}
	}

	if err := checkSums(newRows); err != nil {
		return nil, err
	}

	if !hasSelfStake {
		return nil, ErrNoSelfStake
	}

	return newRows, nil
}

// DeleteTransaction removes a transaction, its amounts and tags, and
// reverses every row's balance contribution, all atomically.
func (s *Service) DeleteTransaction(ctx context.Context, userID uint64, id uuid.UUID) error {
	db := s.db.WithContext(ctx)

	if err := checkAccess(db, userID, id); err != nil {
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var transaction models.Transaction
		err := tx.First(&transaction, "id = ?", id).Error
		if err != nil {
			return err
		}

		var rows []models.Amount
		err = tx.Where("transaction_id = ?", id).Find(&rows).Error
		if err != nil {
			return err
		}

		err = applyBalanceDeltas(tx, ComputeBalanceDeltas(rows, transaction.IsIncome, nil, transaction.IsIncome))
		if err != nil {
			return err
		}

		// The foreign keys cascade amount and tag rows.
		return tx.Delete(&transaction).Error
	})
	if err != nil {
		return err
	}

	transactionsDeleted.Inc()
	return nil
}

// checkAmount validates a single amount row against the business rules: the
// target must be exactly one of account and payee name, amounts must not be
// negative, and a referenced account must exist and be owned by the
// requesting user or one of their friends. It reports whether the row is a
// self-stake of the requesting user.
func (s *Service) checkAmount(tx *gorm.DB, userID uint64, amount models.Amount) (bool, error) {
	if amount.Target() == nil {
		return false, ErrAmountTarget
	}

	if amount.AmountToPay.IsNegative() || amount.AmountPaid.IsNegative() {
		return false, ErrAmountNegative
	}

	if amount.AccountID == nil {
		return false, nil
	}

	account, err := getAccountAny(tx, *amount.AccountID)
	if err != nil {
		return false, err
	}

	if account.UserID == userID {
		return true, nil
	}

	friends, err := models.IsFriend(tx, account.UserID, userID)
	if err != nil {
		return false, err
	}
	if !friends {
		return false, ErrAccountNoAccess
	}

	return false, nil
}

// checkSums verifies the bill-splitting invariant: the total owed and the
// total paid across all rows of one transaction must balance, up to the
// rounding tolerance.
func checkSums(rows []models.Amount) error {
	var toPay, paid decimal.Decimal
	for _, row := range rows {
		toPay = toPay.Add(row.AmountToPay)
		paid = paid.Add(row.AmountPaid)
	}

	if toPay.Sub(paid).Abs().GreaterThan(sumTolerance) {
		return fmt.Errorf("%w: %s owed versus %s paid", ErrSumMismatch, toPay, paid)
	}

	return nil
}

// checkAccess verifies that the user owns at least one account referenced by
// the transaction's amount rows. Inaccessible and nonexistent transactions
// are indistinguishable to the caller.
func checkAccess(db *gorm.DB, userID uint64, transactionID uuid.UUID) error {
	var count int64
	err := db.Model(&models.Amount{}).
		Joins("JOIN accounts ON accounts.id = amounts.account_id").
		Where("amounts.transaction_id = ? AND accounts.user_id = ?", transactionID, userID).
		Count(&count).Error
	if err != nil {
		return err
	}

	if count == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

// loadTransaction returns a transaction with its amounts and tags preloaded.
func loadTransaction(db *gorm.DB, id uuid.UUID) (models.Transaction, error) {
	var transaction models.Transaction
	err := db.
		Preload("Amounts", func(db *gorm.DB) *gorm.DB {
			return db.Order("datetime(amounts.created_at) ASC")
		}).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("datetime(tags.created_at) ASC")
		}).
		First(&transaction, "id = ?", id).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return models.Transaction{}, ErrTransactionNotFound
	}
	if err != nil {
		return models.Transaction{}, err
	}

	return transaction, nil
}

// TransactionFilter restricts and paginates the transaction list. All
// supplied filters must match. Pages are 1-indexed.
type TransactionFilter struct {
	Page        int
	Limit       int
	From        time.Time // matches transactions created at or after this time
	Until       time.Time // matches transactions created at or before this time
	Category    string
	Tags        []string // the transaction must carry all of these, case-insensitively
	AccountID   uuid.UUID
	Description string // substring match
}

const defaultListLimit = 20

// ListTransactions returns the transactions visible to the user that match
// all supplied filters, newest first, along with the total number of matches
// across all pages.
func (s *Service) ListTransactions(ctx context.Context, userID uint64, filter TransactionFilter) ([]models.Transaction, int64, error) {
	db := s.db.WithContext(ctx)

	q := db.Model(&models.Transaction{}).
		Where("EXISTS (SELECT 1 FROM amounts JOIN accounts ON accounts.id = amounts.account_id WHERE amounts.transaction_id = transactions.id AND accounts.user_id = ?)", userID)

	if filter.Category != "" {
		q = q.Where("transactions.category = ?", filter.Category)
	}

	if !filter.From.IsZero() {
		q = q.Where("datetime(transactions.created_at) >= datetime(?)", filter.From.In(time.UTC))
	}

	if !filter.Until.IsZero() {
		q = q.Where("datetime(transactions.created_at) <= datetime(?)", filter.Until.In(time.UTC))
	}

	if filter.AccountID != uuid.Nil {
		q = q.Where("EXISTS (SELECT 1 FROM amounts WHERE amounts.transaction_id = transactions.id AND amounts.account_id = ?)", filter.AccountID)
	}

	if filter.Description != "" {
		q = q.Where("transactions.description LIKE ?", fmt.Sprintf("%%%s%%", filter.Description))
	}

	for _, tag := range filter.Tags {
		q = q.Where("EXISTS (SELECT 1 FROM tags WHERE tags.transaction_id = transactions.id AND tags.name_folded = ?)", models.FoldTag(tag))
	}

	var total int64
	err := q.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}

	limit := filter.Limit
	if limit < 1 {
		limit = defaultListLimit
	}

	var transactions []models.Transaction
	err = q.
		Order("datetime(transactions.created_at) DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Preload("Amounts").
		Preload("Tags").
		Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}
