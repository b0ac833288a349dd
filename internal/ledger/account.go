package ledger

import (
	"context"
	"errors"

	"github.com/billfold/backend/internal/models"
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountCreate is the payload for creating an account.
//
// InitialBalance is an informational seed. It is not validated against any
// ledger rows; from then on the balance only moves with the ledger.
type AccountCreate struct {
	Name           string `validate:"required"`
	InitialBalance decimal.Decimal
}

// CreateAccount creates an account owned by the requesting user.
func (s *Service) CreateAccount(ctx context.Context, userID uint64, create AccountCreate) (models.Account, error) {
	if err := validate.StructCtx(ctx, create); err != nil {
		return models.Account{}, ErrNameRequired
	}

	account := models.Account{
		UserID:  userID,
		Name:    create.Name,
		Balance: create.InitialBalance,
	}

	err := s.db.WithContext(ctx).Create(&account).Error
	if err != nil {
		return models.Account{}, err
	}

	return account, nil
}

// GetAccount returns the account with the given ID if it is owned by the
// requesting user.
func (s *Service) GetAccount(ctx context.Context, userID uint64, id uuid.UUID) (models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).First(&account, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return models.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return models.Account{}, err
	}

	return account, nil
}

// ListAccounts returns all accounts of the requesting user, ordered by name.
// A non-empty nameFilter restricts the result to accounts whose name matches
// the glob pattern, e.g. "cash*".
func (s *Service) ListAccounts(ctx context.Context, userID uint64, nameFilter string) ([]models.Account, error) {
	var accounts []models.Account
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}

	if nameFilter == "" {
		return accounts, nil
	}

	matched := make([]models.Account, 0, len(accounts))
	for _, account := range accounts {
		if glob.Glob(nameFilter, account.Name) {
			matched = append(matched, account)
		}
	}

	return matched, nil
}

// UpdateAccount renames an account owned by the requesting user. The balance
// is deliberately not updatable.
func (s *Service) UpdateAccount(ctx context.Context, userID uint64, id uuid.UUID, name string) (models.Account, error) {
	account, err := s.GetAccount(ctx, userID, id)
	if err != nil {
		return models.Account{}, err
	}

	if name == "" {
		return models.Account{}, ErrNameRequired
	}

	err = s.db.WithContext(ctx).Model(&account).Update("name", name).Error
	if err != nil {
		return models.Account{}, err
	}

	return account, nil
}

// DeleteAccount deletes an account owned by the requesting user.
//
// Amount rows referencing the account are not deleted. They are converted to
// external rows carrying the account's last name, so the ledger history
// stays readable after the account is gone. Conversion and deletion commit
// together or not at all.
func (s *Service) DeleteAccount(ctx context.Context, userID uint64, id uuid.UUID) error {
	account, err := s.GetAccount(ctx, userID, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Amount{}).
			Where("account_id = ?", account.ID).
			Updates(map[string]any{
				"account_id":   nil,
				"account_name": account.Name,
			}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&account).Error
	})
}

// getAccountAny returns an account regardless of who owns it. It is used to
// validate account references in amount rows, where ownership is checked
// separately against the friendship edges.
func getAccountAny(tx *gorm.DB, id uuid.UUID) (models.Account, error) {
	var account models.Account
	err := tx.First(&account, "id = ?", id).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return models.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return models.Account{}, err
	}

	return account, nil
}
