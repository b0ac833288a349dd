package ledger

import (
	"context"
	"strings"

	"github.com/billfold/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AddTag adds a tag to a transaction the user has access to. Tags that only
// differ in case from an existing one are rejected as duplicates. The
// duplicate check and the insert run in one database transaction so two
// concurrent calls cannot both pass the check.
func (s *Service) AddTag(ctx context.Context, userID uint64, transactionID uuid.UUID, name string) (models.Tag, error) {
	db := s.db.WithContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Tag{}, ErrTagRequired
	}

	var tag models.Tag
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := checkAccess(tx, userID, transactionID); err != nil {
			return err
		}

		var count int64
		err := tx.Model(&models.Tag{}).
			Where("transaction_id = ? AND name_folded = ?", transactionID, models.FoldTag(name)).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateTag
		}

		tag = models.Tag{
			TransactionID: transactionID,
			Name:          name,
		}

		return tx.Create(&tag).Error
	})
	if err != nil {
		return models.Tag{}, err
	}

	return tag, nil
}

// RemoveTag removes a tag from a transaction the user has access to. The tag
// must belong to that transaction.
func (s *Service) RemoveTag(ctx context.Context, userID uint64, transactionID, tagID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	if err := checkAccess(db, userID, transactionID); err != nil {
		return err
	}

	res := db.Where("id = ? AND transaction_id = ?", tagID, transactionID).Delete(&models.Tag{})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrTagNotFound
	}

	return nil
}
