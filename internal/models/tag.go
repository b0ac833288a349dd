package models

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// tagFold normalizes tag names for case-insensitive comparison. Unicode case
// folding catches more than ASCII lowercasing, e.g. "Straße" and "STRASSE".
var tagFold = cases.Fold()

// FoldTag returns the case-folded form of a tag name, as stored in the
// NameFolded column.
func FoldTag(name string) string {
	return tagFold.String(name)
}

// Tag is a free-text label on a transaction. A transaction carries any
// number of tags; duplicates are rejected case-insensitively when a tag is
// added to an existing transaction.
type Tag struct {
	DefaultModel
	TransactionID uuid.UUID `json:"transactionId" gorm:"index"`
	Name          string    `json:"name"`

	// NameFolded is derived from Name on every save. Queries that match tags
	// case-insensitively compare against this column so they agree with the
	// folding used for duplicate detection.
	NameFolded string `json:"-" gorm:"index"`
}

// BeforeSave trims whitespace from the tag name and derives its folded form.
func (t *Tag) BeforeSave(_ *gorm.DB) error {
	t.Name = strings.TrimSpace(t.Name)
	t.NameFolded = FoldTag(t.Name)

	return nil
}
