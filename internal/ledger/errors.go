package ledger

import (
	"errors"
	"fmt"
)

// Base error kinds. Every error returned by the service wraps exactly one of
// these so callers can map it to a transport status without inspecting
// messages.
var (
	ErrInvalid   = errors.New("invalid request")
	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("not found")
)

var (
	ErrNameRequired     = fmt.Errorf("%w: a name must be set", ErrInvalid)
	ErrCategoryRequired = fmt.Errorf("%w: a category must be set", ErrInvalid)
	ErrNoAmounts        = fmt.Errorf("%w: a transaction requires at least one amount", ErrInvalid)
	ErrAmountNegative   = fmt.Errorf("%w: amounts owed and paid must not be negative", ErrInvalid)
	ErrAmountTarget     = fmt.Errorf("%w: an amount must reference exactly one of a registered account or an external payee name", ErrInvalid)
	ErrSumMismatch      = fmt.Errorf("%w: the total amount owed must equal the total amount paid", ErrInvalid)
	ErrNoSelfStake      = fmt.Errorf("%w: at least one amount must reference an account of the requesting user", ErrInvalid)
	ErrDrainWithEdit    = fmt.Errorf("%w: removing all amounts deletes the transaction and cannot be combined with other changes", ErrInvalid)
	ErrDuplicateAmount  = fmt.Errorf("%w: the same amount may only appear once in the amount set", ErrInvalid)
	ErrTagRequired      = fmt.Errorf("%w: a tag requires a name", ErrInvalid)
	ErrDuplicateTag     = fmt.Errorf("%w: the transaction already carries this tag", ErrInvalid)

	ErrAccountNotFound     = fmt.Errorf("%w: there is no account matching your query", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("%w: there is no transaction matching your query", ErrNotFound)
	ErrAmountNotFound      = fmt.Errorf("%w: there is no amount matching your query", ErrNotFound)
	ErrTagNotFound         = fmt.Errorf("%w: there is no tag matching your query", ErrNotFound)

	ErrAccountNoAccess = fmt.Errorf("%w: the referenced account belongs to a user you are not friends with", ErrForbidden)
)
