package v1

import (
	"errors"
	"net/http"

	"github.com/billfold/backend/internal/ledger"
	"github.com/billfold/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate HTTP status for a service error.
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, ledger.ErrNotFound) || errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, ledger.ErrForbidden) {
		return http.StatusForbidden
	}

	return http.StatusBadRequest
}
