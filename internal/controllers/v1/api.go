// Package v1 contains the HTTP handlers for API v1.
package v1

import (
	"github.com/billfold/backend/internal/ledger"
	"github.com/gin-gonic/gin"
)

// API holds the handlers' dependencies.
type API struct {
	ledger *ledger.Service
}

// NewAPI returns the v1 API backed by the given ledger service.
func NewAPI(service *ledger.Service) *API {
	return &API{ledger: service}
}

// RegisterRoutes registers all v1 routes with the RouterGroup that is
// passed.
func (api *API) RegisterRoutes(r *gin.RouterGroup) {
	api.RegisterAccountRoutes(r.Group("/accounts"))
	api.RegisterTransactionRoutes(r.Group("/transactions"))
}
