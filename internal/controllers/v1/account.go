package v1

import (
	"fmt"
	"net/http"

	"github.com/billfold/backend/internal/auth"
	"github.com/billfold/backend/internal/httputil"
	"github.com/billfold/backend/internal/ledger"
	"github.com/billfold/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RegisterAccountRoutes registers the routes for accounts with the
// RouterGroup that is passed.
func (api *API) RegisterAccountRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsAccounts)
		r.GET("", api.GetAccounts)
		r.POST("", api.CreateAccount)
	}

	// Account with ID
	{
		r.OPTIONS("/:id", OptionsAccountDetail)
		r.GET("/:id", api.GetAccount)
		r.PATCH("/:id", api.UpdateAccount)
		r.DELETE("/:id", api.DeleteAccount)
	}
}

// AccountEditable contains the fields a caller can set on an account.
type AccountEditable struct {
	Name string `json:"name" example:"Checking"` // Name of the account

	// InitialBalance seeds the balance at creation and is ignored on
	// updates: after creation the balance only moves with the ledger.
	InitialBalance decimal.Decimal `json:"initialBalance" example:"150.00"`
}

type AccountLinks struct {
	Self string `json:"self" example:"https://example.com/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88107f9c"` // The account itself
}

// Account is the representation of an Account in API v1.
type Account struct {
	models.DefaultModel
	UserID  uint64          `json:"userId" example:"4"`       // Owner of the account
	Name    string          `json:"name" example:"Checking"`  // Name of the account
	Balance decimal.Decimal `json:"balance" example:"150.00"` // Current balance
	Links   AccountLinks    `json:"links"`
}

// newAccount returns the API v1 representation of the resource.
func newAccount(c *gin.Context, model models.Account) Account {
	return Account{
		DefaultModel: model.DefaultModel,
		UserID:       model.UserID,
		Name:         model.Name,
		Balance:      model.Balance,
		Links: AccountLinks{
			Self: fmt.Sprintf("%s/v1/accounts/%s", httputil.RequestHost(c), model.ID),
		},
	}
}

type AccountResponse struct {
	Data  *Account `json:"data"`  // The Account data, if the request was successful
	Error *string  `json:"error"` // The error, if any occurred
}

type AccountListResponse struct {
	Data  []Account `json:"data"`  // List of accounts
	Error *string   `json:"error"` // The error, if any occurred
}

type AccountQueryFilter struct {
	Name string `form:"name"` // Glob pattern the account name must match, e.g. "cash*"
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Router			/v1/accounts [options]
func OptionsAccounts(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/accounts/{id} [options]
func OptionsAccountDetail(c *gin.Context) {
	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create account
// @Description	Creates a new account owned by the requesting user
// @Tags			Accounts
// @Accept			json
// @Produce		json
// @Success		201		{object}	AccountResponse
// @Failure		400		{object}	AccountResponse
// @Failure		500		{object}	AccountResponse
// @Param			account	body		AccountEditable	true	"Account"
// @Router			/v1/accounts [post]
func (api *API) CreateAccount(c *gin.Context) {
	var editable AccountEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, AccountResponse{Error: &e})
		return
	}

	account, err := api.ledger.CreateAccount(c.Request.Context(), auth.UserID(c), ledger.AccountCreate{
		Name:           editable.Name,
		InitialBalance: editable.InitialBalance,
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{Error: &e})
		return
	}

	data := newAccount(c, account)
	c.JSON(http.StatusCreated, AccountResponse{Data: &data})
}

// @Summary		Get accounts
// @Description	Returns the accounts of the requesting user
// @Tags			Accounts
// @Produce		json
// @Success		200		{object}	AccountListResponse
// @Failure		400		{object}	AccountListResponse
// @Failure		500		{object}	AccountListResponse
// @Param			name	query		string	false	"Glob pattern the account name must match"
// @Router			/v1/accounts [get]
func (api *API) GetAccounts(c *gin.Context) {
	var filter AccountQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, AccountListResponse{Error: &e})
		return
	}

	accounts, err := api.ledger.ListAccounts(c.Request.Context(), auth.UserID(c), filter.Name)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountListResponse{Error: &e})
		return
	}

	data := make([]Account, 0, len(accounts))
	for _, account := range accounts {
		data = append(data, newAccount(c, account))
	}

	c.JSON(http.StatusOK, AccountListResponse{Data: data})
}

// @Summary		Get account
// @Description	Returns a specific account of the requesting user
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	AccountResponse
// @Failure		400	{object}	AccountResponse
// @Failure		404	{object}	AccountResponse
// @Failure		500	{object}	AccountResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/accounts/{id} [get]
func (api *API) GetAccount(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, AccountResponse{Error: &e})
		return
	}

	account, err := api.ledger.GetAccount(c.Request.Context(), auth.UserID(c), uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{Error: &e})
		return
	}

	data := newAccount(c, account)
	c.JSON(http.StatusOK, AccountResponse{Data: &data})
}

// @Summary		Update account
// @Description	Renames an account. The balance cannot be updated directly.
// @Tags			Accounts
// @Accept			json
// @Produce		json
// @Success		200		{object}	AccountResponse
// @Failure		400		{object}	AccountResponse
// @Failure		404		{object}	AccountResponse
// @Failure		500		{object}	AccountResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			account	body		AccountEditable	true	"Account"
// @Router			/v1/accounts/{id} [patch]
func (api *API) UpdateAccount(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, AccountResponse{Error: &e})
		return
	}

	var editable AccountEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, AccountResponse{Error: &e})
		return
	}

	account, err := api.ledger.UpdateAccount(c.Request.Context(), auth.UserID(c), uri.ID.UUID, editable.Name)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{Error: &e})
		return
	}

	data := newAccount(c, account)
	c.JSON(http.StatusOK, AccountResponse{Data: &data})
}

// @Summary		Delete account
// @Description	Deletes an account. Ledger rows referencing it are kept and converted to external rows carrying the account's name.
// @Tags			Accounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/accounts/{id} [delete]
func (api *API) DeleteAccount(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	err := api.ledger.DeleteAccount(c.Request.Context(), auth.UserID(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
