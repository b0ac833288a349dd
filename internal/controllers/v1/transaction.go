package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/billfold/backend/internal/auth"
	"github.com/billfold/backend/internal/httputil"
	"github.com/billfold/backend/internal/ledger"
	"github.com/billfold/backend/internal/models"
	ez_uuid "github.com/billfold/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterTransactionRoutes registers the routes for transactions with the
// RouterGroup that is passed.
func (api *API) RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactions)
		r.GET("", api.GetTransactions)
		r.POST("", api.CreateTransaction)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", api.GetTransaction)
		r.PATCH("/:id", api.UpdateTransaction)
		r.DELETE("/:id", api.DeleteTransaction)
	}

	// Tags of a transaction
	{
		r.OPTIONS("/:id/tags", OptionsTransactionTags)
		r.POST("/:id/tags", api.AddTag)
		r.OPTIONS("/:id/tags/:tagId", OptionsTransactionTagDetail)
		r.DELETE("/:id/tags/:tagId", api.RemoveTag)
	}
}

// AmountEditable is one split-amount entry in a request. Exactly one of
// AccountID and AccountName must be set.
type AmountEditable struct {
	// ID of an existing amount row. Only used on updates: entries without
	// an ID are inserted, entries with one patch the row in place.
	ID uuid.UUID `json:"id" example:"c115b9b4-0e20-4482-9e0f-9a9819a59c15"`

	AccountID   *uuid.UUID      `json:"accountId" example:"fd81dc45-a3a2-468e-a6fa-b2618f30aa45"` // ID of the registered account this stake belongs to
	AccountName string          `json:"accountName" example:"Aunt Ruth" default:""`               // Free-text external payee, for parties without an account
	AmountToPay decimal.Decimal `json:"amountToPay" example:"33.50" minimum:"0"`                  // What this party owes
	AmountPaid  decimal.Decimal `json:"amountPaid" example:"100.00" minimum:"0"`                  // What this party contributed
}

// TransactionEditable contains the fields for creating a transaction.
type TransactionEditable struct {
	Category         string           `json:"category" example:"Food"`                   // Category of the transaction
	IsIncome         bool             `json:"isIncome" example:"false" default:"false"`  // Does the transaction add money to the accounts?
	IncludeInReports *bool            `json:"includeInReports" example:"true"`           // Include the transaction in reports? Defaults to true.
	Description      string           `json:"description" example:"Dinner with friends"` // A short description
	Notes            string           `json:"notes" example:"Sushi night" default:""`    // Free-form notes
	Amounts          []AmountEditable `json:"amounts"`                                   // The split amounts, at least one
	Tags             []string         `json:"tags" example:"food,friends"`               // Tags for the transaction
}

// TransactionUpdateBody is the body of a transaction update. Absent fields
// stay untouched. A non-null empty Amounts list deletes the transaction,
// which cannot be combined with other changes.
type TransactionUpdateBody struct {
	Category         *string           `json:"category"`
	IsIncome         *bool             `json:"isIncome"`
	IncludeInReports *bool             `json:"includeInReports"`
	Description      *string           `json:"description"`
	Notes            *string           `json:"notes"`
	Amounts          *[]AmountEditable `json:"amounts"` // Full desired state of the amount set
}

type TransactionLinks struct {
	Self string `json:"self" example:"https://example.com/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"` // The transaction itself
	Tags string `json:"tags" example:"https://example.com/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673/tags"`
}

// Transaction is the representation of a Transaction in API v1.
type Transaction struct {
	models.DefaultModel
	Category         string           `json:"category" example:"Food"`
	IsIncome         bool             `json:"isIncome" example:"false"`
	IncludeInReports bool             `json:"includeInReports" example:"true"`
	Description      string           `json:"description" example:"Dinner with friends"`
	Notes            string           `json:"notes" example:"Sushi night"`
	Amounts          []models.Amount  `json:"amounts"`
	Tags             []models.Tag     `json:"tags"`
	Links            TransactionLinks `json:"links"`
}

// newTransaction returns the API v1 representation of the resource.
func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	self := fmt.Sprintf("%s/v1/transactions/%s", httputil.RequestHost(c), model.ID)

	return Transaction{
		DefaultModel:     model.DefaultModel,
		Category:         model.Category,
		IsIncome:         model.IsIncome,
		IncludeInReports: model.IncludeInReports,
		Description:      model.Description,
		Notes:            model.Notes,
		Amounts:          model.Amounts,
		Tags:             model.Tags,
		Links: TransactionLinks{
			Self: self,
			Tags: self + "/tags",
		},
	}
}

type TransactionResponse struct {
	Data  *Transaction `json:"data"`  // The Transaction data. Null after an update removed the last amount.
	Error *string      `json:"error"` // The error, if any occurred
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`       // List of transactions
	Error      *string       `json:"error"`      // The error, if any occurred
	Pagination *Pagination   `json:"pagination"` // Pagination information
}

type TagResponse struct {
	Data  *models.Tag `json:"data"`  // The Tag data, if the request was successful
	Error *string     `json:"error"` // The error, if any occurred
}

type TagEditable struct {
	Name string `json:"name" example:"food"` // Name of the tag
}

type TransactionQueryFilter struct {
	Page        int          `form:"page"`        // The page to return, 1-indexed. Defaults to 1.
	Limit       int          `form:"limit"`       // Maximum number of transactions per page. Defaults to 20.
	FromDate    time.Time    `form:"fromDate"`    // Transactions created at or after this RFC3339 timestamp
	UntilDate   time.Time    `form:"untilDate"`   // Transactions created at or before this RFC3339 timestamp
	Category    string       `form:"category"`    // Exact category match
	Tags        []string     `form:"tags"`        // The transaction must carry all of these tags, case-insensitively
	AccountID   ez_uuid.UUID `form:"account"`     // An amount row must reference this account
	Description string       `form:"description"` // Description contains this string
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactions(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id}/tags [options]
func OptionsTransactionTags(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Param			id		path	URIID		true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			tagId	path	URITagID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id}/tags/{tagId} [options]
func OptionsTransactionTagDetail(c *gin.Context) {
	httputil.OptionsDelete(c)
}

// amountCreates converts the request entries to the service payload.
func amountCreates(editables []AmountEditable) []ledger.AmountCreate {
	amounts := make([]ledger.AmountCreate, 0, len(editables))
	for _, editable := range editables {
		amounts = append(amounts, ledger.AmountCreate{
			AccountID:   editable.AccountID,
			AccountName: editable.AccountName,
			AmountToPay: editable.AmountToPay,
			AmountPaid:  editable.AmountPaid,
		})
	}

	return amounts
}

// @Summary		Create transaction
// @Description	Creates a transaction with its split amounts and tags. The amounts owed and paid must balance and at least one amount must reference an account of the requesting user.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		201			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		403			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/transactions [post]
func (api *API) CreateTransaction(c *gin.Context) {
	var editable TransactionEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{Error: &e})
		return
	}

	includeInReports := true
	if editable.IncludeInReports != nil {
		includeInReports = *editable.IncludeInReports
	}

	transaction, err := api.ledger.CreateTransaction(c.Request.Context(), auth.UserID(c), ledger.TransactionCreate{
		Category:         editable.Category,
		IsIncome:         editable.IsIncome,
		IncludeInReports: includeInReports,
		Description:      editable.Description,
		Notes:            editable.Notes,
		Amounts:          amountCreates(editable.Amounts),
		Tags:             editable.Tags,
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	data := newTransaction(c, transaction)
	c.JSON(http.StatusCreated, TransactionResponse{Data: &data})
}

// @Summary		Get transaction
// @Description	Returns a specific transaction with all amounts and tags
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	TransactionResponse
// @Failure		404	{object}	TransactionResponse
// @Failure		500	{object}	TransactionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [get]
func (api *API) GetTransaction(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{Error: &e})
		return
	}

	transaction, err := api.ledger.GetTransaction(c.Request.Context(), auth.UserID(c), uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	data := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}

// @Summary		Get transactions
// @Description	Returns the transactions visible to the requesting user, newest first
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionListResponse
// @Failure		400	{object}	TransactionListResponse
// @Failure		500	{object}	TransactionListResponse
// @Param			page		query	int		false	"The page to return, 1-indexed. Defaults to 1."
// @Param			limit		query	int		false	"Maximum number of transactions per page. Defaults to 20."
// @Param			fromDate	query	string	false	"Transactions created at or after this RFC3339 timestamp"
// @Param			untilDate	query	string	false	"Transactions created at or before this RFC3339 timestamp"
// @Param			category	query	string	false	"Exact category match"
// @Param			tags		query	[]string	false	"The transaction must carry all of these tags"
// @Param			account		query	string	false	"An amount row must reference this account"
// @Param			description	query	string	false	"Description contains this string"
// @Router			/v1/transactions [get]
func (api *API) GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TransactionListResponse{Error: &e})
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}

	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	transactions, total, err := api.ledger.ListTransactions(c.Request.Context(), auth.UserID(c), ledger.TransactionFilter{
		Page:        page,
		Limit:       limit,
		From:        filter.FromDate,
		Until:       filter.UntilDate,
		Category:    filter.Category,
		Tags:        filter.Tags,
		AccountID:   filter.AccountID.UUID,
		Description: filter.Description,
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionListResponse{Error: &e})
		return
	}

	data := make([]Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		data = append(data, newTransaction(c, transaction))
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count: len(data),
			Total: total,
			Page:  page,
			Limit: limit,
		},
	})
}

// @Summary		Update transaction
// @Description	Updates a transaction. Only fields in the body are changed. When amounts are present they are the full desired state: missing rows are deleted, entries without an ID are inserted, entries with one are patched. An empty amounts list deletes the transaction.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		403			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			id			path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			transaction	body		TransactionUpdateBody	true	"Transaction"
// @Router			/v1/transactions/{id} [patch]
func (api *API) UpdateTransaction(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{Error: &e})
		return
	}

	var body TransactionUpdateBody
	if err := httputil.BindData(c, &body); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{Error: &e})
		return
	}

	update := ledger.TransactionUpdate{
		Category:         body.Category,
		IsIncome:         body.IsIncome,
		IncludeInReports: body.IncludeInReports,
		Description:      body.Description,
		Notes:            body.Notes,
	}

	if body.Amounts != nil {
		amounts := make([]ledger.AmountUpdate, 0, len(*body.Amounts))
		for _, editable := range *body.Amounts {
			amounts = append(amounts, ledger.AmountUpdate{
				ID:          editable.ID,
				AccountID:   editable.AccountID,
				AccountName: editable.AccountName,
				AmountToPay: editable.AmountToPay,
				AmountPaid:  editable.AmountPaid,
			})
		}
		update.Amounts = &amounts
	}

	transaction, err := api.ledger.UpdateTransaction(c.Request.Context(), auth.UserID(c), uri.ID.UUID, update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	// Removing the last amount removed the transaction itself.
	if transaction == nil {
		c.JSON(http.StatusOK, TransactionResponse{})
		return
	}

	data := newTransaction(c, *transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}

// @Summary		Delete transaction
// @Description	Deletes a transaction with all amounts and tags and reverses its balance contributions
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [delete]
func (api *API) DeleteTransaction(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	err := api.ledger.DeleteTransaction(c.Request.Context(), auth.UserID(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Add tag
// @Description	Adds a tag to a transaction. Tags that only differ in case from an existing one are rejected.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		201	{object}	TagResponse
// @Failure		400	{object}	TagResponse
// @Failure		404	{object}	TagResponse
// @Failure		500	{object}	TagResponse
// @Param			id	path		URIID		true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			tag	body		TagEditable	true	"Tag"
// @Router			/v1/transactions/{id}/tags [post]
func (api *API) AddTag(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TagResponse{Error: &e})
		return
	}

	var editable TagEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TagResponse{Error: &e})
		return
	}

	tag, err := api.ledger.AddTag(c.Request.Context(), auth.UserID(c), uri.ID.UUID, editable.Name)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TagResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, TagResponse{Data: &tag})
}

// @Summary		Remove tag
// @Description	Removes a tag from a transaction
// @Tags			Transactions
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID		true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			tagId	path		URITagID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id}/tags/{tagId} [delete]
func (api *API) RemoveTag(c *gin.Context) {
	var uri URITagID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	err := api.ledger.RemoveTag(c.Request.Context(), auth.UserID(c), uri.ID.UUID, uri.TagID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
