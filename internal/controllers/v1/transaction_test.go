package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/billfold/backend/internal/controllers/v1"
	"github.com/billfold/backend/internal/models"
	"github.com/billfold/backend/internal/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) createTestTransaction(userID uint64, editable v1.TransactionEditable, expectedStatus ...int) v1.TransactionResponse {
	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := suite.request(userID, http.MethodPost, "http://example.com/v1/transactions", editable)
	test.AssertHTTPStatus(suite.T(), &r, expectedStatus...)

	var response v1.TransactionResponse
	suite.decodeResponse(&r, &response)

	return response
}

func (suite *TestSuiteStandard) TestTransactionCreate() {
	account := suite.createTestAccount(1, v1.AccountEditable{Name: "Checking", InitialBalance: decimal.NewFromFloat(100)})

	response := suite.createTestTransaction(1, v1.TransactionEditable{
		Category:    "Dining",
		Description: "Pizza night",
		Amounts: []v1.AmountEditable{
			{AccountID: &account.Data.ID, AmountToPay: decimal.NewFromFloat(20), AmountPaid: decimal.NewFromFloat(20)},
		},
		Tags: []string{"food"},
	})

	assert.Equal(suite.T(), "Dining", response.Data.Category)
	assert.True(suite.T(), response.Data.IncludeInReports, "includeInReports must default to true")
	assert.Len(suite.T(), response.Data.Amounts, 1)
	assert.Len(suite.T(), response.Data.Tags, 1)
	assert.Contains(suite.T(), response.Data.Links.Self, fmt.Sprintf("/v1/transactions/%s", response.Data.ID))

	// The account balance moved
	r := suite.request(1, http.MethodGet, account.Data.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var read v1.AccountResponse
	suite.decodeResponse(&r, &read)
	assert.True(suite.T(), read.Data.Balance.Equal(decimal.NewFromFloat(80)), "balance is %s", read.Data.Balance)
}

func (suite *TestSuiteStandard) TestTransactionCreateErrors() {
	account := suite.createTestAccount(1, v1.AccountEditable{Name: "Checking"})
	stranger := suite.createTestAccount(2, v1.AccountEditable{Name: "Stranger Checking"})

	tests := []struct {
		name           string
		editable       v1.TransactionEditable
		expectedStatus int
	}{
		{
			"no amounts",
			v1.TransactionEditable{Category: "Dining"},
			http.StatusBadRequest,
		},
		{
			"sum mismatch",
			v1.TransactionEditable{
				Category: "Dining",
				Amounts: []v1.AmountEditable{
					{AccountID: &account.Data.ID, AmountToPay: decimal.NewFromFloat(20), AmountPaid: decimal.NewFromFloat(10)},
				},
			},
			http.StatusBadRequest,
		},
		{
			"stranger account",
			v1.TransactionEditable{
				Category: "Dining",
				Amounts: []v1.AmountEditable{
					{AccountID: &account.Data.ID, AmountToPay: decimal.NewFromFloat(10), AmountPaid: decimal.NewFromFloat(20)},
					{AccountID: &stranger.Data.ID, AmountToPay: decimal.NewFromFloat(10), AmountPaid: decimal.NewFromFloat(0)},
				},
			},
			http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		response := suite.createTestTransaction(1, tt.editable, tt.expectedStatus)
		assert.NotNil(suite.T(), response.Error, tt.name)
		assert.Nil(suite.T(), response.Data, tt.name)
	}
}

func (suite *TestSuiteStandard) TestTransactionGetNotFound() {
	_ = suite.createTestAccount(1, v1.AccountEditable{Name: "Checking"})

	r := suite.request(1, http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions/%s", uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTransactionGetList() {
	account := suite.createTestAccount(1, v1.AccountEditable{Name: "Checking"})

	for i := 0; i < 3; i++ {
		_ = suite.createTestTransaction(1, v1.TransactionEditable{
			Category: "Groceries",
			Amounts: []v1.AmountEditable{
				{AccountID: &account.Data.ID, AmountToPay: decimal.NewFromFloat(10), AmountPaid: decimal.NewFromFloat(10)},
			},
		})
	}

	r := suite.request(1, http.MethodGet, "http://example.com/v1/transactions?page=1&limit=2", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionListResponse
	suite.decodeResponse(&r, &response)

	assert.Len(suite.T(), response.Data, 2)
	if assert.NotNil(suite.T(), response.Pagination) {
		assert.Equal(suite.T(), 2, response.Pagination.Count)
		assert.Equal(suite.T(), int64(3), response.Pagination.Total)
		assert.Equal(suite.T(), 1, response.Pagination.Page)
		assert.Equal(suite.T(), 2, response.Pagination.Limit)
	}
}

func (suite *TestSuiteStandard) TestTransactionUpdate() {
	account := suite.createTestAccount(1, v1.AccountEditable{Name: "Checking"})

	created := suite.createTestTransaction(1, v1.TransactionEditable{
		Category: "Dining",
		Amounts: []v1.AmountEditable{
			{AccountID: &account.Data.ID, AmountToPay: decimal.NewFromFloat(10), AmountPaid: decimal.NewFromFloat(10)},
		},
	})

	description := "Pizza night"
	r := suite.request(1, http.MethodPatch, created.Data.Links.Self, v1.TransactionUpdateBody{
		Description: &description,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionResponse
	suite.decodeResponse(&r, &response)
	assert.Equal(suite.T(), "Pizza night", response.Data.Description)
	assert.Equal(suite.T(), "Dining", response.Data.Category)
}

func (suite *TestSuiteStandard) TestTransactionUpdateDrain() {
	account := suite.createTestAccount(1, v1.AccountEditable{Name: "Checking"})

	created := suite.createTestTransaction(1, v1.TransactionEditable{
		Category: "Dining",
		Amounts: []v1.AmountEditable{
			{AccountID: &account.Data.ID, AmountToPay: decimal.NewFromFloat(10), AmountPaid: decimal.NewFromFloat(10)},
		},
	})

	// Removing the last amount deletes the transaction; the response
	// carries no data
	r := suite.request(1, http.MethodPatch, created.Data.Links.Self, `{ "amounts": [] }`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionResponse
	suite.decodeResponse(&r, &response)
	assert.Nil(suite.T(), response.Data)
	assert.Nil(suite.T(), response.Error)

	r = suite.request(1, http.MethodGet, created.Data.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTransactionUpdateDrainWithEdit() {
	account := suite.createTestAccount(1, v1.AccountEditable{Name: "Checking"})

	created := suite.createTestTransaction(1, v1.TransactionEditable{
		Category: "Dining",
		Amounts: []v1.AmountEditable{
			{AccountID: &account.Data.ID, AmountToPay: decimal.NewFromFloat(10), AmountPaid: decimal.NewFromFloat(10)},
		},
	})

	r := suite.request(1, http.MethodPatch, created.Data.Links.Self, `{ "amounts": [], "notes": "bye" }`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestTransactionDelete() {
	account := suite.createTestAccount(1, v1.AccountEditable{Name: "Checking"})

	created := suite.createTestTransaction(1, v1.TransactionEditable{
		Category: "Dining",
		Amounts: []v1.AmountEditable{
			{AccountID: &account.Data.ID, AmountToPay: decimal.NewFromFloat(10), AmountPaid: decimal.NewFromFloat(10)},
		},
	})

	r := suite.request(1, http.MethodDelete, created.Data.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.request(1, http.MethodGet, created.Data.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTransactionTags() {
	account := suite.createTestAccount(1, v1.AccountEditable{Name: "Checking"})

	created := suite.createTestTransaction(1, v1.TransactionEditable{
		Category: "Dining",
		Amounts: []v1.AmountEditable{
			{AccountID: &account.Data.ID, AmountToPay: decimal.NewFromFloat(10), AmountPaid: decimal.NewFromFloat(10)},
		},
	})

	r := suite.request(1, http.MethodPost, created.Data.Links.Tags, v1.TagEditable{Name: "food"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.TagResponse
	suite.decodeResponse(&r, &response)
	assert.Equal(suite.T(), "food", response.Data.Name)

	// Duplicates differing only in case are rejected
	r = suite.request(1, http.MethodPost, created.Data.Links.Tags, v1.TagEditable{Name: "FOOD"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = suite.request(1, http.MethodDelete, fmt.Sprintf("%s/%s", created.Data.Links.Tags, response.Data.ID), nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.request(1, http.MethodDelete, fmt.Sprintf("%s/%s", created.Data.Links.Tags, uuid.New()), nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTransactionVisibility() {
	account := suite.createTestAccount(1, v1.AccountEditable{Name: "Checking"})
	friendAccount := suite.createTestAccount(2, v1.AccountEditable{Name: "Friend Checking"})

	err := suite.db.Create(&models.Friendship{UserID: 1, FriendID: 2}).Error
	assert.Nil(suite.T(), err)

	created := suite.createTestTransaction(1, v1.TransactionEditable{
		Category: "Dining",
		Amounts: []v1.AmountEditable{
			{AccountID: &account.Data.ID, AmountToPay: decimal.NewFromFloat(10), AmountPaid: decimal.NewFromFloat(20)},
			{AccountID: &friendAccount.Data.ID, AmountToPay: decimal.NewFromFloat(10), AmountPaid: decimal.NewFromFloat(0)},
		},
	})

	// The referenced friend sees the transaction
	r := suite.request(2, http.MethodGet, created.Data.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	// A third user gets a 404, not a 403
	r = suite.request(3, http.MethodGet, created.Data.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
