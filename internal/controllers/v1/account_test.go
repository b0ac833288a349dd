package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/billfold/backend/internal/controllers/v1"
	"github.com/billfold/backend/internal/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) createTestAccount(userID uint64, editable v1.AccountEditable) v1.AccountResponse {
	r := suite.request(userID, http.MethodPost, "http://example.com/v1/accounts", editable)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var response v1.AccountResponse
	suite.decodeResponse(&r, &response)

	return response
}

func (suite *TestSuiteStandard) TestAccountsUnauthorized() {
	r := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/v1/accounts", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)

	r = test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/v1/accounts", nil, map[string]string{
		"Authorization": "Bearer not-a-token",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestAccountsEmptyList() {
	r := suite.request(1, http.MethodGet, "http://example.com/v1/accounts", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	assert.JSONEq(suite.T(), `{ "data": [], "error": null }`, r.Body.String())
}

func (suite *TestSuiteStandard) TestAccountCreate() {
	response := suite.createTestAccount(1, v1.AccountEditable{Name: "Checking"})

	assert.Equal(suite.T(), "Checking", response.Data.Name)
	assert.Equal(suite.T(), uint64(1), response.Data.UserID)
	assert.Contains(suite.T(), response.Data.Links.Self, fmt.Sprintf("http://example.com/v1/accounts/%s", response.Data.ID))
}

func (suite *TestSuiteStandard) TestAccountCreateInvalidBody() {
	r := suite.request(1, http.MethodPost, "http://example.com/v1/accounts", `{ invalid json`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = suite.request(1, http.MethodPost, "http://example.com/v1/accounts", v1.AccountEditable{})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestAccountGet() {
	created := suite.createTestAccount(1, v1.AccountEditable{Name: "Checking"})

	r := suite.request(1, http.MethodGet, created.Data.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AccountResponse
	suite.decodeResponse(&r, &response)
	assert.Equal(suite.T(), created.Data.ID, response.Data.ID)
}

func (suite *TestSuiteStandard) TestAccountGetInvalidID() {
	r := suite.request(1, http.MethodGet, "http://example.com/v1/accounts/not-a-uuid", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestAccountGetOtherUser() {
	created := suite.createTestAccount(1, v1.AccountEditable{Name: "Checking"})

	r := suite.request(2, http.MethodGet, created.Data.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAccountListGlob() {
	_ = suite.createTestAccount(1, v1.AccountEditable{Name: "Cash"})
	_ = suite.createTestAccount(1, v1.AccountEditable{Name: "Checking"})

	r := suite.request(1, http.MethodGet, "http://example.com/v1/accounts?name=Cash*", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AccountListResponse
	suite.decodeResponse(&r, &response)
	if assert.Len(suite.T(), response.Data, 1) {
		assert.Equal(suite.T(), "Cash", response.Data[0].Name)
	}
}

func (suite *TestSuiteStandard) TestAccountUpdate() {
	created := suite.createTestAccount(1, v1.AccountEditable{Name: "Checking"})

	r := suite.request(1, http.MethodPatch, created.Data.Links.Self, v1.AccountEditable{Name: "Wallet"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AccountResponse
	suite.decodeResponse(&r, &response)
	assert.Equal(suite.T(), "Wallet", response.Data.Name)
}

func (suite *TestSuiteStandard) TestAccountDelete() {
	created := suite.createTestAccount(1, v1.AccountEditable{Name: "Checking"})

	r := suite.request(1, http.MethodDelete, created.Data.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.request(1, http.MethodGet, created.Data.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAccountOptions() {
	r := suite.request(1, http.MethodOptions, "http://example.com/v1/accounts", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	assert.Equal(suite.T(), "GET, POST", r.Header().Get("allow"))

	created := suite.createTestAccount(1, v1.AccountEditable{Name: "Checking"})
	r = suite.request(1, http.MethodOptions, created.Data.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	assert.Equal(suite.T(), "GET, PATCH, DELETE", r.Header().Get("allow"))
}
