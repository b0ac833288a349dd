package ledger_test

import (
	"context"

	"github.com/billfold/backend/internal/ledger"
	"github.com/billfold/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestAccountCreate() {
	account, err := suite.service.CreateAccount(context.Background(), userJane, ledger.AccountCreate{
		Name:           "  Checking ",
		InitialBalance: decimal.NewFromFloat(100),
	})
	assert.Nil(suite.T(), err)

	assert.Equal(suite.T(), "Checking", account.Name, "account name is not trimmed")
	assert.Equal(suite.T(), userJane, account.UserID)
	assert.True(suite.T(), account.Balance.Equal(decimal.NewFromFloat(100)))
	assert.NotEqual(suite.T(), uuid.Nil, account.ID)
}

func (suite *TestSuiteStandard) TestAccountCreateNoName() {
	_, err := suite.service.CreateAccount(context.Background(), userJane, ledger.AccountCreate{})
	assert.ErrorIs(suite.T(), err, ledger.ErrInvalid)
}

func (suite *TestSuiteStandard) TestAccountCreateDuplicateName() {
	_ = suite.createTestAccount(userJane, "Checking")

	_, err := suite.service.CreateAccount(context.Background(), userJane, ledger.AccountCreate{Name: "Checking"})
	assert.ErrorIs(suite.T(), err, models.ErrAccountNameNotUnique)

	// The same name is fine for another user
	_, err = suite.service.CreateAccount(context.Background(), userTom, ledger.AccountCreate{Name: "Checking"})
	assert.Nil(suite.T(), err)
}

func (suite *TestSuiteStandard) TestAccountGet() {
	account := suite.createTestAccount(userJane, "Cash", 12.34)

	read, err := suite.service.GetAccount(context.Background(), userJane, account.ID)
	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), account.ID, read.ID)
	assert.True(suite.T(), read.Balance.Equal(decimal.NewFromFloat(12.34)))
}

func (suite *TestSuiteStandard) TestAccountGetOtherUser() {
	account := suite.createTestAccount(userJane, "Cash")

	// Other users cannot see the account, not even friends
	suite.createTestFriendship(userJane, userTom)
	_, err := suite.service.GetAccount(context.Background(), userTom, account.ID)
	assert.ErrorIs(suite.T(), err, ledger.ErrNotFound)
}

func (suite *TestSuiteStandard) TestAccountGetNonexistent() {
	_, err := suite.service.GetAccount(context.Background(), userJane, uuid.New())
	assert.ErrorIs(suite.T(), err, ledger.ErrAccountNotFound)
}

func (suite *TestSuiteStandard) TestAccountList() {
	_ = suite.createTestAccount(userJane, "Cash")
	_ = suite.createTestAccount(userJane, "Checking")
	_ = suite.createTestAccount(userTom, "Savings")

	accounts, err := suite.service.ListAccounts(context.Background(), userJane, "")
	assert.Nil(suite.T(), err)
	if assert.Len(suite.T(), accounts, 2) {
		assert.Equal(suite.T(), "Cash", accounts[0].Name, "accounts are not ordered by name")
		assert.Equal(suite.T(), "Checking", accounts[1].Name)
	}
}

func (suite *TestSuiteStandard) TestAccountListGlob() {
	_ = suite.createTestAccount(userJane, "Cash")
	_ = suite.createTestAccount(userJane, "Cash Register")
	_ = suite.createTestAccount(userJane, "Checking")

	tests := []struct {
		pattern string
		matches int
	}{
		{"Cash*", 2},
		{"*ing", 1},
		{"*as*", 2},
		{"Savings", 0},
		{"Checking", 1},
	}

	for _, tt := range tests {
		accounts, err := suite.service.ListAccounts(context.Background(), userJane, tt.pattern)
		assert.Nil(suite.T(), err)
		assert.Len(suite.T(), accounts, tt.matches, "pattern %q", tt.pattern)
	}
}

func (suite *TestSuiteStandard) TestAccountUpdate() {
	account := suite.createTestAccount(userJane, "Cash")

	updated, err := suite.service.UpdateAccount(context.Background(), userJane, account.ID, "Wallet")
	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), "Wallet", updated.Name)

	_, err = suite.service.UpdateAccount(context.Background(), userJane, account.ID, "")
	assert.ErrorIs(suite.T(), err, ledger.ErrNameRequired)
}

func (suite *TestSuiteStandard) TestAccountUpdateOtherUser() {
	account := suite.createTestAccount(userJane, "Cash")

	_, err := suite.service.UpdateAccount(context.Background(), userTom, account.ID, "Mine now")
	assert.ErrorIs(suite.T(), err, ledger.ErrNotFound)
}

func (suite *TestSuiteStandard) TestAccountDelete() {
	account := suite.createTestAccount(userJane, "Cash")

	err := suite.service.DeleteAccount(context.Background(), userJane, account.ID)
	assert.Nil(suite.T(), err)

	_, err = suite.service.GetAccount(context.Background(), userJane, account.ID)
	assert.ErrorIs(suite.T(), err, ledger.ErrNotFound)
}

func (suite *TestSuiteStandard) TestAccountDeleteConvertsAmounts() {
	account := suite.createTestAccount(userJane, "Cash")
	other := suite.createTestAccount(userJane, "Checking")

	transaction := suite.createTestTransaction(userJane, ledger.TransactionCreate{
		Category: "Groceries",
		Amounts: []ledger.AmountCreate{
			{AccountID: &account.ID, AmountToPay: decimal.NewFromFloat(10), AmountPaid: decimal.NewFromFloat(10)},
			{AccountID: &other.ID, AmountToPay: decimal.NewFromFloat(5), AmountPaid: decimal.NewFromFloat(5)},
		},
	})

	err := suite.service.DeleteAccount(context.Background(), userJane, account.ID)
	assert.Nil(suite.T(), err)

	// The amount row survives with the account's last name as an external
	// payee, so the history stays readable
	read, err := suite.service.GetTransaction(context.Background(), userJane, transaction.ID)
	assert.Nil(suite.T(), err)
	if assert.Len(suite.T(), read.Amounts, 2) {
		var orphaned *models.Amount
		for i := range read.Amounts {
			if read.Amounts[i].AccountID == nil {
				orphaned = &read.Amounts[i]
			}
		}

		if assert.NotNil(suite.T(), orphaned, "no amount row was converted") {
			assert.Equal(suite.T(), "Cash", orphaned.AccountName)
			assert.Equal(suite.T(), models.ExternalTarget{Name: "Cash"}, orphaned.Target())
		}
	}
}
