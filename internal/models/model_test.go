package models_test

import (
	"time"

	"github.com/billfold/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestModelTimeUTC() {
	tz, _ := time.LoadLocation("Europe/Berlin")

	model := models.DefaultModel{
		Timestamps: models.Timestamps{
			CreatedAt: time.Date(2000, 1, 2, 3, 4, 5, 6, tz),
			UpdatedAt: time.Date(2001, 2, 3, 4, 5, 6, 7, tz),
		},
	}

	err := model.AfterFind(suite.db)
	if err != nil {
		assert.Fail(suite.T(), "model.AfterFind failed")
	}

	assert.Equal(suite.T(), time.UTC, model.CreatedAt.Location(), "Timezone for model is not UTC")
	assert.Equal(suite.T(), time.UTC, model.UpdatedAt.Location(), "Timezone for model is not UTC")
}

func (suite *TestSuiteStandard) TestModelUUIDGenerated() {
	account := models.Account{UserID: 1, Name: "Checking"}

	err := suite.db.Create(&account).Error
	assert.Nil(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, account.ID)
}

func (suite *TestSuiteStandard) TestModelUUIDKept() {
	id := uuid.New()
	account := models.Account{DefaultModel: models.DefaultModel{ID: id}, UserID: 1, Name: "Checking"}

	err := suite.db.Create(&account).Error
	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), id, account.ID, "a pre-set ID must not be overwritten")
}
