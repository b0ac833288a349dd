package models_test

import (
	"github.com/billfold/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestIsFriend() {
	err := suite.db.Create(&models.Friendship{UserID: 1, FriendID: 2}).Error
	assert.Nil(suite.T(), err)

	// The edge is symmetric
	for _, pair := range [][2]uint64{{1, 2}, {2, 1}} {
		friends, err := models.IsFriend(suite.db, pair[0], pair[1])
		assert.Nil(suite.T(), err)
		assert.True(suite.T(), friends, "users %d and %d should be friends", pair[0], pair[1])
	}

	friends, err := models.IsFriend(suite.db, 1, 3)
	assert.Nil(suite.T(), err)
	assert.False(suite.T(), friends)
}
