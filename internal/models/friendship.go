package models

import (
	"gorm.io/gorm"
)

// Friendship is a symmetric edge between two users.
//
// Friend management itself lives outside this service; the edge table is its
// persisted face and only consulted to authorize cross-account references.
type Friendship struct {
	DefaultModel
	UserID   uint64 `json:"userId" gorm:"uniqueIndex:friendship_user_friend"`
	FriendID uint64 `json:"friendId" gorm:"uniqueIndex:friendship_user_friend"`
}

// IsFriend reports whether a friendship edge exists between the two users,
// in either direction.
func IsFriend(db *gorm.DB, userID, otherID uint64) (bool, error) {
	var count int64
	err := db.Model(&Friendship{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", userID, otherID, otherID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
