package models

import "time"

// Like marks that a user liked a post. At most one exists per
// (postId, userId) pair; toggling inserts when absent and removes when
// present. The parent post's likeCount is always recomputed from a full
// count of matching likes, never incremented in place.
type Like struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	PostID    int       `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"postId"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (l *Like) RecordID() int      { return l.ID }
func (l *Like) SetRecordID(id int) { l.ID = id }
