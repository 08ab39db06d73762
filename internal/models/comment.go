package models

import "time"

// Comment belongs to a post. Creating or deleting one re-derives the parent
// post's commentsCount within the same operation.
type Comment struct {
	ID           int        `gorm:"primaryKey" json:"id"`
	PostID       int        `gorm:"not null;index" json:"postId"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	Author       string     `gorm:"not null" json:"author"`
	CreatedAt    time.Time  `json:"time"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}

func (c *Comment) RecordID() int      { return c.ID }
func (c *Comment) SetRecordID(id int) { c.ID = id }
