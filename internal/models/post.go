// Package models contains data structures for the application's domain records.
package models

import "time"

// Post represents a blog post. In the file-backed variant the counters are
// persisted alongside the record and re-derived from the comment and like
// collections on every write that touches them; in the relational variant
// LikeCount and CommentsCount are computed at query time.
type Post struct {
	ID             int        `gorm:"primaryKey" json:"id"`
	Title          string     `gorm:"not null" json:"title"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	AuthorNickname string     `gorm:"column:nickname;not null;index" json:"nickname"`
	Image          string     `json:"image,omitempty"`
	Views          int        `json:"views"`
	LikeCount      int        `gorm:"->" json:"likeCount"`
	CommentsCount  int        `gorm:"->" json:"commentsCount"`
	CreatedAt      time.Time  `json:"time"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

func (p *Post) RecordID() int      { return p.ID }
func (p *Post) SetRecordID(id int) { p.ID = id }

// PostPage is the pagination envelope for post listings, newest first.
type PostPage struct {
	Posts        []*Post `json:"posts"`
	CurrentPage  int     `json:"currentPage"`
	TotalPages   int     `json:"totalPages"`
	TotalPosts   int     `json:"totalPosts"`
	PostsPerPage int     `json:"postsPerPage"`
}

// LikeStatus is the result of a like toggle or status query.
type LikeStatus struct {
	IsLiked   bool `json:"isLiked"`
	LikeCount int  `json:"likeCount"`
}
