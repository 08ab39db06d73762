// Package repository implements the document-store contract for each record
// type. Two implementations satisfy every interface: a file-backed variant
// built on internal/store, and a relational variant built on GORM. Callers
// must not be able to tell them apart.
package repository

import (
	"context"

	"scrawl/internal/models"
)

// UpdatePostFields carries a partial post update. Empty values do NOT
// overwrite the stored field: this falsy-skip merge is a deliberate,
// documented policy (a field can never be cleared to empty string).
type UpdatePostFields struct {
	Title    string
	Content  string
	Nickname string
	Image    string
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int) (*models.Post, error)
	// List returns posts newest-first with the pagination envelope.
	List(ctx context.Context, page, limit int) (*models.PostPage, error)
	// Update applies the falsy-skip merge and returns the image filename the
	// post referenced before the update, captured in the same locked span as
	// the write so a concurrent update cannot observe the same previous file.
	Update(ctx context.Context, id int, fields UpdatePostFields) (*models.Post, string, error)
	// Delete removes the post and returns the deleted record so callers can
	// clean up its associated image file.
	Delete(ctx context.Context, id int) (*models.Post, error)
	// IncrementViews atomically bumps the view counter and returns the new value.
	IncrementViews(ctx context.Context, id int) (int, error)
	// ToggleLike inserts a like when absent, removes it when present, and
	// re-derives the post's likeCount from a full count of matching likes.
	// When the post no longer exists the like write still lands and the
	// returned error wraps store.ErrDanglingReference.
	ToggleLike(ctx context.Context, postID, userID int) (*models.LikeStatus, error)
	IsLiked(ctx context.Context, postID, userID int) (bool, error)
}
