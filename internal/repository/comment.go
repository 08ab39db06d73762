package repository

import (
	"context"

	"scrawl/internal/models"
)

// CommentRepository defines the interface for comment data operations.
// Create and Delete re-derive the parent post's commentsCount within the
// same operation; the counter is recomputed from the comment collection,
// never incremented in place, and never goes below zero.
type CommentRepository interface {
	// Create persists the comment and syncs the parent post's counter.
	// When the referenced post does not exist the comment is still written
	// and the returned error wraps store.ErrDanglingReference.
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int) ([]*models.Comment, error)
	Update(ctx context.Context, id int, content string) (*models.Comment, error)
	Delete(ctx context.Context, id int) error
}
