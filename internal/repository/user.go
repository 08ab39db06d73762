package repository

import (
	"context"

	"scrawl/internal/models"
)

// UserRepository defines the interface for user data operations. Users are
// looked up by their unique email; the numeric record id is a storage
// concern only.
type UserRepository interface {
	// Create persists a new user. A user with the same email already
	// present fails with store.ErrDuplicate.
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateNickname(ctx context.Context, email, nickname string) (*models.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	// UpdateProfileImage swaps the stored filename and returns the previous
	// one so the caller can delete the file after nothing references it.
	UpdateProfileImage(ctx context.Context, email, filename string) (string, error)
	// Delete removes the user and returns the deleted record for cleanup.
	Delete(ctx context.Context, email string) (*models.User, error)
}
