package repository

import (
	"scrawl/internal/store"

	"gorm.io/gorm"
)

// Repositories bundles one implementation of the full document-store
// contract. The file and database variants are interchangeable.
type Repositories struct {
	Posts    PostRepository
	Comments CommentRepository
	Users    UserRepository
}

// NewFileRepositories wires the file-backed variant over the given store.
func NewFileRepositories(s *store.Store) *Repositories {
	return &Repositories{
		Posts:    NewFilePostRepository(s),
		Comments: NewFileCommentRepository(s),
		Users:    NewFileUserRepository(s),
	}
}

// NewDBRepositories wires the relational variant over the given connection.
func NewDBRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Posts:    NewDBPostRepository(db),
		Comments: NewDBCommentRepository(db),
		Users:    NewDBUserRepository(db),
	}
}
