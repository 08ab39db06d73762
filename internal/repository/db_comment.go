package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scrawl/internal/models"
	"scrawl/internal/store"

	"gorm.io/gorm"
)

// dbCommentRepository implements CommentRepository over a relational
// database. The parent post's commentsCount is never stored; it is derived
// at read time by the post repository's COUNT subquery, so create/delete
// need no counter write here.
type dbCommentRepository struct {
	db *gorm.DB
}

// NewDBCommentRepository creates a database-backed comment repository.
func NewDBCommentRepository(db *gorm.DB) CommentRepository {
	return &dbCommentRepository{db: db}
}

func (r *dbCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.CreatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	var postCount int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", comment.PostID).Count(&postCount).Error; err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if postCount == 0 {
		return fmt.Errorf("%w: post id %d", store.ErrDanglingReference, comment.PostID)
	}
	return nil
}

func (r *dbCommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s id %d", store.ErrNotFound, collComments, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return &comment, nil
}

func (r *dbCommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return comments, nil
}

func (r *dbCommentRepository) Update(ctx context.Context, id int, content string) (*models.Comment, error) {
	comment, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	comment.Content = content
	comment.LastModified = &now
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return comment, nil
}

func (r *dbCommentRepository) Delete(ctx context.Context, id int) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s id %d", store.ErrNotFound, collComments, id)
	}
	return nil
}
