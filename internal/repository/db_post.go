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

// dbPostRepository implements PostRepository over a relational database.
// likeCount and commentsCount are derived by COUNT subqueries at read time,
// so they are correct by construction; the database provides atomicity.
type dbPostRepository struct {
	db *gorm.DB
}

// NewDBPostRepository creates a database-backed post repository.
func NewDBPostRepository(db *gorm.DB) PostRepository {
	return &dbPostRepository{db: db}
}

// withCounters adds subqueries deriving the counters in a single query.
func (r *dbPostRepository) withCounters(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Post{}).Select(
		"posts.*, " +
			"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count, " +
			"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS like_count",
	)
}

func (r *dbPostRepository) Create(ctx context.Context, post *models.Post) error {
	post.CreatedAt = time.Now().UTC()
	post.Views = 0
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *dbPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	err := r.withCounters(r.db.WithContext(ctx)).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s id %d", store.ErrNotFound, collPosts, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return &post, nil
}

func (r *dbPostRepository) List(ctx context.Context, page, limit int) (*models.PostPage, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	var posts []*models.Post
	err := r.withCounters(r.db.WithContext(ctx)).
		Order("posts.id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	return &models.PostPage{
		Posts:        posts,
		CurrentPage:  page,
		TotalPages:   int((total + int64(limit) - 1) / int64(limit)),
		TotalPosts:   int(total),
		PostsPerPage: limit,
	}, nil
}

func (r *dbPostRepository) Update(ctx context.Context, id int, fields UpdatePostFields) (*models.Post, string, error) {
	// The prior image is read inside the same transaction as the write, so
	// concurrent image-bearing updates each see the filename they replace.
	var previousImage string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			return err
		}
		previousImage = post.Image

		// Same falsy-skip merge policy as the file variant.
		updates := map[string]interface{}{}
		if fields.Title != "" {
			updates["title"] = fields.Title
		}
		if fields.Content != "" {
			updates["content"] = fields.Content
		}
		if fields.Nickname != "" {
			updates["nickname"] = fields.Nickname
		}
		if fields.Image != "" {
			updates["image"] = fields.Image
		}
		updates["updated_at"] = time.Now().UTC()

		return tx.Model(&models.Post{}).Where("id = ?", id).Updates(updates).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("%w: %s id %d", store.ErrNotFound, collPosts, id)
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	updated, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return updated, previousImage, nil
}

func (r *dbPostRepository) Delete(ctx context.Context, id int) (*models.Post, error) {
	post, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return post, nil
}

func (r *dbPostRepository) IncrementViews(ctx context.Context, id int) (int, error) {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("%w: %s id %d", store.ErrNotFound, collPosts, id)
	}

	var post models.Post
	if err := r.db.WithContext(ctx).Select("views").First(&post, id).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return post.Views, nil
}

func (r *dbPostRepository) ToggleLike(ctx context.Context, postID, userID int) (*models.LikeStatus, error) {
	status := &models.LikeStatus{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Like
		findErr := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error

		switch {
		case findErr == nil:
			if err := tx.Delete(&models.Like{}, existing.ID).Error; err != nil {
				return err
			}
			status.IsLiked = false
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			like := &models.Like{PostID: postID, UserID: userID, CreatedAt: time.Now().UTC()}
			if err := tx.Create(like).Error; err != nil {
				return err
			}
			status.IsLiked = true
		default:
			return findErr
		}

		var count int64
		if err := tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
			return err
		}
		status.LikeCount = int(count)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	var postCount int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).Count(&postCount).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if postCount == 0 {
		return status, fmt.Errorf("%w: post id %d", store.ErrDanglingReference, postID)
	}
	return status, nil
}

func (r *dbPostRepository) IsLiked(ctx context.Context, postID, userID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return count > 0, nil
}
