package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scrawl/internal/models"
	"scrawl/internal/observability"
	"scrawl/internal/store"
)

// Collection names for the file-backed variant. Cross-collection operations
// acquire locks through store.Acquire, which orders names lexicographically.
const (
	collPosts    = "posts"
	collComments = "comments"
	collLikes    = "likes"
	collUsers    = "users"
)

// filePostRepository implements PostRepository over the JSON document store.
type filePostRepository struct {
	store *store.Store
	posts *store.Collection[*models.Post]
	likes *store.Collection[*models.Like]
	log   *observability.StoreLogger
}

// NewFilePostRepository creates a file-backed post repository.
func NewFilePostRepository(s *store.Store) PostRepository {
	return &filePostRepository{
		store: s,
		posts: store.NewCollection[*models.Post](s, collPosts),
		likes: store.NewCollection[*models.Like](s, collLikes),
		log:   observability.NewStoreLogger(collPosts),
	}
}

func (r *filePostRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackStoreOperation(collPosts, "create")()
	post.CreatedAt = time.Now().UTC()
	post.Views = 0
	post.LikeCount = 0
	post.CommentsCount = 0
	if err := r.posts.Insert(ctx, post); err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogWrite(ctx, "create", map[string]interface{}{"id": post.ID})
	return nil
}

func (r *filePostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	return r.posts.Get(ctx, id)
}

func (r *filePostRepository) List(ctx context.Context, page, limit int) (*models.PostPage, error) {
	recs, err := r.posts.All(ctx)
	if err != nil {
		return nil, err
	}

	total := len(recs)
	totalPages := (total + limit - 1) / limit

	// Newest first: the collection is append-ordered, so walk it backwards.
	start := (page - 1) * limit
	items := make([]*models.Post, 0, limit)
	for i := total - 1 - start; i >= 0 && len(items) < limit; i-- {
		items = append(items, recs[i])
	}

	return &models.PostPage{
		Posts:        items,
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalPosts:   total,
		PostsPerPage: limit,
	}, nil
}

func (r *filePostRepository) Update(ctx context.Context, id int, fields UpdatePostFields) (*models.Post, string, error) {
	defer observability.TrackStoreOperation(collPosts, "update")()
	var previousImage string
	updated, err := r.posts.Update(ctx, id, func(p *models.Post) {
		// Captured under the collection lock, so no two updates can both
		// observe the same previous filename.
		previousImage = p.Image
		// Falsy-skip merge: empty values keep the previous field.
		if fields.Title != "" {
			p.Title = fields.Title
		}
		if fields.Content != "" {
			p.Content = fields.Content
		}
		if fields.Nickname != "" {
			p.AuthorNickname = fields.Nickname
		}
		if fields.Image != "" {
			p.Image = fields.Image
		}
		now := time.Now().UTC()
		p.UpdatedAt = &now
	})
	if err != nil {
		return nil, "", err
	}
	r.log.LogWrite(ctx, "update", map[string]interface{}{"id": id})
	return updated, previousImage, nil
}

func (r *filePostRepository) Delete(ctx context.Context, id int) (*models.Post, error) {
	defer observability.TrackStoreOperation(collPosts, "delete")()

	release, err := r.store.Acquire(ctx, collPosts)
	if err != nil {
		if errors.Is(err, store.ErrBusy) {
			observability.StoreBusyTotal.WithLabelValues(collPosts).Inc()
		}
		return nil, err
	}
	defer release()

	recs, err := r.posts.AllLocked()
	if err != nil {
		return nil, err
	}
	for i, p := range recs {
		if p.ID != id {
			continue
		}
		if err := r.posts.ReplaceLocked(append(recs[:i], recs[i+1:]...)); err != nil {
			r.log.LogError(ctx, err, "delete")
			return nil, err
		}
		r.log.LogWrite(ctx, "delete", map[string]interface{}{"id": id})
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s id %d", store.ErrNotFound, collPosts, id)
}

func (r *filePostRepository) IncrementViews(ctx context.Context, id int) (int, error) {
	defer observability.TrackStoreOperation(collPosts, "increment_views")()
	updated, err := r.posts.Update(ctx, id, func(p *models.Post) {
		p.Views++
	})
	if err != nil {
		return 0, err
	}
	return updated.Views, nil
}

func (r *filePostRepository) ToggleLike(ctx context.Context, postID, userID int) (_ *models.LikeStatus, err error) {
	defer observability.TrackStoreOperation(collLikes, "toggle_like")()
	ctx, span := observability.StartSpan(ctx, collLikes, "toggle_like")
	defer func() {
		observability.RecordSpanError(ctx, err)
		span.End()
	}()

	release, err := r.store.Acquire(ctx, collLikes, collPosts)
	if err != nil {
		if errors.Is(err, store.ErrBusy) {
			observability.StoreBusyTotal.WithLabelValues(collLikes).Inc()
		}
		return nil, err
	}
	defer release()

	likes, err := r.likes.AllLocked()
	if err != nil {
		return nil, err
	}

	isLiked := true
	for i, l := range likes {
		if l.PostID == postID && l.UserID == userID {
			likes = append(likes[:i], likes[i+1:]...)
			isLiked = false
			break
		}
	}
	if isLiked {
		likes = append(likes, &models.Like{
			ID:        store.NextID(likes),
			PostID:    postID,
			UserID:    userID,
			CreatedAt: time.Now().UTC(),
		})
	}
	if err := r.likes.ReplaceLocked(likes); err != nil {
		r.log.LogError(ctx, err, "toggle_like")
		return nil, err
	}

	// Re-derive from a full count rather than incrementing, so any prior
	// drift on the post record heals here.
	likeCount := 0
	for _, l := range likes {
		if l.PostID == postID {
			likeCount++
		}
	}
	status := &models.LikeStatus{IsLiked: isLiked, LikeCount: likeCount}

	posts, err := r.posts.AllLocked()
	if err != nil {
		r.log.LogInconsistency(ctx, "toggle_like",
			fmt.Sprintf("like write landed but post %d likeCount was not re-derived: %v", postID, err))
		return nil, err
	}
	for _, p := range posts {
		if p.ID != postID {
			continue
		}
		p.LikeCount = likeCount
		if err := r.posts.ReplaceLocked(posts); err != nil {
			r.log.LogInconsistency(ctx, "toggle_like",
				fmt.Sprintf("like write landed but post %d likeCount was not re-derived: %v", postID, err))
			return nil, err
		}
		return status, nil
	}

	// The like itself is recorded; the parent post is gone.
	r.log.LogError(ctx, store.ErrDanglingReference, "toggle_like")
	return status, fmt.Errorf("%w: post id %d", store.ErrDanglingReference, postID)
}

func (r *filePostRepository) IsLiked(ctx context.Context, postID, userID int) (bool, error) {
	likes, err := r.likes.All(ctx)
	if err != nil {
		return false, err
	}
	for _, l := range likes {
		if l.PostID == postID && l.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}
