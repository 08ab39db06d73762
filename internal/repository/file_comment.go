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

// fileCommentRepository implements CommentRepository over the JSON document
// store. Writes that touch a parent post hold both collection locks for the
// full read-modify-write span.
type fileCommentRepository struct {
	store    *store.Store
	comments *store.Collection[*models.Comment]
	posts    *store.Collection[*models.Post]
	log      *observability.StoreLogger
}

// NewFileCommentRepository creates a file-backed comment repository.
func NewFileCommentRepository(s *store.Store) CommentRepository {
	return &fileCommentRepository{
		store:    s,
		comments: store.NewCollection[*models.Comment](s, collComments),
		posts:    store.NewCollection[*models.Post](s, collPosts),
		log:      observability.NewStoreLogger(collComments),
	}
}

func (r *fileCommentRepository) Create(ctx context.Context, comment *models.Comment) (err error) {
	defer observability.TrackStoreOperation(collComments, "create")()
	ctx, span := observability.StartSpan(ctx, collComments, "create")
	defer func() {
		observability.RecordSpanError(ctx, err)
		span.End()
	}()

	release, err := r.store.Acquire(ctx, collComments, collPosts)
	if err != nil {
		if errors.Is(err, store.ErrBusy) {
			observability.StoreBusyTotal.WithLabelValues(collComments).Inc()
		}
		return err
	}
	defer release()

	comments, err := r.comments.AllLocked()
	if err != nil {
		return err
	}
	comment.ID = store.NextID(comments)
	comment.CreatedAt = time.Now().UTC()
	comments = append(comments, comment)
	if err := r.comments.ReplaceLocked(comments); err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogWrite(ctx, "create", map[string]interface{}{"id": comment.ID, "postId": comment.PostID})

	if err := r.syncParentCountLocked(ctx, comment.PostID, comments); err != nil {
		return err
	}
	return nil
}

func (r *fileCommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	return r.comments.Get(ctx, id)
}

func (r *fileCommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	recs, err := r.comments.All(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]*models.Comment, 0, len(recs))
	for _, c := range recs {
		if c.PostID == postID {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

func (r *fileCommentRepository) Update(ctx context.Context, id int, content string) (*models.Comment, error) {
	updated, err := r.comments.Update(ctx, id, func(c *models.Comment) {
		c.Content = content
		now := time.Now().UTC()
		c.LastModified = &now
	})
	if err != nil {
		return nil, err
	}
	r.log.LogWrite(ctx, "update", map[string]interface{}{"id": id})
	return updated, nil
}

func (r *fileCommentRepository) Delete(ctx context.Context, id int) (err error) {
	defer observability.TrackStoreOperation(collComments, "delete")()
	ctx, span := observability.StartSpan(ctx, collComments, "delete")
	defer func() {
		observability.RecordSpanError(ctx, err)
		span.End()
	}()

	release, err := r.store.Acquire(ctx, collComments, collPosts)
	if err != nil {
		if errors.Is(err, store.ErrBusy) {
			observability.StoreBusyTotal.WithLabelValues(collComments).Inc()
		}
		return err
	}
	defer release()

	comments, err := r.comments.AllLocked()
	if err != nil {
		return err
	}

	idx := -1
	for i, c := range comments {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s id %d", store.ErrNotFound, collComments, id)
	}
	postID := comments[idx].PostID
	comments = append(comments[:idx], comments[idx+1:]...)
	if err := r.comments.ReplaceLocked(comments); err != nil {
		r.log.LogError(ctx, err, "delete")
		return err
	}
	r.log.LogWrite(ctx, "delete", map[string]interface{}{"id": id, "postId": postID})

	return r.syncParentCountLocked(ctx, postID, comments)
}

// syncParentCountLocked re-derives the parent post's commentsCount from the
// given comment set. The count is a full recount, never an in-place
// increment, so prior drift self-heals; it can never go below zero.
// A missing parent reports ErrDanglingReference; the comment write that
// triggered the sync has already landed.
func (r *fileCommentRepository) syncParentCountLocked(ctx context.Context, postID int, comments []*models.Comment) error {
	count := 0
	for _, c := range comments {
		if c.PostID == postID {
			count++
		}
	}

	posts, err := r.posts.AllLocked()
	if err != nil {
		r.log.LogInconsistency(ctx, "sync_counter",
			fmt.Sprintf("comment write landed but post %d commentsCount was not re-derived: %v", postID, err))
		return err
	}
	for _, p := range posts {
		if p.ID != postID {
			continue
		}
		p.CommentsCount = count
		if err := r.posts.ReplaceLocked(posts); err != nil {
			r.log.LogInconsistency(ctx, "sync_counter",
				fmt.Sprintf("comment write landed but post %d commentsCount was not re-derived: %v", postID, err))
			return err
		}
		return nil
	}

	r.log.LogError(ctx, store.ErrDanglingReference, "sync_counter")
	return fmt.Errorf("%w: post id %d", store.ErrDanglingReference, postID)
}
