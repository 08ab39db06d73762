package service

import (
	"context"
	"strings"

	"scrawl/internal/models"
	"scrawl/internal/repository"
)

const maxCommentLen = 5000

type CommentService struct {
	commentRepo repository.CommentRepository
}

type CreateCommentInput struct {
	PostID  int
	Content string
	Author  string
}

func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

// CreateComment persists a comment against a post. The repository keeps
// the parent's commentsCount in sync; a missing parent surfaces as a
// dangling-reference error with the comment already written.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.PostID <= 0 {
		return nil, models.NewValidationError("postId is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Content too long (max 5000 characters)")
	}
	if strings.TrimSpace(in.Author) == "" {
		return nil, models.NewValidationError("Author is required")
	}

	comment := &models.Comment{
		PostID:  in.PostID,
		Content: in.Content,
		Author:  in.Author,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) GetComment(ctx context.Context, id int) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

func (s *CommentService) ListComments(ctx context.Context, postID int) ([]*models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) UpdateComment(ctx context.Context, id int, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Content too long (max 5000 characters)")
	}
	return s.commentRepo.Update(ctx, id, content)
}

func (s *CommentService) DeleteComment(ctx context.Context, id int) error {
	return s.commentRepo.Delete(ctx, id)
}
