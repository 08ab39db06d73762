// Package service implements the business rules between handlers and
// repositories: input validation, pagination defaults, image lifecycle,
// and password hashing.
package service

import (
	"context"
	"strings"

	"scrawl/internal/models"
	"scrawl/internal/repository"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10

	maxTitleLen   = 300
	maxContentLen = 50000
)

type PostService struct {
	postRepo repository.PostRepository
	images   *ImageService
}

type CreatePostInput struct {
	Title    string
	Content  string
	Nickname string
	// ImageData is an optional base64 data URL; when present the decoded
	// image is stored and its filename recorded on the post.
	ImageData string
}

type UpdatePostInput struct {
	PostID    int
	Title     string
	Content   string
	Nickname  string
	ImageData string
}

func NewPostService(postRepo repository.PostRepository, images *ImageService) *PostService {
	return &PostService{postRepo: postRepo, images: images}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}
	if strings.TrimSpace(in.Nickname) == "" {
		return nil, models.NewValidationError("Nickname is required")
	}

	var filename string
	if in.ImageData != "" {
		var err error
		filename, err = s.images.SaveBase64(in.ImageData)
		if err != nil {
			return nil, err
		}
	}

	post := &models.Post{
		Title:          in.Title,
		Content:        in.Content,
		AuthorNickname: in.Nickname,
		Image:          filename,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		// The record never landed, so the file it references is an orphan.
		if filename != "" {
			s.images.DeleteQuietly(filename)
		}
		return nil, err
	}
	return post, nil
}

// ListPosts returns one page of posts, newest first. Page and limit fall
// back to their defaults when missing or out of range.
func (s *PostService) ListPosts(ctx context.Context, page, limit int) (*models.PostPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return s.postRepo.List(ctx, page, limit)
}

func (s *PostService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// UpdatePost applies a partial update. Empty fields are skipped rather
// than cleared; a replacement image retires the previous file only after
// the record write succeeds.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	var filename string
	if in.ImageData != "" {
		var err error
		filename, err = s.images.SaveBase64(in.ImageData)
		if err != nil {
			return nil, err
		}
	}

	// The repository reports the image the record referenced before the
	// write, captured under its lock, so the replaced file is retired
	// exactly once even under concurrent updates.
	updated, previousImage, err := s.postRepo.Update(ctx, in.PostID, repository.UpdatePostFields{
		Title:    in.Title,
		Content:  in.Content,
		Nickname: in.Nickname,
		Image:    filename,
	})
	if err != nil {
		if filename != "" {
			s.images.DeleteQuietly(filename)
		}
		return nil, err
	}

	if filename != "" && previousImage != "" && previousImage != filename {
		s.images.DeleteQuietly(previousImage)
	}
	return updated, nil
}

// DeletePost removes the record and then its image file. A failed file
// removal is logged, never surfaced: the record is already gone.
func (s *PostService) DeletePost(ctx context.Context, id int) error {
	deleted, err := s.postRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted.Image != "" {
		s.images.DeleteQuietly(deleted.Image)
	}
	return nil
}

func (s *PostService) IncrementViews(ctx context.Context, id int) (int, error) {
	return s.postRepo.IncrementViews(ctx, id)
}

func (s *PostService) ToggleLike(ctx context.Context, postID, userID int) (*models.LikeStatus, error) {
	return s.postRepo.ToggleLike(ctx, postID, userID)
}

func (s *PostService) IsLiked(ctx context.Context, postID, userID int) (bool, error) {
	return s.postRepo.IsLiked(ctx, postID, userID)
}
