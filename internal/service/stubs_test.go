package service

import (
	"context"
	"io"
	"log/slog"

	"scrawl/internal/models"
	"scrawl/internal/repository"
)

// Repo stubs with overridable function fields, so each test hand-writes
// only the calls it cares about.

type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, int) (*models.Post, error)
	listFn           func(context.Context, int, int) (*models.PostPage, error)
	updateFn         func(context.Context, int, repository.UpdatePostFields) (*models.Post, string, error)
	deleteFn         func(context.Context, int) (*models.Post, error)
	incrementViewsFn func(context.Context, int) (int, error)
	toggleLikeFn     func(context.Context, int, int) (*models.LikeStatus, error)
	isLikedFn        func(context.Context, int, int) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id int) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, page, limit int) (*models.PostPage, error) {
	return s.listFn(ctx, page, limit)
}
func (s *postRepoStub) Update(ctx context.Context, id int, fields repository.UpdatePostFields) (*models.Post, string, error) {
	return s.updateFn(ctx, id, fields)
}
func (s *postRepoStub) Delete(ctx context.Context, id int) (*models.Post, error) {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IncrementViews(ctx context.Context, id int) (int, error) {
	return s.incrementViewsFn(ctx, id)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, postID, userID int) (*models.LikeStatus, error) {
	return s.toggleLikeFn(ctx, postID, userID)
}
func (s *postRepoStub) IsLiked(ctx context.Context, postID, userID int) (bool, error) {
	return s.isLikedFn(ctx, postID, userID)
}

type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, int) (*models.Comment, error)
	listByPostFn func(context.Context, int) ([]*models.Comment, error)
	updateFn     func(context.Context, int, string) (*models.Comment, error)
	deleteFn     func(context.Context, int) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Update(ctx context.Context, id int, content string) (*models.Comment, error) {
	return s.updateFn(ctx, id, content)
}
func (s *commentRepoStub) Delete(ctx context.Context, id int) error {
	return s.deleteFn(ctx, id)
}

type userRepoStub struct {
	createFn             func(context.Context, *models.User) error
	getByEmailFn         func(context.Context, string) (*models.User, error)
	updateNicknameFn     func(context.Context, string, string) (*models.User, error)
	updatePasswordFn     func(context.Context, string, string) error
	updateProfileImageFn func(context.Context, string, string) (string, error)
	deleteFn             func(context.Context, string) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) UpdateNickname(ctx context.Context, email, nickname string) (*models.User, error) {
	return s.updateNicknameFn(ctx, email, nickname)
}
func (s *userRepoStub) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	return s.updatePasswordFn(ctx, email, passwordHash)
}
func (s *userRepoStub) UpdateProfileImage(ctx context.Context, email, filename string) (string, error) {
	return s.updateProfileImageFn(ctx, email, filename)
}
func (s *userRepoStub) Delete(ctx context.Context, email string) (*models.User, error) {
	return s.deleteFn(ctx, email)
}

func testImageService(dir string) *ImageService {
	return NewImageService(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
}
