package service

import (
	"context"
	"errors"

	"scrawl/internal/models"
	"scrawl/internal/repository"
	"scrawl/internal/store"
	"scrawl/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo repository.UserRepository
	images   *ImageService
}

type SignupInput struct {
	Email    string
	Password string
	Nickname string
}

func NewUserService(userRepo repository.UserRepository, images *ImageService) *UserService {
	return &UserService{userRepo: userRepo, images: images}
}

// Signup registers a new account with a bcrypt-hashed password.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateNickname(in.Nickname); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    in.Email,
		Password: string(hash),
		Nickname: in.Nickname,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, models.NewDuplicateKeyError("A user with this email already exists")
		}
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns the account on success. A
// missing account and a wrong password are indistinguishable to the
// caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.NewUnauthorizedError("Invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}

func (s *UserService) UpdateNickname(ctx context.Context, email, nickname string) (*models.User, error) {
	if err := validation.ValidateNickname(nickname); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	return s.userRepo.UpdateNickname(ctx, email, nickname)
}

func (s *UserService) UpdatePassword(ctx context.Context, email, password string) error {
	if err := validation.ValidatePassword(password); err != nil {
		return models.NewValidationError(err.Error())
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	return s.userRepo.UpdatePassword(ctx, email, string(hash))
}

// UpdateProfileImage stores the new image, swaps the record, then
// retires the previous file. The default placeholder is never deleted.
func (s *UserService) UpdateProfileImage(ctx context.Context, email, imageData string) (*models.User, error) {
	if imageData == "" {
		return nil, models.NewValidationError("Image data is required")
	}

	filename, err := s.images.SaveBase64(imageData)
	if err != nil {
		return nil, err
	}

	previous, err := s.userRepo.UpdateProfileImage(ctx, email, filename)
	if err != nil {
		s.images.DeleteQuietly(filename)
		return nil, err
	}

	s.images.DeleteQuietly(previous)

	return s.userRepo.GetByEmail(ctx, email)
}

// Withdraw deletes the account and its profile image file.
func (s *UserService) Withdraw(ctx context.Context, email string) error {
	deleted, err := s.userRepo.Delete(ctx, email)
	if err != nil {
		return err
	}
	s.images.DeleteQuietly(deleted.ProfileImage)
	return nil
}
