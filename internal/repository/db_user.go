package repository

import (
	"context"
	"errors"
	"fmt"

	"scrawl/internal/models"
	"scrawl/internal/store"

	"gorm.io/gorm"
)

// dbUserRepository implements UserRepository over a relational database.
type dbUserRepository struct {
	db *gorm.DB
}

// NewDBUserRepository creates a database-backed user repository.
func NewDBUserRepository(db *gorm.DB) UserRepository {
	return &dbUserRepository{db: db}
}

func (r *dbUserRepository) Create(ctx context.Context, user *models.User) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: email %s", store.ErrDuplicate, user.Email)
	}

	if user.ProfileImage == "" {
		user.ProfileImage = models.DefaultProfileImage
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (r *dbUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %s", store.ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return &user, nil
}

func (r *dbUserRepository) UpdateNickname(ctx context.Context, email, nickname string) (*models.User, error) {
	if err := r.updateByEmail(ctx, email, map[string]interface{}{"nickname": nickname}); err != nil {
		return nil, err
	}
	return r.GetByEmail(ctx, email)
}

func (r *dbUserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	return r.updateByEmail(ctx, email, map[string]interface{}{"password": passwordHash})
}

func (r *dbUserRepository) UpdateProfileImage(ctx context.Context, email, filename string) (string, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if err := r.updateByEmail(ctx, email, map[string]interface{}{"profile_image": filename}); err != nil {
		return "", err
	}
	return user.ProfileImage, nil
}

func (r *dbUserRepository) Delete(ctx context.Context, email string) (*models.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&models.User{}, user.ID).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return user, nil
}

func (r *dbUserRepository) updateByEmail(ctx context.Context, email string, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user %s", store.ErrNotFound, email)
	}
	return nil
}
