package repository

import (
	"context"
	"fmt"

	"scrawl/internal/models"
	"scrawl/internal/observability"
	"scrawl/internal/store"
)

// fileUserRepository implements UserRepository over the JSON document store.
type fileUserRepository struct {
	store *store.Store
	users *store.Collection[*models.User]
	log   *observability.StoreLogger
}

// NewFileUserRepository creates a file-backed user repository.
func NewFileUserRepository(s *store.Store) UserRepository {
	return &fileUserRepository{
		store: s,
		users: store.NewCollection[*models.User](s, collUsers),
		log:   observability.NewStoreLogger(collUsers),
	}
}

func (r *fileUserRepository) Create(ctx context.Context, user *models.User) error {
	release, err := r.store.Acquire(ctx, collUsers)
	if err != nil {
		return err
	}
	defer release()

	users, err := r.users.AllLocked()
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: email %s", store.ErrDuplicate, user.Email)
		}
	}

	user.ID = store.NextID(users)
	if user.ProfileImage == "" {
		user.ProfileImage = models.DefaultProfileImage
	}
	if err := r.users.ReplaceLocked(append(users, user)); err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogWrite(ctx, "create", map[string]interface{}{"id": user.ID})
	return nil
}

func (r *fileUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.users.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", store.ErrNotFound, email)
}

func (r *fileUserRepository) UpdateNickname(ctx context.Context, email, nickname string) (*models.User, error) {
	return r.mutateByEmail(ctx, email, "update_nickname", func(u *models.User) {
		u.Nickname = nickname
	})
}

func (r *fileUserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	_, err := r.mutateByEmail(ctx, email, "update_password", func(u *models.User) {
		u.Password = passwordHash
	})
	return err
}

func (r *fileUserRepository) UpdateProfileImage(ctx context.Context, email, filename string) (string, error) {
	var previous string
	_, err := r.mutateByEmail(ctx, email, "update_profile_image", func(u *models.User) {
		previous = u.ProfileImage
		u.ProfileImage = filename
	})
	if err != nil {
		return "", err
	}
	return previous, nil
}

func (r *fileUserRepository) Delete(ctx context.Context, email string) (*models.User, error) {
	release, err := r.store.Acquire(ctx, collUsers)
	if err != nil {
		return nil, err
	}
	defer release()

	users, err := r.users.AllLocked()
	if err != nil {
		return nil, err
	}
	for i, u := range users {
		if u.Email != email {
			continue
		}
		if err := r.users.ReplaceLocked(append(users[:i], users[i+1:]...)); err != nil {
			r.log.LogError(ctx, err, "delete")
			return nil, err
		}
		r.log.LogWrite(ctx, "delete", map[string]interface{}{"id": u.ID})
		return u, nil
	}
	return nil, fmt.Errorf("%w: user %s", store.ErrNotFound, email)
}

func (r *fileUserRepository) mutateByEmail(ctx context.Context, email, operation string, mutate func(*models.User)) (*models.User, error) {
	release, err := r.store.Acquire(ctx, collUsers)
	if err != nil {
		return nil, err
	}
	defer release()

	users, err := r.users.AllLocked()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email != email {
			continue
		}
		mutate(u)
		if err := r.users.ReplaceLocked(users); err != nil {
			r.log.LogError(ctx, err, operation)
			return nil, err
		}
		r.log.LogWrite(ctx, operation, map[string]interface{}{"id": u.ID})
		return u, nil
	}
	return nil, fmt.Errorf("%w: user %s", store.ErrNotFound, email)
}
