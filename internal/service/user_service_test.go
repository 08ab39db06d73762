package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"scrawl/internal/models"
	"scrawl/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Signup(t *testing.T) {
	t.Parallel()

	var created *models.User
	repo := &userRepoStub{
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = 1
			u.ProfileImage = models.DefaultProfileImage
			created = u
			return nil
		},
	}
	svc := NewUserService(repo, testImageService(t.TempDir()))

	user, err := svc.Signup(context.Background(), SignupInput{
		Email:    "writer@example.com",
		Password: "correct-horse",
		Nickname: "inkweaver",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	require.NotNil(t, created)

	// Password is stored hashed, never plain.
	assert.NotEqual(t, "correct-horse", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("correct-horse")))
}

func TestUserService_Signup_Validation(t *testing.T) {
	t.Parallel()

	repo := &userRepoStub{
		createFn: func(context.Context, *models.User) error {
			t.Fatal("repo should not be called on invalid input")
			return nil
		},
	}
	svc := NewUserService(repo, testImageService(t.TempDir()))

	tests := []struct {
		name string
		in   SignupInput
	}{
		{"Bad Email", SignupInput{Email: "nope", Password: "longenough", Nickname: "n"}},
		{"Short Password", SignupInput{Email: "a@b.com", Password: "short", Nickname: "n"}},
		{"Missing Nickname", SignupInput{Email: "a@b.com", Password: "longenough"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.in)
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestUserService_Signup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := &userRepoStub{
		createFn: func(context.Context, *models.User) error {
			return store.ErrDuplicate
		},
	}
	svc := NewUserService(repo, testImageService(t.TempDir()))

	_, err := svc.Signup(context.Background(), SignupInput{
		Email:    "taken@example.com",
		Password: "longenough",
		Nickname: "inkweaver",
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DUPLICATE_KEY", appErr.Code)
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := &userRepoStub{
		getByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			if email != "writer@example.com" {
				return nil, store.ErrNotFound
			}
			return &models.User{ID: 1, Email: email, Password: string(hash)}, nil
		},
	}
	svc := NewUserService(repo, testImageService(t.TempDir()))

	user, err := svc.Login(context.Background(), "writer@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)

	// Wrong password and unknown email fail identically.
	_, wrongErr := svc.Login(context.Background(), "writer@example.com", "wrong")
	_, missingErr := svc.Login(context.Background(), "ghost@example.com", "correct-horse")
	for _, e := range []error{wrongErr, missingErr} {
		var appErr *models.AppError
		require.ErrorAs(t, e, &appErr)
		assert.Equal(t, "UNAUTHORIZED", appErr.Code)
		assert.Equal(t, "Invalid email or password", appErr.Message)
	}
}

func TestUserService_UpdatePassword_Rehashes(t *testing.T) {
	t.Parallel()

	var storedHash string
	repo := &userRepoStub{
		updatePasswordFn: func(_ context.Context, _, passwordHash string) error {
			storedHash = passwordHash
			return nil
		},
	}
	svc := NewUserService(repo, testImageService(t.TempDir()))

	require.NoError(t, svc.UpdatePassword(context.Background(), "writer@example.com", "new-password"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("new-password")))

	assert.Error(t, svc.UpdatePassword(context.Background(), "writer@example.com", "short"))
}

func TestUserService_UpdateProfileImage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	images := testImageService(dir)
	oldName, err := images.SaveBase64(tinyPNGDataURL())
	require.NoError(t, err)

	current := &models.User{ID: 1, Email: "writer@example.com", ProfileImage: oldName}
	repo := &userRepoStub{
		updateProfileImageFn: func(_ context.Context, _, filename string) (string, error) {
			prev := current.ProfileImage
			current.ProfileImage = filename
			return prev, nil
		},
		getByEmailFn: func(context.Context, string) (*models.User, error) {
			return current, nil
		},
	}
	svc := NewUserService(repo, images)

	user, err := svc.UpdateProfileImage(context.Background(), "writer@example.com", tinyPNGDataURL())
	require.NoError(t, err)
	require.NotEmpty(t, user.ProfileImage)
	assert.NotEqual(t, oldName, user.ProfileImage)

	_, statErr := os.Stat(filepath.Join(dir, oldName))
	assert.True(t, os.IsNotExist(statErr), "previous image should be retired")
}

func TestUserService_UpdateProfileImage_MissingUserCleansUp(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo := &userRepoStub{
		updateProfileImageFn: func(context.Context, string, string) (string, error) {
			return "", store.ErrNotFound
		},
	}
	svc := NewUserService(repo, testImageService(dir))

	_, err := svc.UpdateProfileImage(context.Background(), "ghost@example.com", tinyPNGDataURL())
	require.ErrorIs(t, err, store.ErrNotFound)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "saved image should be rolled back")
}

func TestUserService_Withdraw(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	images := testImageService(dir)
	require.NoError(t, images.EnsureDir())
	filename, err := images.SaveBase64(tinyPNGDataURL())
	require.NoError(t, err)

	repo := &userRepoStub{
		deleteFn: func(_ context.Context, email string) (*models.User, error) {
			return &models.User{Email: email, ProfileImage: filename}, nil
		},
	}
	svc := NewUserService(repo, images)

	require.NoError(t, svc.Withdraw(context.Background(), "writer@example.com"))
	_, statErr := os.Stat(filepath.Join(dir, filename))
	assert.True(t, os.IsNotExist(statErr))

	// The default placeholder survives a withdrawal that references it.
	repo.deleteFn = func(_ context.Context, email string) (*models.User, error) {
		return &models.User{Email: email, ProfileImage: models.DefaultProfileImage}, nil
	}
	require.NoError(t, svc.Withdraw(context.Background(), "other@example.com"))
	_, statErr = os.Stat(filepath.Join(dir, models.DefaultProfileImage))
	assert.NoError(t, statErr)
}
