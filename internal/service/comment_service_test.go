package service

import (
	"context"
	"testing"

	"scrawl/internal/models"
	"scrawl/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_CreateComment(t *testing.T) {
	t.Parallel()

	repo := &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 1
			return nil
		},
	}
	svc := NewCommentService(repo)

	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		PostID:  3,
		Content: "Nice post",
		Author:  "inkweaver",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, comment.ID)
	assert.Equal(t, 3, comment.PostID)
}

func TestCommentService_CreateComment_Validation(t *testing.T) {
	t.Parallel()

	repo := &commentRepoStub{
		createFn: func(context.Context, *models.Comment) error {
			t.Fatal("repo should not be called on invalid input")
			return nil
		},
	}
	svc := NewCommentService(repo)

	tests := []struct {
		name string
		in   CreateCommentInput
	}{
		{"Missing PostID", CreateCommentInput{Content: "c", Author: "a"}},
		{"Missing Content", CreateCommentInput{PostID: 1, Author: "a"}},
		{"Whitespace Content", CreateCommentInput{PostID: 1, Content: " ", Author: "a"}},
		{"Missing Author", CreateCommentInput{PostID: 1, Content: "c"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateComment(context.Background(), tt.in)
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestCommentService_CreateComment_PassesThroughDangling(t *testing.T) {
	t.Parallel()

	repo := &commentRepoStub{
		createFn: func(context.Context, *models.Comment) error {
			return store.ErrDanglingReference
		},
	}
	svc := NewCommentService(repo)

	_, err := svc.CreateComment(context.Background(), CreateCommentInput{
		PostID:  99,
		Content: "orphan",
		Author:  "inkweaver",
	})
	assert.ErrorIs(t, err, store.ErrDanglingReference)
}

func TestCommentService_UpdateComment(t *testing.T) {
	t.Parallel()

	repo := &commentRepoStub{
		updateFn: func(_ context.Context, id int, content string) (*models.Comment, error) {
			return &models.Comment{ID: id, Content: content}, nil
		},
	}
	svc := NewCommentService(repo)

	updated, err := svc.UpdateComment(context.Background(), 2, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	_, err = svc.UpdateComment(context.Background(), 2, "   ")
	assert.Error(t, err)
}

func TestCommentService_DeleteComment_NotFound(t *testing.T) {
	t.Parallel()

	repo := &commentRepoStub{
		deleteFn: func(context.Context, int) error {
			return store.ErrNotFound
		},
	}
	svc := NewCommentService(repo)

	assert.ErrorIs(t, svc.DeleteComment(context.Background(), 5), store.ErrNotFound)
}
