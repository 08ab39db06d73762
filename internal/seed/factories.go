// Package seed provides helpers that create demo data through the
// repository layer. Intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"scrawl/internal/models"
	"scrawl/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// Options tunes how much demo data gets generated.
type Options struct {
	Users           int
	Posts           int
	CommentsPerPost int
	LikeChance      float64 // probability each user likes each post
	SkipBcrypt      bool    // plain passwords for fast local seeding
}

// DefaultOptions is a small, readable data set.
func DefaultOptions() Options {
	return Options{
		Users:           5,
		Posts:           20,
		CommentsPerPost: 3,
		LikeChance:      0.3,
	}
}

// Factory builds domain records and persists them through whichever
// repository variant it was handed.
type Factory struct {
	repos *repository.Repositories
	opts  Options
	rand  *rand.Rand
}

// NewFactory creates a Factory bound to the provided repositories.
func NewFactory(repos *repository.Repositories, opts Options) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{
		repos: repos,
		opts:  opts,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

// CreateUser persists a sample user. Overrides run before saving.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Email:    gofakeit.Email(),
		Nickname: gofakeit.Username(),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.repos.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}
	return user, nil
}

// CreatePost persists a sample post attributed to the given nickname.
func (f *Factory) CreatePost(ctx context.Context, nickname string, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:          gofakeit.Sentence(5),
		Content:        gofakeit.Paragraph(1, 3, 5, "\n"),
		AuthorNickname: nickname,
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.repos.Posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("seed post: %w", err)
	}
	return post, nil
}

// CreateComment persists a sample comment on the given post.
func (f *Factory) CreateComment(ctx context.Context, postID int, author string) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:  postID,
		Content: gofakeit.Sentence(f.rand.Intn(10) + 3),
		Author:  author,
	}
	if err := f.repos.Comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("seed comment: %w", err)
	}
	return comment, nil
}

// Run generates the full demo data set: users, posts, comments, likes,
// and a spread of view counts.
func (f *Factory) Run(ctx context.Context) error {
	users := make([]*models.User, 0, f.opts.Users)
	for i := 0; i < f.opts.Users; i++ {
		user, err := f.CreateUser(ctx)
		if err != nil {
			return err
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return fmt.Errorf("seed requires at least one user")
	}

	posts := make([]*models.Post, 0, f.opts.Posts)
	for i := 0; i < f.opts.Posts; i++ {
		author := users[f.rand.Intn(len(users))]
		post, err := f.CreatePost(ctx, author.Nickname)
		if err != nil {
			return err
		}
		posts = append(posts, post)
	}

	for _, post := range posts {
		for i := 0; i < f.opts.CommentsPerPost; i++ {
			commenter := users[f.rand.Intn(len(users))]
			if _, err := f.CreateComment(ctx, post.ID, commenter.Nickname); err != nil {
				return err
			}
		}

		for _, user := range users {
			if f.rand.Float64() < f.opts.LikeChance {
				if _, err := f.repos.Posts.ToggleLike(ctx, post.ID, user.ID); err != nil {
					return err
				}
			}
		}

		views := f.rand.Intn(30)
		for i := 0; i < views; i++ {
			if _, err := f.repos.Posts.IncrementViews(ctx, post.ID); err != nil {
				return err
			}
		}
	}

	log.Printf("seeded %d users, %d posts", len(users), len(posts))
	return nil
}
