package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"scrawl/internal/config"
	"scrawl/internal/database"
	"scrawl/internal/repository"
	"scrawl/internal/seed"
	"scrawl/internal/store"
)

func main() {
	defaults := seed.DefaultOptions()
	users := flag.Int("users", defaults.Users, "number of users to create")
	posts := flag.Int("posts", defaults.Posts, "number of posts to create")
	comments := flag.Int("comments", defaults.CommentsPerPost, "comments per post")
	likeChance := flag.Float64("like-chance", defaults.LikeChance, "probability each user likes each post")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "store plain passwords (fast, local only)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Env == "production" {
		slog.Error("refusing to seed a production environment")
		os.Exit(1)
	}

	var repos *repository.Repositories
	switch cfg.Persistence {
	case config.PersistenceDB:
		db, err := database.Connect(cfg)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		repos = repository.NewDBRepositories(db)
	default:
		st, err := store.Open(cfg.DataDir, store.WithLockWait(cfg.LockWait()))
		if err != nil {
			slog.Error("failed to open data directory", "error", err, "dir", cfg.DataDir)
			os.Exit(1)
		}
		repos = repository.NewFileRepositories(st)
	}

	factory := seed.NewFactory(repos, seed.Options{
		Users:           *users,
		Posts:           *posts,
		CommentsPerPost: *comments,
		LikeChance:      *likeChance,
		SkipBcrypt:      *skipBcrypt,
	})

	if err := factory.Run(context.Background()); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("seeding complete", "users", *users, "posts", *posts)
}
