// Package server contains HTTP handlers and routing for the application's API.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"scrawl/internal/config"
	"scrawl/internal/database"
	"scrawl/internal/middleware"
	"scrawl/internal/models"
	"scrawl/internal/observability"
	"scrawl/internal/repository"
	"scrawl/internal/service"
	"scrawl/internal/store"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config *config.Config
	store  *store.Store
	db     *gorm.DB
	redis  *redis.Client
	app    *fiber.App
	repos  *repository.Repositories
	prom   *fiberprometheus.FiberPrometheus

	postService    *service.PostService
	commentService *service.CommentService
	userService    *service.UserService
	imageService   *service.ImageService
}

// NewServer creates a new server instance with all dependencies. The
// persistence variant (file-backed store or relational database) is
// selected by configuration; everything above the repositories is
// identical either way.
func NewServer(cfg *config.Config) (*Server, error) {
	server := &Server{config: cfg}

	switch cfg.Persistence {
	case config.PersistenceDB:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		server.db = db
		server.repos = repository.NewDBRepositories(db)
	default:
		st, err := store.Open(cfg.DataDir, store.WithLockWait(cfg.LockWait()))
		if err != nil {
			return nil, fmt.Errorf("document store open failed: %w", err)
		}
		server.store = st
		server.repos = repository.NewFileRepositories(st)
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		server.redis = redis.NewClient(opts)
	}

	server.wireServices()
	server.prom = observability.InitMetrics("scrawl-api")
	middleware.InitMiddleware(cfg)
	return server, nil
}

// NewServerWithDeps creates a Server using already-initialized
// repositories. Use this in tests or when a bootstrap layer establishes
// storage separately.
func NewServerWithDeps(cfg *config.Config, repos *repository.Repositories, redisClient *redis.Client) *Server {
	server := &Server{
		config: cfg,
		redis:  redisClient,
		repos:  repos,
	}
	server.wireServices()
	server.prom = observability.InitMetrics("scrawl-api")
	middleware.InitMiddleware(cfg)
	return server
}

func (s *Server) wireServices() {
	s.imageService = service.NewImageService(s.config.UploadDir, middleware.Logger)
	s.postService = service.NewPostService(s.repos.Posts, s.imageService)
	s.commentService = service.NewCommentService(s.repos.Comments)
	s.userService = service.NewUserService(s.repos.Users, s.imageService)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// HTTP metrics (request count, latency, in-flight)
	app.Use(s.prom.Middleware)

	// Request ID for log correlation
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Distributed tracing (after requestid so spans carry the request ID)
	app.Use(middleware.TracingMiddleware())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.HealthCheck)
	s.prom.RegisterAt(app, "/metrics")

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.Logout)

	// Public post routes
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	// Specific /:id/:resource routes BEFORE generic /:id route
	posts.Get("/:postId/comments", s.GetComments)
	posts.Post("/:id/views", s.RegisterView)
	posts.Get("/:id/like", middleware.AuthRequired, s.GetLikeStatus)
	posts.Post("/:id/like", middleware.AuthRequired, s.ToggleLike)
	posts.Get("/:id", s.GetPost)

	// Protected post mutations
	posts.Post("/", middleware.AuthRequired, s.CreatePost)
	posts.Put("/:id", middleware.AuthRequired, s.UpdatePost)
	posts.Delete("/:id", middleware.AuthRequired, s.DeletePost)

	// Comment routes
	comments := api.Group("/comments")
	comments.Post("/", middleware.AuthRequired, s.CreateComment)
	comments.Put("/:id", middleware.AuthRequired, s.UpdateComment)
	comments.Delete("/:id", middleware.AuthRequired, s.DeleteComment)

	// User account routes
	users := api.Group("/users", middleware.AuthRequired)
	users.Patch("/nickname", s.UpdateNickname)
	users.Patch("/password", s.UpdatePassword)
	users.Patch("/profile-image", s.UpdateProfileImage)
	users.Delete("/", s.Withdraw)
}

// HealthCheck handles GET /health
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	storageStatus := "healthy"
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			storageStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	if storageStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": storageStatus,
		"time":   time.Now().UTC(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "Scrawl API",
		BodyLimit: 12 * 1024 * 1024, // base64 image payloads inflate requests
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	if err := s.imageService.EnsureDir(); err != nil {
		return err
	}

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				log.Printf("error closing sql DB: %v", cerr)
			}
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
