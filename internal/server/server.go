// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"communityapi/internal/cache"
	"communityapi/internal/config"
	"communityapi/internal/database"
	"communityapi/internal/middleware"
	"communityapi/internal/repository"
	"communityapi/internal/service"
	"communityapi/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	media          storage.MediaStore
	mediaRoot      string

	customerRepo   repository.CustomerRepository
	postRepo       repository.PostRepository
	reactionRepo   repository.ReactionRepository
	membershipRepo repository.MembershipRepository
	communityRepo  repository.CommunityRepository

	customerService  *service.CustomerService
	communityService *service.CommunityService
	postService      *service.PostService
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	media := storage.NewLocalMediaStore(cfg.UploadDir)
	return NewServerWithDeps(cfg, db, cache.GetClient(), media), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, media storage.MediaStore) *Server {
	customerRepo := repository.NewCustomerRepository(db)
	postRepo := repository.NewPostRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	communityRepo := repository.NewCommunityRepository(db)

	prom := middleware.InitMetrics("communityapi")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		media:          media,
		customerRepo:   customerRepo,
		postRepo:       postRepo,
		reactionRepo:   reactionRepo,
		membershipRepo: membershipRepo,
		communityRepo:  communityRepo,
	}
	if local, ok := media.(*storage.LocalMediaStore); ok {
		server.mediaRoot = local.Root()
	}

	server.customerService = service.NewCustomerService(customerRepo, postRepo, reactionRepo, membershipRepo, media)
	server.communityService = service.NewCommunityService(communityRepo, membershipRepo)
	server.postService = service.NewPostService(postRepo, reactionRepo, membershipRepo, communityRepo, media)

	return server
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Propagate request ID and user ID into the request context
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		middleware.RegisterMetricsRoute(s.promMiddleware, app)
	}

	// Uploaded media
	if s.mediaRoot != "" {
		app.Static(storage.PublicPrefix, s.mediaRoot)
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.Logout)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// Customer routes
	customers := protected.Group("/customers")
	customers.Get("/", s.AdminRequired(), s.GetCustomers)
	customers.Get("/me", s.GetMe)
	customers.Post("/:id/picture", s.UploadProfilePicture)
	customers.Put("/:id", s.UpdateCustomer)
	customers.Delete("/:id", s.DeleteCustomer)

	// Community routes
	communities := protected.Group("/communities")
	communities.Post("/", s.CreateCommunity)
	communities.Get("/", s.GetCommunities)
	communities.Get("/mine", s.GetMyCommunities)
	communities.Post("/:id/join", s.JoinCommunity)
	communities.Delete("/:id/join", s.LeaveCommunity)

	// Post routes
	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	posts.Get("/community/:id", s.GetCommunityPosts)
	posts.Post("/:id/reaction", s.ReactToPost)
	posts.Post("/:id/media", s.UploadPostMedia)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)
}

// Shutdown releases server-held resources after the HTTP listener stops.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.WarnContext(ctx, "redis close failed", "error", err.Error())
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The API degrades without Redis, so readiness only requires the DB.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
