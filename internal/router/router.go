package router

import (
	"context"
	"fmt"
	"log"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/socialhub/backend/internal/handlers"
	"github.com/socialhub/backend/internal/media"
	"github.com/socialhub/backend/internal/middleware"
	"github.com/socialhub/backend/internal/models"
	"github.com/socialhub/backend/internal/ratelimit"
	"github.com/socialhub/backend/internal/repositories"
	"github.com/socialhub/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware. The body limit backs
// the media upload size ceiling at the transport layer.
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.BodyLimit("50M"))
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// The Firebase auth client and the Redis client are optional: without them
// token verification falls back to HMAC JWTs and the post cooldown to the
// in-process set.
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, rdb *redis.Client) error {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.PostLike{},
		&models.Comment{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"message": "Backend is Running!"})
	})

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database(cfg.MongoDBName))
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)

	// --- Media store ---
	var mediaStore media.Store
	switch cfg.MediaBackend {
	case "s3":
		mediaStore, err = media.NewS3Store(context.Background(), media.S3Config{
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			PublicURL: cfg.S3PublicURL,
		}, cfg.MaxUploadBytes)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 media store: %w", err)
		}
		log.Println("S3 media store configured.")
	default:
		localStore, err := media.NewLocalStore(cfg.UploadDir, cfg.UploadURLBase, cfg.MaxUploadBytes)
		if err != nil {
			return fmt.Errorf("failed to initialize local media store: %w", err)
		}
		mediaStore = localStore
		e.Static(cfg.UploadURLBase, cfg.UploadDir)
		log.Println("Local media store configured, serving", cfg.UploadURLBase)
	}

	// --- Post creation cooldown ---
	cooldownTTL := time.Duration(cfg.CooldownSeconds) * time.Second
	var cooldown ratelimit.Cooldown
	if rdb != nil {
		cooldown = ratelimit.NewRedisCooldown(rdb, cooldownTTL)
		log.Println("Redis-backed post cooldown configured.")
	} else {
		cooldown = ratelimit.NewMemoryCooldown(cooldownTTL, nil)
		log.Println("In-memory post cooldown configured.")
	}

	// --- Token verification ---
	var authenticator middleware.Authenticator
	if firebaseAuthClient != nil {
		authenticator = middleware.NewFirebaseAuthenticator(firebaseAuthClient, userRepo)
		log.Println("Firebase token verification configured.")
	} else {
		authenticator = middleware.NewJWTAuthenticator(cfg.JWTSecret)
		log.Println("JWT token verification configured.")
	}
	requireAuth := middleware.RequireAuth(authenticator)
	optionalAuth := middleware.OptionalAuth(authenticator)

	api := e.Group("/api")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(postRepo, userRepo, likeRepo, cfg.LikePreviewLimit)
	feedHandler.RegisterFeedRoutes(api, optionalAuth)
	log.Println("Feed routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, likeRepo, commentRepo, mediaStore, cooldown)
	postHandler.RegisterPostRoutes(api, requireAuth, optionalAuth)
	log.Println("Post routes configured.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, cfg.LikersPageSize)
	likeHandler.RegisterLikeRoutes(api, requireAuth)
	log.Println("Like routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo)
	commentHandler.RegisterCommentRoutes(api, requireAuth)
	log.Println("Comment routes configured.")

	log.Println("All routes configured.")
	return nil
}
