package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/socialhub/backend/internal/router"
	"github.com/socialhub/backend/pkg/config"
	"github.com/socialhub/backend/pkg/firebase"
	"github.com/socialhub/backend/validators"

	fbauth "firebase.google.com/go/v4/auth"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	// Firebase token verification is optional; without credentials the
	// router falls back to HMAC JWT verification.
	var authClient *fbauth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		authClient = firebaseApp.AuthClient
	}

	// Optional Redis, shared across instances for the post cooldown.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, cfg, db.Postgres, db.Mongo, authClient, rdb); err != nil {
		log.Fatalf("Failed to setup routes: %v", err)
	}

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
