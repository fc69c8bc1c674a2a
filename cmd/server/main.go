package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/davenwood/pantrylist/internal/cache"
	"github.com/davenwood/pantrylist/internal/config"
	"github.com/davenwood/pantrylist/internal/database"
	"github.com/davenwood/pantrylist/internal/handlers"
	"github.com/davenwood/pantrylist/internal/listsync"
	"github.com/davenwood/pantrylist/internal/middleware"
	"github.com/davenwood/pantrylist/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database (the remote shared-list store)
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Open the local durable cache
	localCache, err := cache.Open(cfg.CachePath)
	if err != nil {
		log.Fatalf("Failed to open local cache: %v", err)
	}
	defer localCache.Close()

	// Start the change-notification listener. A dropped connection is
	// retried; sync engines serve their local copies in the meantime.
	listener := database.NewListener(cfg.DatabaseURL)
	go func() {
		for {
			if err := listener.Run(ctx); err != nil {
				log.Printf("Warning: notification listener stopped: %v", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
		}
	}()

	// Sync manager: one engine per household, lazily started
	syncManager := listsync.NewManager(ctx, localCache, db, listener)

	// Sufficiency engine client
	sufficiencyService := services.NewSufficiencyService(cfg.SufficiencyURL, cfg.SufficiencyTimeout)

	// Optional S3 storage for shared snapshots
	var storageService *services.StorageService
	if cfg.ShareStorageEnabled() {
		storageService, err = services.NewStorageService(
			cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL,
		)
		if err != nil {
			log.Printf("Warning: Failed to initialize storage service: %v", err)
			storageService = nil
		} else if err := storageService.EnsureBucket(ctx); err != nil {
			log.Printf("Warning: Failed to ensure S3 bucket exists: %v", err)
		}
	} else {
		log.Println("Snapshot storage not configured, share links will be served from the API only")
	}

	// Periodic cleanup of expired share snapshots
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		handlers.CleanupExpiredShares(ctx, db, storageService)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				handlers.CleanupExpiredShares(ctx, db, storageService)
			}
		}
	}()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Create handler with dependencies
	h := handlers.New(db, cfg, syncManager, sufficiencyService, storageService)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	api := app.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Get("/me", middleware.AuthRequired(cfg), h.GetCurrentUser)
	auth.Post("/refresh", middleware.AuthRequired(cfg), h.RefreshToken)

	// Shopping list routes (authenticated, household-scoped)
	lists := api.Group("/lists", middleware.AuthRequired(cfg))
	lists.Post("/consolidate", h.Consolidate)
	lists.Get("/current", h.GetCurrentList)
	lists.Post("/items/:key/toggle", h.ToggleItem)
	lists.Get("/export", h.ExportList)
	lists.Post("/share", h.CreateShare)

	// Public share routes (no auth required)
	share := api.Group("/share")
	share.Get("/:token", h.GetShared)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
