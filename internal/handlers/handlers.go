package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/davenwood/pantrylist/internal/config"
	"github.com/davenwood/pantrylist/internal/database"
	"github.com/davenwood/pantrylist/internal/listsync"
	"github.com/davenwood/pantrylist/internal/services"
)

// Handler holds all handler dependencies
type Handler struct {
	db          *database.DB
	cfg         *config.Config
	sync        *listsync.Manager
	sufficiency *services.SufficiencyService
	storage     *services.StorageService // nil when snapshot uploads are not configured
}

// New creates a new Handler instance
func New(db *database.DB, cfg *config.Config, sync *listsync.Manager, sufficiency *services.SufficiencyService, storage *services.StorageService) *Handler {
	return &Handler{
		db:          db,
		cfg:         cfg,
		sync:        sync,
		sufficiency: sufficiency,
		storage:     storage,
	}
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to 500
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta carries list-level metadata alongside the data payload.
type Meta struct {
	SyncState       string `json:"sync_state,omitempty"`
	FragmentCount   int    `json:"fragment_count,omitempty"`
	FailedFragments int    `json:"failed_fragments,omitempty"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta returns a successful response with metadata
func SuccessWithMeta(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}
