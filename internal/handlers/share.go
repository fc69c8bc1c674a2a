package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/davenwood/pantrylist/internal/consolidate"
	"github.com/davenwood/pantrylist/internal/database"
	"github.com/davenwood/pantrylist/internal/middleware"
	"github.com/davenwood/pantrylist/internal/services"
)

// CreateShare freezes the current list into a snapshot and returns a share
// token. When S3 storage is configured the text is also uploaded and a
// presigned download link is included; the upload is best-effort since the
// snapshot text always lives in the database.
func (h *Handler) CreateShare(c *fiber.Ctx) error {
	engine, err := h.engineFor(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	list, _ := engine.Current()
	if len(list.Items()) == 0 {
		return Error(c, fiber.StatusBadRequest, "nothing to share: the list is empty")
	}

	content := consolidate.Export(list)
	token := uuid.New().String()

	var storageKey *string
	var shareURL *string
	if h.storage != nil {
		key, err := h.storage.UploadSnapshot(c.Context(), token, content)
		if err != nil {
			log.Printf("Warning: snapshot upload failed: %v", err)
		} else {
			storageKey = &key
			url, err := h.storage.GetPresignedURL(c.Context(), key, h.cfg.ShareExpiry)
			if err != nil {
				log.Printf("Warning: presigned URL generation failed: %v", err)
			} else {
				shareURL = &url
			}
		}
	}

	expiresAt := time.Now().Add(h.cfg.ShareExpiry)

	snapshot, err := h.db.CreateSnapshot(c.Context(), token, middleware.GetHouseholdID(c), content, storageKey, &expiresAt)
	if err != nil {
		// Don't leave an orphaned object behind.
		if storageKey != nil {
			_ = h.storage.Delete(c.Context(), *storageKey)
		}
		return Error(c, fiber.StatusInternalServerError, "failed to create share")
	}
	snapshot.URL = shareURL

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    snapshot,
	})
}

// GetShared serves a shared snapshot as plain text. Snapshots are frozen:
// later edits to the list never show up under an old token.
func (h *Handler) GetShared(c *fiber.Ctx) error {
	token := c.Params("token")
	if _, err := uuid.Parse(token); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid share token")
	}

	snapshot, err := h.db.GetSnapshotByToken(c.Context(), token)
	if err != nil {
		if errors.Is(err, database.ErrSnapshotNotFound) {
			return Error(c, fiber.StatusNotFound, "share not found or expired")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to load share")
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.SendString(snapshot.Content)
}

// CleanupExpiredShares deletes expired snapshots and their uploaded objects.
// Called periodically from the server loop.
func CleanupExpiredShares(ctx context.Context, db *database.DB, storage *services.StorageService) {
	keys, err := db.CleanupExpiredSnapshots(ctx)
	if err != nil {
		log.Printf("Warning: snapshot cleanup failed: %v", err)
		return
	}
	if storage != nil && len(keys) > 0 {
		if err := storage.DeleteMultiple(ctx, keys); err != nil {
			log.Printf("Warning: snapshot object cleanup failed: %v", err)
		}
	}
}
