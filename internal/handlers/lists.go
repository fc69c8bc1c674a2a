package handlers

import (
	"encoding/json"
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/davenwood/pantrylist/internal/consolidate"
	"github.com/davenwood/pantrylist/internal/listsync"
	"github.com/davenwood/pantrylist/internal/middleware"
	"github.com/davenwood/pantrylist/internal/models"
)

// ListResponse is the rendered list plus per-item check state.
type ListResponse struct {
	List   *consolidate.ShoppingList `json:"list"`
	Checks map[string]bool           `json:"checks"`
}

func (h *Handler) engineFor(c *fiber.Ctx) (*listsync.Engine, error) {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return nil, errors.New("no household in token")
	}
	return h.sync.ForHousehold(householdID)
}

// Consolidate builds a fresh shopping list from recipe plans (resolved
// against the sufficiency engine) or pre-fetched fragments, and publishes it
// as the household's current list.
func (h *Handler) Consolidate(c *fiber.Ctx) error {
	var req models.ConsolidateRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	var fragments []consolidate.Fragment
	switch {
	case len(req.Fragments) > 0:
		// A fragment that doesn't decode counts as failed, same as an
		// unsuccessful sufficiency check.
		for _, raw := range req.Fragments {
			var frag consolidate.Fragment
			if err := json.Unmarshal(raw, &frag); err != nil {
				fragments = append(fragments, consolidate.Fragment{Success: false})
				continue
			}
			fragments = append(fragments, frag)
		}
	case len(req.Plans) > 0:
		fragments = h.sufficiency.CollectFragments(c.Context(), req.Plans)
	}

	result, err := consolidate.Consolidate(fragments)
	if err != nil {
		if errors.Is(err, consolidate.ErrAllFragmentsFailed) {
			return Error(c, fiber.StatusBadGateway, "could not build shopping list: every recipe check failed")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to consolidate")
	}

	engine, err := h.engineFor(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := engine.Publish(c.Context(), result.List); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to store list")
	}

	list, checks := engine.Current()
	return SuccessWithMeta(c, ListResponse{List: list, Checks: checks}, &Meta{
		SyncState:       string(engine.State()),
		FragmentCount:   result.FragmentCount,
		FailedFragments: result.FailedFragments,
	})
}

// GetCurrentList returns the household's current list and check state.
func (h *Handler) GetCurrentList(c *fiber.Ctx) error {
	engine, err := h.engineFor(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	list, checks := engine.Current()
	return SuccessWithMeta(c, ListResponse{List: list, Checks: checks}, &Meta{
		SyncState: string(engine.State()),
	})
}

// ToggleItem flips one item's check state.
func (h *Handler) ToggleItem(c *fiber.Ctx) error {
	itemKey, err := url.PathUnescape(c.Params("key"))
	if err != nil || itemKey == "" {
		return Error(c, fiber.StatusBadRequest, "invalid item key")
	}

	var req models.ToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	engine, err := h.engineFor(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := engine.Toggle(c.Context(), itemKey, req.Checked); err != nil {
		if errors.Is(err, listsync.ErrItemNotFound) {
			return Error(c, fiber.StatusNotFound, "item not in current list")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to toggle item")
	}

	_, checks := engine.Current()
	return Success(c, fiber.Map{
		"item_key": itemKey,
		"checked":  checks[itemKey],
	})
}

// ExportList returns the current list as plain text, grouped by category.
func (h *Handler) ExportList(c *fiber.Ctx) error {
	engine, err := h.engineFor(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	list, _ := engine.Current()

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.SendString(consolidate.Export(list))
}
