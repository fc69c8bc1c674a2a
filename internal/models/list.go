package models

import (
	"encoding/json"
	"time"
)

// ListItemRow is one row of the shared remote store, upsert-keyed by
// (household_id, item_key). ItemJSON carries the merged item (name,
// quantity, unit, category); Position preserves the consolidation order so
// a full re-fetch reproduces the same rendering.
type ListItemRow struct {
	HouseholdID int             `json:"household_id"`
	ItemKey     string          `json:"item_key"`
	ItemJSON    json.RawMessage `json:"item_json"`
	Checked     bool            `json:"checked"`
	Position    int             `json:"position"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// RecipePlan identifies one recipe+servings pair whose sufficiency check
// yields a shopping fragment.
type RecipePlan struct {
	RecipeID string `json:"recipe_id"`
	Servings int    `json:"servings"`
}

// ConsolidateRequest is the request body for building a shopping list.
// Either Plans (resolved against the sufficiency engine, in order) or
// Fragments (pre-fetched sufficiency outputs) must be set; Fragments wins
// when both are present.
type ConsolidateRequest struct {
	Plans     []RecipePlan      `json:"plans,omitempty"`
	Fragments []json.RawMessage `json:"fragments,omitempty"`
}

// ToggleRequest is the request body for a check-state change.
type ToggleRequest struct {
	Checked bool `json:"checked"`
}

// Snapshot is a frozen text export of a list, addressable by share token.
type Snapshot struct {
	Token       string     `json:"token"`
	HouseholdID int        `json:"household_id"`
	Content     string     `json:"content"`
	StorageKey  *string    `json:"storage_key,omitempty"`
	URL         *string    `json:"url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}
