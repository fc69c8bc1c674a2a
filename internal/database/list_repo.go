package database

import (
	"context"
	"errors"

	"github.com/davenwood/pantrylist/internal/models"
)

var ErrListItemNotFound = errors.New("list item not found")

// GetListItems returns every list row for a household, newest first. The
// caller re-orders by position when rebuilding the rendered list; the
// newest-first read matches how the remote store is defined to be consumed.
func (db *DB) GetListItems(ctx context.Context, householdID int) ([]models.ListItemRow, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT household_id, item_key, item_json, checked, position, updated_at
		FROM list_items
		WHERE household_id = $1
		ORDER BY updated_at DESC
	`, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ListItemRow
	for rows.Next() {
		var r models.ListItemRow
		err := rows.Scan(&r.HouseholdID, &r.ItemKey, &r.ItemJSON, &r.Checked, &r.Position, &r.UpdatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}

	return items, rows.Err()
}

// ReplaceListItems swaps the household's rows wholesale inside one
// transaction. Regeneration replaces the list, it never partially deletes.
func (db *DB) ReplaceListItems(ctx context.Context, householdID int, items []models.ListItemRow) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM list_items WHERE household_id = $1`, householdID); err != nil {
		return err
	}

	for _, row := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO list_items (household_id, item_key, item_json, checked, position, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
		`, householdID, row.ItemKey, row.ItemJSON, row.Checked, row.Position)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// SetItemChecked flips the check state of a single row.
func (db *DB) SetItemChecked(ctx context.Context, householdID int, itemKey string, checked bool) error {
	result, err := db.Pool.Exec(ctx, `
		UPDATE list_items
		SET checked = $3, updated_at = NOW()
		WHERE household_id = $1 AND item_key = $2
	`, householdID, itemKey, checked)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrListItemNotFound
	}

	return nil
}
