package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/davenwood/pantrylist/internal/models"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// CreateSnapshot stores a frozen text export addressable by share token.
func (db *DB) CreateSnapshot(ctx context.Context, token string, householdID int, content string, storageKey *string, expiresAt *time.Time) (*models.Snapshot, error) {
	snapshot := &models.Snapshot{}

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO snapshots (token, household_id, content, storage_key, created_at, expires_at)
		VALUES ($1, $2, $3, $4, NOW(), $5)
		RETURNING token, household_id, content, storage_key, created_at, expires_at
	`, token, householdID, content, storageKey, expiresAt).Scan(
		&snapshot.Token,
		&snapshot.HouseholdID,
		&snapshot.Content,
		&snapshot.StorageKey,
		&snapshot.CreatedAt,
		&snapshot.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// GetSnapshotByToken fetches a live (non-expired) snapshot.
func (db *DB) GetSnapshotByToken(ctx context.Context, token string) (*models.Snapshot, error) {
	snapshot := &models.Snapshot{}

	err := db.Pool.QueryRow(ctx, `
		SELECT token, household_id, content, storage_key, created_at, expires_at
		FROM snapshots
		WHERE token = $1 AND (expires_at IS NULL OR expires_at > NOW())
	`, token).Scan(
		&snapshot.Token,
		&snapshot.HouseholdID,
		&snapshot.Content,
		&snapshot.StorageKey,
		&snapshot.CreatedAt,
		&snapshot.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}

	return snapshot, nil
}

// CleanupExpiredSnapshots deletes expired snapshots and returns the storage
// keys of any that had uploaded objects, so the caller can delete those too.
func (db *DB) CleanupExpiredSnapshots(ctx context.Context) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `
		DELETE FROM snapshots
		WHERE expires_at IS NOT NULL AND expires_at <= NOW()
		RETURNING storage_key
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key *string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		if key != nil {
			keys = append(keys, *key)
		}
	}

	return keys, rows.Err()
}
