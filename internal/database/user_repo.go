package database

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/davenwood/pantrylist/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailExists       = errors.New("email already exists")
	ErrUsernameExists    = errors.New("username already exists")
	ErrHouseholdNotFound = errors.New("household not found")
)

// CreateHousehold creates a new household and returns it with its join code.
func (db *DB) CreateHousehold(ctx context.Context, name string) (*models.Household, error) {
	household := &models.Household{}

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO households (name, created_at)
		VALUES ($1, NOW())
		RETURNING id, name, join_code, created_at
	`, name).Scan(
		&household.ID,
		&household.Name,
		&household.JoinCode,
		&household.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return household, nil
}

// GetHouseholdByJoinCode resolves a join code to a household.
func (db *DB) GetHouseholdByJoinCode(ctx context.Context, joinCode string) (*models.Household, error) {
	household := &models.Household{}

	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, join_code, created_at
		FROM households
		WHERE join_code = $1
	`, joinCode).Scan(
		&household.ID,
		&household.Name,
		&household.JoinCode,
		&household.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHouseholdNotFound
		}
		return nil, err
	}

	return household, nil
}

// GetHouseholdByID retrieves a household by its ID.
func (db *DB) GetHouseholdByID(ctx context.Context, id int) (*models.Household, error) {
	household := &models.Household{}

	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, join_code, created_at
		FROM households
		WHERE id = $1
	`, id).Scan(
		&household.ID,
		&household.Name,
		&household.JoinCode,
		&household.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHouseholdNotFound
		}
		return nil, err
	}

	return household, nil
}

// CreateUser creates a new user in the given household.
func (db *DB) CreateUser(ctx context.Context, email, passwordHash string, username *string, householdID int) (*models.User, error) {
	user := &models.User{}

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, username, household_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, email, password_hash, username, household_id, created_at, updated_at, last_login_at
	`, email, passwordHash, username, householdID).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Username,
		&user.HouseholdID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastLoginAt,
	)

	if err != nil {
		// Check for unique constraint violations
		if strings.Contains(err.Error(), "users_email_key") {
			return nil, ErrEmailExists
		}
		if strings.Contains(err.Error(), "users_username_key") {
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID
func (db *DB) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}

	err := db.Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, username, household_id, created_at, updated_at, last_login_at
		FROM users
		WHERE id = $1
	`, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Username,
		&user.HouseholdID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastLoginAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// GetUserByEmail retrieves a user by their email
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}

	err := db.Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, username, household_id, created_at, updated_at, last_login_at
		FROM users
		WHERE email = $1
	`, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Username,
		&user.HouseholdID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastLoginAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// UpdateUserLastLogin records a successful login.
func (db *DB) UpdateUserLastLogin(ctx context.Context, userID int) {
	_, _ = db.Pool.Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID)
}
