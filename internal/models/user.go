package models

import (
	"time"
)

// User is a member of a household. Every authenticated request acts on the
// household's shared shopping list, not the individual user.
type User struct {
	ID           int        `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never expose in JSON
	Username     *string    `json:"username,omitempty"`
	HouseholdID  int        `json:"household_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// Household is the sync scope: one shared shopping list per household.
// JoinCode lets additional devices/members enroll.
type Household struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	JoinCode  string    `json:"join_code"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterRequest is the request body for user registration. When JoinCode
// is set the user joins an existing household; otherwise a new household is
// created (named HouseholdName, or after the user).
type RegisterRequest struct {
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	Username      *string `json:"username,omitempty"`
	HouseholdName string  `json:"household_name,omitempty"`
	JoinCode      string  `json:"join_code,omitempty"`
}

// LoginRequest is the request body for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned after successful login/register
type AuthResponse struct {
	Token     string     `json:"token"`
	User      *User      `json:"user"`
	Household *Household `json:"household,omitempty"`
}
