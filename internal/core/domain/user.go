package domain

import (
	"errors"
	"strings"
	"time"
)

// Roles a user account may carry. Role is informational; access-control
// decisions are made exclusively on the IsAdmin flag, which is derived from
// the requested role at signup and never recomputed afterwards.
const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

var ErrValidation = errors.New("missing required fields")
var ErrInvalidRole = errors.New("invalid role")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrUserNotFound = errors.New("user not found")
var ErrNotAdmin = errors.New("not authorized as admin")

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleManager:
		return true
	}
	return false
}

// NormalizeEmail lowercases and trims an email address so that lookups and
// the unique index agree on a single canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Public returns a copy of the user with the password hash cleared. The JSON
// tag on PasswordHash already hides it from serialization; clearing the field
// keeps copies handed to caches clean as well.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}
