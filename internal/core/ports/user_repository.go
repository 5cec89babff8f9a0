package ports

import (
	"context"

	"github.com/accounthub/user-service/internal/core/domain"
)

// UserPatch carries the fields a profile update may change. Empty strings
// mean "leave unchanged"; the repository applies only the populated fields.
type UserPatch struct {
	Name         string
	Email        string
	PasswordHash string
}

// UserRepository is the persistence directory for user records. The backing
// store enforces email uniqueness atomically: a create (or update) colliding
// with an existing email fails with domain.ErrUserExists regardless of any
// application-level pre-check.
type UserRepository interface {
	// Create inserts a new user and returns it with its assigned identifier.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail returns the full record, password hash included; it is the
	// only read that exposes the hash, for credential verification.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns the record with the password hash excluded.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindAll returns every record, password hashes excluded.
	FindAll(ctx context.Context) ([]*domain.User, error)
	// Update applies patch to the identified user and returns the updated
	// record, password hash excluded.
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	// Delete permanently removes the record.
	Delete(ctx context.Context, id string) error
}
