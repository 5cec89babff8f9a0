package ports

import (
	"context"

	"github.com/accounthub/user-service/internal/core/domain"
)

// SignupInput carries the data needed to register an account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	// Role is optional; empty defaults to "user".
	Role string
}

// UpdateProfileInput carries a partial profile patch. Empty fields retain
// their prior values; a non-empty Password is re-hashed before persisting.
type UpdateProfileInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService covers the unauthenticated account flows.
type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)
	// Login returns a signed bearer token on success. Unknown email and wrong
	// password are indistinguishable to the caller.
	Login(ctx context.Context, email, password string) (string, error)
}

// UserService covers the authenticated profile and admin flows. The actor is
// the identity resolved by the access middleware; admin-gated operations
// re-check actor.IsAdmin even though the route-level gate already did.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error)
	ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	DeleteUser(ctx context.Context, actor *domain.User, targetID string) error
}
