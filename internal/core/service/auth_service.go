package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/password"
	"github.com/accounthub/user-service/internal/core/ports"
	"github.com/accounthub/user-service/internal/core/token"
	"github.com/accounthub/user-service/internal/infrastructure/metrics"
)

// AuthService implements signup and login.
type AuthService struct {
	repo   ports.UserRepository
	hasher *password.Hasher
	tokens *token.Manager
	audit  ports.AuditRecorder
	logger zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, hasher *password.Hasher, tokens *token.Manager, audit ports.AuditRecorder, logger zerolog.Logger) *AuthService {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, audit: audit, logger: logger}
}

func (s *AuthService) Signup(ctx context.Context, input ports.SignupInput) (*domain.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrValidation
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	email := domain.NormalizeEmail(input.Email)

	// Pre-check for a friendlier error; the unique index on email is the
	// actual guarantee against a concurrent create with the same address.
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, domain.ErrUserExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	start := time.Now()
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsAdmin:      role == domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	metrics.SignupsTotal.WithLabelValues(created.Role).Inc()
	s.audit.Record(domain.AuditEvent{UserID: created.ID, Action: domain.AuditSignup, Email: created.Email, At: now})

	return created.Public(), nil
}

func (s *AuthService) Login(ctx context.Context, email, pass string) (string, error) {
	if email == "" || pass == "" {
		return "", domain.ErrValidation
	}

	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	ok, err := s.hasher.Verify(pass, user.PasswordHash)
	if err != nil {
		return "", err
	}
	if !ok {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", domain.ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("login successful")
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.audit.Record(domain.AuditEvent{UserID: user.ID, Action: domain.AuditLogin, Email: user.Email, At: time.Now().UTC()})

	return signed, nil
}
