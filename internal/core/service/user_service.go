package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/password"
	"github.com/accounthub/user-service/internal/core/ports"
	"github.com/accounthub/user-service/internal/infrastructure/metrics"
)

// UserService implements the profile and admin operations.
type UserService struct {
	repo   ports.UserRepository
	hasher *password.Hasher
	cache  ports.ProfileCache
	audit  ports.AuditRecorder
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher *password.Hasher, cache ports.ProfileCache, audit ports.AuditRecorder, logger zerolog.Logger) *UserService {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &UserService{repo: repo, hasher: hasher, cache: cache, audit: audit, logger: logger}
}

// GetProfile returns the public projection for userID. The cache keeps the
// hot path off Mongo; a cache failure degrades to a direct read.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("profile cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, user.Public()); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("profile cache write failed")
		}
	}
	return user.Public(), nil
}

// UpdateProfile applies a partial patch: omitted fields keep their prior
// values, and a provided password is re-hashed before persisting.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input ports.UpdateProfileInput) (*domain.User, error) {
	patch := ports.UserPatch{Name: input.Name}
	if input.Email != "" {
		patch.Email = domain.NormalizeEmail(input.Email)
	}
	if input.Password != "" {
		start := time.Now()
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
		patch.PasswordHash = hash
	}

	updated, err := s.repo.Update(ctx, userID, patch)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.logger.Info().Str("user_id", userID).Msg("profile updated")
	s.audit.Record(domain.AuditEvent{UserID: userID, Action: domain.AuditProfileUpdate, Email: updated.Email, At: time.Now().UTC()})

	return updated.Public(), nil
}

// ListUsers returns all records, hashes excluded. Admin-gated here as well
// as at the route: the service does not trust its transport.
func (s *UserService) ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if actor == nil || !actor.IsAdmin {
		return nil, domain.ErrNotAdmin
	}

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	metrics.AdminActionsTotal.WithLabelValues("list_users").Inc()
	return users, nil
}

// DeleteUser permanently removes the target record.
func (s *UserService) DeleteUser(ctx context.Context, actor *domain.User, targetID string) error {
	if actor == nil || !actor.IsAdmin {
		return domain.ErrNotAdmin
	}

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, target.ID); err != nil {
		return err
	}

	s.invalidate(ctx, target.ID)
	s.logger.Info().Str("user_id", target.ID).Str("actor_id", actor.ID).Msg("user deleted")
	metrics.AdminActionsTotal.WithLabelValues("delete_user").Inc()
	s.audit.Record(domain.AuditEvent{UserID: target.ID, Action: domain.AuditUserDeleted, Email: target.Email, ActorID: actor.ID, At: time.Now().UTC()})

	return nil
}

func (s *UserService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("profile cache invalidation failed")
	}
}
