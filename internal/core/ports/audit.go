package ports

import (
	"context"

	"github.com/accounthub/user-service/internal/core/domain"
)

// AuditRecorder accepts audit events for asynchronous persistence. Record
// must not block the request path and must never fail the operation being
// audited.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// NopAuditRecorder discards events. Used where auditing is not wired, e.g.
// in tests.
type NopAuditRecorder struct{}

func (NopAuditRecorder) Record(domain.AuditEvent) {}

// ProfileCache is a short-lived cache of public user projections keyed by
// user id. A miss is reported as (nil, nil); cache errors are advisory and
// never fail the read path.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
	Invalidate(ctx context.Context, userID string) error
}
