package domain

import "time"

// AuditAction identifies the account operation an audit event records.
type AuditAction string

const (
	AuditSignup        AuditAction = "signup"
	AuditLogin         AuditAction = "login"
	AuditProfileUpdate AuditAction = "profile_update"
	AuditUserDeleted   AuditAction = "user_deleted"
)

// AuditEvent is an append-only record of a completed account operation.
// Events are persisted asynchronously and never influence request outcomes.
type AuditEvent struct {
	ID      string      `json:"id" bson:"_id"`
	UserID  string      `json:"user_id" bson:"user_id"`
	Action  AuditAction `json:"action" bson:"action"`
	Email   string      `json:"email,omitempty" bson:"email,omitempty"`
	ActorID string      `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
	At      time.Time   `json:"at" bson:"at"`
}
