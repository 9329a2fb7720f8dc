package model

import "time"

// Audit actions recorded for user mutations.
const (
	AuditActionCreated = "user.created"
	AuditActionUpdated = "user.updated"
	AuditActionDeleted = "user.deleted"
)

// AuditEvent is a persisted record of a committed user mutation.
type AuditEvent struct {
	ID         string    // ULID, assigned by the worker
	EventID    string    // Redis stream ID, used as idempotency key
	Action     string    // one of the AuditAction constants
	UserID     int64     // id of the affected user
	OccurredAt time.Time // when the mutation committed
}
