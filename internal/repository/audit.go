package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/userdock/userdock/internal/model"
)

// AuditRepository provides database access for audit events.
type AuditRepository struct {
	repo *Repository
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(repo *Repository) *AuditRepository {
	return &AuditRepository{repo: repo}
}

// BulkInsert inserts multiple audit events with idempotency via ON CONFLICT DO NOTHING.
// The Redis stream ID doubles as the idempotency key so redelivered batches
// do not duplicate rows.
func (r *AuditRepository) BulkInsert(ctx context.Context, events []*model.AuditEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}

	query := `
		INSERT INTO audit_events (id, event_id, action, user_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id) DO NOTHING
	`

	for _, event := range events {
		batch.Queue(query,
			event.ID,
			event.EventID,
			event.Action,
			event.UserID,
			event.OccurredAt,
		)
	}

	results := r.repo.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(events); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert event %d: %w", i, err)
		}
	}

	return nil
}
