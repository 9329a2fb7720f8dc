//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/userdock/userdock/internal/model"
)

func TestIntegrationAuditRepository_BulkInsert(t *testing.T) {
	ctx, repo := newUserTestEnv(t)
	auditRepo := NewAuditRepository(repo)

	now := time.Now().UTC().Truncate(time.Millisecond)
	events := []*model.AuditEvent{
		{ID: ulid.Make().String(), EventID: "1-0", Action: model.AuditActionCreated, UserID: 1, OccurredAt: now},
		{ID: ulid.Make().String(), EventID: "2-0", Action: model.AuditActionUpdated, UserID: 1, OccurredAt: now},
		{ID: ulid.Make().String(), EventID: "3-0", Action: model.AuditActionDeleted, UserID: 1, OccurredAt: now},
	}

	if err := auditRepo.BulkInsert(ctx, events); err != nil {
		t.Fatalf("BulkInsert failed: %v", err)
	}

	if got := countAuditEvents(t, repo); got != 3 {
		t.Errorf("expected 3 rows, got %d", got)
	}
}

func TestIntegrationAuditRepository_BulkInsert_Idempotent(t *testing.T) {
	ctx, repo := newUserTestEnv(t)
	auditRepo := NewAuditRepository(repo)

	event := &model.AuditEvent{
		ID:         ulid.Make().String(),
		EventID:    "42-0",
		Action:     model.AuditActionCreated,
		UserID:     7,
		OccurredAt: time.Now().UTC(),
	}

	if err := auditRepo.BulkInsert(ctx, []*model.AuditEvent{event}); err != nil {
		t.Fatalf("BulkInsert (first) failed: %v", err)
	}

	// Same stream id, fresh row id - simulates a redelivered batch.
	redelivered := *event
	redelivered.ID = ulid.Make().String()
	if err := auditRepo.BulkInsert(ctx, []*model.AuditEvent{&redelivered}); err != nil {
		t.Fatalf("BulkInsert (redelivery) failed: %v", err)
	}

	if got := countAuditEvents(t, repo); got != 1 {
		t.Errorf("expected 1 row after redelivery, got %d", got)
	}
}

func TestIntegrationAuditRepository_BulkInsert_Empty(t *testing.T) {
	ctx, repo := newUserTestEnv(t)
	auditRepo := NewAuditRepository(repo)

	if err := auditRepo.BulkInsert(ctx, nil); err != nil {
		t.Errorf("BulkInsert with no events should be a no-op, got: %v", err)
	}
}

func countAuditEvents(t *testing.T, repo *Repository) int {
	t.Helper()

	var count int
	row := repo.Pool().QueryRow(context.Background(), "SELECT COUNT(*) FROM audit_events")
	if err := row.Scan(&count); err != nil {
		t.Fatalf("count audit events: %v", err)
	}
	return count
}
