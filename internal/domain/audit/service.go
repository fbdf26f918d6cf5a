package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TrailManager interface {
	RecordTransition(ctx context.Context, tx pgx.Tx, applicationID uuid.UUID, status, actor, notes string) (*Entry, error)

	History(ctx context.Context, applicationID uuid.UUID) ([]Entry, error)
}

var _ TrailManager = (*trailManager)(nil)

type trailManager struct {
	repo   Repository
	logger *slog.Logger
}

func NewTrailManager(repo Repository, logger *slog.Logger) TrailManager {
	return &trailManager{repo: repo, logger: logger.With(slog.String("component", "auditTrail"))}
}

func (m *trailManager) RecordTransition(ctx context.Context, tx pgx.Tx, applicationID uuid.UUID, status, actor, notes string) (*Entry, error) {
	entry := NewEntry(applicationID, status, actor, notes)
	if err := m.repo.AppendInTx(ctx, tx, entry); err != nil {
		m.logger.ErrorContext(ctx, "Failed to append audit entry", "applicationId", applicationID, "status", status, "error", err)
		return nil, fmt.Errorf("failed to record transition: %w", err)
	}
	m.logger.InfoContext(ctx, "Recorded status transition",
		"applicationId", applicationID, "status", status, "changedBy", entry.ChangedBy)
	return entry, nil
}

func (m *trailManager) History(ctx context.Context, applicationID uuid.UUID) ([]Entry, error) {
	entries, err := m.repo.ListByApplicationID(ctx, applicationID)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to list audit entries", "applicationId", applicationID, "error", err)
		return nil, err
	}
	return entries, nil
}
