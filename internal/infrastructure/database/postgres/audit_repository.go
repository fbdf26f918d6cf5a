package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"loan-intake/internal/domain/audit"
	"loan-intake/internal/pkg/apperrors"
)

const (
	insertAuditEntrySQL = `
	INSERT INTO application_audit_logs (id, loan_application_id, status_changed_to, changed_by, notes, created_at)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`

	selectAuditEntriesSQL = `
	SELECT id, loan_application_id, status_changed_to, changed_by, COALESCE(notes, ''), created_at
	FROM application_audit_logs
	WHERE loan_application_id = $1
	ORDER BY created_at ASC, id ASC`
)

// AuditRepository only inserts and reads; audit rows are immutable.
type AuditRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ audit.Repository = (*AuditRepository)(nil)

func NewAuditRepository(db DBPool, logger *slog.Logger) *AuditRepository {
	return &AuditRepository{db: db, logger: logger.With("component", "AuditRepository")}
}

func (r *AuditRepository) AppendInTx(ctx context.Context, tx pgx.Tx, e *audit.Entry) error {
	start := time.Now()
	_, err := tx.Exec(ctx, insertAuditEntrySQL, e.ID, e.ApplicationID, e.StatusChangedTo, e.ChangedBy, e.Notes, e.CreatedAt)
	observe("InsertAuditEntry", start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert audit entry", "applicationId", e.ApplicationID, "error", err)
		return translateDBError(err, r.logger)
	}
	return nil
}

func (r *AuditRepository) ListByApplicationID(ctx context.Context, applicationID uuid.UUID) ([]audit.Entry, error) {
	start := time.Now()
	rows, err := r.db.Query(ctx, selectAuditEntriesSQL, applicationID)
	if err != nil {
		observe("ListAuditEntries", start, err)
		r.logger.ErrorContext(ctx, "Failed to query audit entries", "applicationId", applicationID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	entries := make([]audit.Entry, 0)
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.ID, &e.ApplicationID, &e.StatusChangedTo, &e.ChangedBy, &e.Notes, &e.CreatedAt); err != nil {
			observe("ListAuditEntries", start, err)
			r.logger.ErrorContext(ctx, "Failed to scan audit entry", "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		entries = append(entries, e)
	}
	err = rows.Err()
	observe("ListAuditEntries", start, err)
	if err != nil {
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return entries, nil
}
