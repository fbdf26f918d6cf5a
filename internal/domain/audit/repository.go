package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository is append-only: entries are never updated or deleted.
type Repository interface {
	AppendInTx(ctx context.Context, tx pgx.Tx, entry *Entry) error

	ListByApplicationID(ctx context.Context, applicationID uuid.UUID) ([]Entry, error)
}
