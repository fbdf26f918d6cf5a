package loan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Repository interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, app *Application) error

	GetByID(ctx context.Context, id uuid.UUID) (*Application, error)

	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*Application, error)

	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status Status, updatedAt time.Time) error

	IsDocumentReferenced(ctx context.Context, filename string) (bool, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error
}

// DocumentStore persists received uploads outside the database.
type DocumentStore interface {
	// Save stores the upload and returns the generated filename.
	Save(ctx context.Context, upload Upload) (string, error)

	// Remove deletes stored files. Missing files are not an error.
	Remove(ctx context.Context, filenames ...string) error
}
