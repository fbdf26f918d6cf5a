package applicant

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Repository interface {
	FindByEmailInTx(ctx context.Context, tx pgx.Tx, email string) (*Applicant, error)

	CreateInTx(ctx context.Context, tx pgx.Tx, a *Applicant) (*Applicant, error)

	// UpsertByEmailInTx inserts the applicant or returns the existing row for its email.
	UpsertByEmailInTx(ctx context.Context, tx pgx.Tx, a *Applicant) (*Applicant, error)

	FindByID(ctx context.Context, id uuid.UUID) (*Applicant, error)
}
