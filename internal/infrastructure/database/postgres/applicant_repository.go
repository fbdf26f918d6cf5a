package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"loan-intake/internal/domain/applicant"
	"loan-intake/internal/pkg/apperrors"
)

const applicantColumns = `id, full_name, age, gender, marital_status, email, phone_number, created_at, updated_at`

const (
	selectApplicantByEmailSQL = `SELECT ` + applicantColumns + ` FROM applicants WHERE email = $1`

	selectApplicantByIDSQL = `SELECT ` + applicantColumns + ` FROM applicants WHERE id = $1`

	insertApplicantSQL = `
	INSERT INTO applicants (id, full_name, age, gender, marital_status, email, phone_number, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	// The no-op update makes RETURNING yield the existing row on conflict.
	upsertApplicantSQL = `
	INSERT INTO applicants (id, full_name, age, gender, marital_status, email, phone_number, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
	RETURNING ` + applicantColumns
)

type ApplicantRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ applicant.Repository = (*ApplicantRepository)(nil)

func NewApplicantRepository(db DBPool, logger *slog.Logger) *ApplicantRepository {
	return &ApplicantRepository{db: db, logger: logger.With("component", "ApplicantRepository")}
}

func scanApplicant(row pgx.Row) (*applicant.Applicant, error) {
	var a applicant.Applicant
	err := row.Scan(
		&a.ID, &a.FullName, &a.Age, &a.Gender, &a.MaritalStatus,
		&a.Email, &a.PhoneNumber, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ApplicantRepository) FindByEmailInTx(ctx context.Context, tx pgx.Tx, email string) (*applicant.Applicant, error) {
	start := time.Now()
	a, err := scanApplicant(tx.QueryRow(ctx, selectApplicantByEmailSQL, applicant.NormalizeEmail(email)))
	observe("FindApplicantByEmail", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to find applicant by email", "error", err)
		return nil, translateDBError(err, r.logger)
	}
	return a, nil
}

func (r *ApplicantRepository) CreateInTx(ctx context.Context, tx pgx.Tx, a *applicant.Applicant) (*applicant.Applicant, error) {
	start := time.Now()
	_, err := tx.Exec(ctx, insertApplicantSQL,
		a.ID, a.FullName, a.Age, a.Gender, a.MaritalStatus, a.Email, a.PhoneNumber, a.CreatedAt, a.UpdatedAt,
	)
	observe("InsertApplicant", start, err)

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to insert applicant due to unique constraint violation")
			return nil, translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to insert applicant", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to insert applicant: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Applicant inserted successfully", slog.String("applicantId", a.ID.String()))
	return a, nil
}

func (r *ApplicantRepository) UpsertByEmailInTx(ctx context.Context, tx pgx.Tx, a *applicant.Applicant) (*applicant.Applicant, error) {
	start := time.Now()
	stored, err := scanApplicant(tx.QueryRow(ctx, upsertApplicantSQL,
		a.ID, a.FullName, a.Age, a.Gender, a.MaritalStatus, a.Email, a.PhoneNumber, a.CreatedAt, a.UpdatedAt,
	))
	observe("UpsertApplicant", start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to upsert applicant", slog.Any("error", err))
		return nil, translateDBError(err, r.logger)
	}
	return stored, nil
}

func (r *ApplicantRepository) FindByID(ctx context.Context, id uuid.UUID) (*applicant.Applicant, error) {
	start := time.Now()
	a, err := scanApplicant(r.db.QueryRow(ctx, selectApplicantByIDSQL, id))
	observe("FindApplicantByID", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Applicant not found", "applicantId", id)
			return nil, apperrors.ErrNotFound
		}
		return nil, translateDBError(err, r.logger)
	}
	return a, nil
}
