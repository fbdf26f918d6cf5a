package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"loan-intake/internal/domain/loan"
	"loan-intake/internal/pkg/apperrors"
)

const applicationColumns = `id, applicant_id, loan_amount, loan_purpose, tenure_months, interest_rate,
	monthly_interest, monthly_payment, total_payment, total_interest, max_loan_limit, status,
	collateral_type, forced_sale_value, monthly_income,
	national_id_doc, valuation_report_doc, bank_statement_docs, created_at, updated_at`

const (
	insertApplicationSQL = `
	INSERT INTO loan_applications (` + applicationColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	selectApplicationByIDSQL = `SELECT ` + applicationColumns + ` FROM loan_applications WHERE id = $1`

	selectApplicationForUpdateSQL = selectApplicationByIDSQL + ` FOR UPDATE`

	updateApplicationStatusSQL = `
	UPDATE loan_applications
	SET status = $1,
		updated_at = $2
	WHERE id = $3`

	documentReferencedSQL = `
	SELECT EXISTS (
		SELECT 1 FROM loan_applications
		WHERE national_id_doc = $1 OR valuation_report_doc = $1 OR $1 = ANY (bank_statement_docs)
	)`
)

type ApplicationRepository struct {
	txManager
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*ApplicationRepository)(nil)

func NewApplicationRepository(db DBPool, logger *slog.Logger) *ApplicationRepository {
	l := logger.With("component", "ApplicationRepository")
	return &ApplicationRepository{txManager: txManager{db: db, logger: l}, db: db, logger: l}
}

func scanApplication(row pgx.Row) (*loan.Application, error) {
	var app loan.Application
	err := row.Scan(
		&app.ID, &app.ApplicantID, &app.LoanAmount, &app.Purpose, &app.TenureMonths, &app.InterestRate,
		&app.MonthlyInterest, &app.MonthlyPayment, &app.TotalPayment, &app.TotalInterest, &app.MaxLoanLimit, &app.Status,
		&app.Collateral.Type, &app.Collateral.ForcedSaleValue, &app.Collateral.MonthlyIncome,
		&app.Documents.NationalID, &app.Documents.ValuationReport, &app.Documents.BankStatements,
		&app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) CreateInTx(ctx context.Context, tx pgx.Tx, app *loan.Application) error {
	start := time.Now()
	_, err := tx.Exec(ctx, insertApplicationSQL,
		app.ID, app.ApplicantID, app.LoanAmount, app.Purpose, app.TenureMonths, app.InterestRate,
		app.MonthlyInterest, app.MonthlyPayment, app.TotalPayment, app.TotalInterest, app.MaxLoanLimit, app.Status,
		app.Collateral.Type, app.Collateral.ForcedSaleValue, app.Collateral.MonthlyIncome,
		app.Documents.NationalID, app.Documents.ValuationReport, app.Documents.BankStatements,
		app.CreatedAt, app.UpdatedAt,
	)
	observe("InsertApplication", start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan application", "applicationId", app.ID, "error", err)
		return translateDBError(err, r.logger)
	}
	r.logger.InfoContext(ctx, "Loan application inserted", "applicationId", app.ID)
	return nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*loan.Application, error) {
	start := time.Now()
	app, err := scanApplication(r.db.QueryRow(ctx, selectApplicationByIDSQL, id))
	observe("GetApplicationByID", start, err)

	return r.found(ctx, id, app, err)
}

func (r *ApplicationRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*loan.Application, error) {
	start := time.Now()
	app, err := scanApplication(tx.QueryRow(ctx, selectApplicationForUpdateSQL, id))
	observe("GetApplicationForUpdate", start, err)

	return r.found(ctx, id, app, err)
}

func (r *ApplicationRepository) found(ctx context.Context, id uuid.UUID, app *loan.Application, err error) (*loan.Application, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan application not found", "applicationId", id)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan application", "applicationId", id, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return app, nil
}

func (r *ApplicationRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status loan.Status, updatedAt time.Time) error {
	start := time.Now()
	cmdTag, err := tx.Exec(ctx, updateApplicationStatusSQL, status, updatedAt, id)
	observe("UpdateApplicationStatus", start, err)

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update loan application status", "applicationId", id, "error", err)
		return fmt.Errorf("%w: failed to update status: %w", apperrors.ErrDatabase, err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Status update affected zero rows", "applicationId", id)
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) IsDocumentReferenced(ctx context.Context, filename string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, documentReferencedSQL, filename).Scan(&exists); err != nil {
		r.logger.ErrorContext(ctx, "Failed to check document reference", "filename", filename, "error", err)
		return false, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return exists, nil
}
