package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"loan-intake/internal/domain/applicant"
	"loan-intake/internal/domain/audit"
	"loan-intake/internal/event"
	"loan-intake/internal/infrastructure/monitoring"
	"loan-intake/internal/pkg/apperrors"
)

const defaultStorageTimeout = 10 * time.Second

type Options struct {
	// EnforceTransitions restricts status updates to pending -> approved|rejected.
	EnforceTransitions bool
	StorageTimeout     time.Duration
}

type ApplicationDetails struct {
	Application *Application
	Applicant   *applicant.Applicant
}

type IntakeService interface {
	Submit(ctx context.Context, sub *Submission) (*Application, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status, actor, notes string) (*Application, error)

	GetApplication(ctx context.Context, id uuid.UUID) (*ApplicationDetails, error)

	AuditTrail(ctx context.Context, id uuid.UUID) ([]audit.Entry, error)

	CalculateSchedule(principal float64, tenureMonths int, ratePercent float64) Schedule

	CalculateLimit(collateralType string, forcedSaleValue, monthlyIncome float64) int64
}

var _ IntakeService = (*intakeService)(nil)

type intakeService struct {
	repo       Repository
	applicants applicant.ApplicantService
	trail      audit.TrailManager
	docs       DocumentStore
	validator  *Validator
	publisher  event.EventPublisher
	opts       Options
	logger     *slog.Logger
}

func NewIntakeService(
	repo Repository,
	applicants applicant.ApplicantService,
	trail audit.TrailManager,
	docs DocumentStore,
	validator *Validator,
	publisher event.EventPublisher,
	opts Options,
	logger *slog.Logger,
) IntakeService {
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = defaultStorageTimeout
	}
	if validator == nil {
		validator = NewValidator(DefaultMaxFileBytes)
	}
	return &intakeService{
		repo:       repo,
		applicants: applicants,
		trail:      trail,
		docs:       docs,
		validator:  validator,
		publisher:  publisher,
		opts:       opts,
		logger:     logger.With(slog.String("component", "intakeService")),
	}
}

func (s *intakeService) Submit(ctx context.Context, sub *Submission) (app *Application, err error) {
	defer func() { monitoring.RecordApplication(outcome(err)) }()

	if violations := s.validator.Validate(sub); len(violations) > 0 {
		s.logger.InfoContext(ctx, "Submission rejected by validation", "violations", len(violations))
		return nil, apperrors.NewValidationErrors(violations)
	}

	collateral := sub.Collateral()
	amount := *sub.LoanAmount
	limit := ComputeLoanLimit(collateral.Type, valueOrZero(collateral.ForcedSaleValue), valueOrZero(collateral.MonthlyIncome))
	if amount > float64(limit) {
		s.logger.InfoContext(ctx, "Submission rejected by loan limit", "loanAmount", amount, "loanLimit", limit)
		return nil, &apperrors.LimitExceededError{Limit: limit, Requested: amount}
	}

	schedule := ComputeInstallmentSchedule(amount, *sub.LoanTenure, *sub.InterestRate)

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StorageTimeout)
	defer cancel()

	docs, err := s.saveDocuments(storeCtx, sub)
	if err != nil {
		return nil, s.storageFailure(storeCtx, "failed to store documents", err)
	}

	app = newApplication(sub, collateral, schedule, limit, docs)
	candidate := applicant.NewApplicant(sub.FullName, *sub.Age, sub.Gender, sub.MaritalStatus, sub.Email, sub.PhoneNumber)

	stored, err := s.persist(storeCtx, candidate, app)
	if err != nil {
		s.discard(ctx, docs.Filenames())
		return nil, s.storageFailure(storeCtx, "failed to persist application", err)
	}

	s.logger.InfoContext(ctx, "Loan application submitted",
		"applicationId", app.ID, "applicantId", stored.ID, "loanAmount", app.LoanAmount, "loanLimit", limit)

	s.publishSubmitted(ctx, app, stored)
	return app, nil
}

func (s *intakeService) saveDocuments(ctx context.Context, sub *Submission) (Documents, error) {
	var docs Documents
	saved := make([]string, 0, len(sub.Uploads()))

	for _, u := range sub.Uploads() {
		name, err := s.docs.Save(ctx, u)
		if err != nil {
			s.discard(ctx, saved)
			return Documents{}, err
		}
		saved = append(saved, name)

		switch u.Field {
		case "idUpload":
			docs.NationalID = name
		case "valuationReport":
			docs.ValuationReport = name
		default:
			docs.BankStatements = append(docs.BankStatements, name)
		}
	}
	return docs, nil
}

func (s *intakeService) persist(ctx context.Context, candidate *applicant.Applicant, app *Application) (stored *applicant.Applicant, err error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = s.repo.RollbackTx(context.WithoutCancel(ctx), tx)
		}
	}()

	stored, err = s.applicants.ResolveInTx(ctx, tx, candidate)
	if err != nil {
		return nil, err
	}
	app.ApplicantID = stored.ID

	if err = s.repo.CreateInTx(ctx, tx, app); err != nil {
		return nil, err
	}

	if _, err = s.trail.RecordTransition(ctx, tx, app.ID, string(StatusPending), audit.DefaultActor, audit.InitialNotes); err != nil {
		return nil, err
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, err
	}
	return stored, nil
}

// storageFailure keeps duplicate and database errors as they are and maps
// timeouts and anything else to a generic failure.
func (s *intakeService) storageFailure(ctx context.Context, msg string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		s.logger.ErrorContext(ctx, msg+": storage timed out", "error", err)
		return fmt.Errorf("%w: %s: %w", apperrors.ErrDatabase, msg, ctxErr)
	}

	s.logger.ErrorContext(ctx, msg, "error", err)
	if errors.Is(err, apperrors.ErrAlreadyExists) || errors.Is(err, apperrors.ErrDatabase) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", apperrors.ErrInternalServer, msg, err)
}

func (s *intakeService) discard(ctx context.Context, filenames []string) {
	if len(filenames) == 0 {
		return
	}
	if err := s.docs.Remove(context.WithoutCancel(ctx), filenames...); err != nil {
		s.logger.WarnContext(ctx, "Failed to remove stored documents", "files", filenames, "error", err)
		return
	}
	monitoring.RecordDocumentsRemoved(len(filenames))
}

func (s *intakeService) UpdateStatus(ctx context.Context, id uuid.UUID, status, actor, notes string) (app *Application, err error) {
	newStatus, ok := ParseStatus(status)
	if !ok {
		return nil, apperrors.NewValidationError("status", "Status must be one of pending, approved, rejected")
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StorageTimeout)
	defer cancel()

	tx, err := s.repo.BeginTx(storeCtx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = s.repo.RollbackTx(context.WithoutCancel(storeCtx), tx)
		}
	}()

	app, err = s.repo.GetByIDForUpdate(storeCtx, tx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: loan application %s not found", apperrors.ErrNotFound, id)
		}
		return nil, err
	}

	oldStatus := app.Status
	if s.opts.EnforceTransitions && !transitionAllowed(oldStatus, newStatus) {
		s.logger.WarnContext(ctx, "Rejected status transition", "applicationId", id, "from", oldStatus, "to", newStatus)
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, oldStatus, newStatus)
	}

	now := time.Now().UTC()
	if err = s.repo.UpdateStatusInTx(storeCtx, tx, id, newStatus, now); err != nil {
		return nil, err
	}

	entry, err := s.trail.RecordTransition(storeCtx, tx, id, string(newStatus), actor, notes)
	if err != nil {
		return nil, err
	}

	if err = s.repo.CommitTx(storeCtx, tx); err != nil {
		return nil, err
	}

	app.Status = newStatus
	app.UpdatedAt = now
	monitoring.RecordStatusChange(string(newStatus))
	s.logger.InfoContext(ctx, "Loan application status updated",
		"applicationId", id, "from", oldStatus, "to", newStatus, "changedBy", entry.ChangedBy)

	if pubErr := s.publisher.PublishApplicationStatusChanged(ctx, event.ApplicationStatusChangedEvent{
		ApplicationID: id.String(),
		OldStatus:     string(oldStatus),
		NewStatus:     string(newStatus),
		ChangedBy:     entry.ChangedBy,
		Notes:         entry.Notes,
		Timestamp:     entry.CreatedAt,
	}); pubErr != nil {
		s.logger.WarnContext(ctx, "Failed to publish status change event", "applicationId", id, "error", pubErr)
	}
	return app, nil
}

func transitionAllowed(from, to Status) bool {
	return from == StatusPending && (to == StatusApproved || to == StatusRejected)
}

func (s *intakeService) GetApplication(ctx context.Context, id uuid.UUID) (*ApplicationDetails, error) {
	app, err := s.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	a, err := s.applicants.GetApplicant(ctx, app.ApplicantID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Application references missing applicant", "applicationId", id, "applicantId", app.ApplicantID, "error", err)
		return nil, err
	}
	return &ApplicationDetails{Application: app, Applicant: a}, nil
}

func (s *intakeService) AuditTrail(ctx context.Context, id uuid.UUID) ([]audit.Entry, error) {
	if _, err := s.getApplication(ctx, id); err != nil {
		return nil, err
	}
	return s.trail.History(ctx, id)
}

func (s *intakeService) getApplication(ctx context.Context, id uuid.UUID) (*Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: loan application %s not found", apperrors.ErrNotFound, id)
		}
		return nil, err
	}
	return app, nil
}

func (s *intakeService) CalculateSchedule(principal float64, tenureMonths int, ratePercent float64) Schedule {
	return ComputeInstallmentSchedule(principal, tenureMonths, ratePercent)
}

func (s *intakeService) CalculateLimit(collateralType string, forcedSaleValue, monthlyIncome float64) int64 {
	ct := CollateralType(strings.ToLower(strings.TrimSpace(collateralType)))
	return ComputeLoanLimit(ct, forcedSaleValue, monthlyIncome)
}

func (s *intakeService) publishSubmitted(ctx context.Context, app *Application, a *applicant.Applicant) {
	err := s.publisher.PublishApplicationSubmitted(ctx, event.ApplicationSubmittedEvent{
		Timestamp: time.Now().UTC(),
		Payload: event.ApplicationPayload{
			ApplicationID: app.ID.String(),
			ApplicantID:   a.ID.String(),
			Email:         a.Email,
			LoanAmount:    app.LoanAmount,
			TenureMonths:  app.TenureMonths,
			MaxLoanLimit:  app.MaxLoanLimit,
			Status:        string(app.Status),
			CreatedAt:     app.CreatedAt,
		},
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish application submitted event", "applicationId", app.ID, "error", err)
	}
}

func newApplication(sub *Submission, collateral Collateral, schedule Schedule, limit int64, docs Documents) *Application {
	now := time.Now().UTC()
	return &Application{
		ID:              uuid.New(),
		LoanAmount:      *sub.LoanAmount,
		Purpose:         strings.TrimSpace(sub.LoanPurpose),
		TenureMonths:    *sub.LoanTenure,
		InterestRate:    *sub.InterestRate,
		MonthlyInterest: schedule.MonthlyInterest.InexactFloat64(),
		MonthlyPayment:  schedule.MonthlyPayment.InexactFloat64(),
		TotalPayment:    schedule.TotalPayment.InexactFloat64(),
		TotalInterest:   schedule.TotalInterest.InexactFloat64(),
		MaxLoanLimit:    limit,
		Status:          StatusPending,
		Collateral:      collateral,
		Documents:       docs,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return monitoring.OutcomeAccepted
	case errors.Is(err, apperrors.ErrValidation):
		return monitoring.OutcomeInvalid
	case errors.Is(err, apperrors.ErrLimitExceeded):
		return monitoring.OutcomeLimitExceeded
	case errors.Is(err, apperrors.ErrAlreadyExists):
		return monitoring.OutcomeDuplicate
	default:
		return monitoring.OutcomeError
	}
}
