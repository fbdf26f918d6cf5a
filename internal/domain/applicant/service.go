package applicant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"loan-intake/internal/pkg/apperrors"
)

// Find-or-create strategies.
const (
	ModeLookup = "lookup"
	ModeAtomic = "atomic"
)

type ApplicantService interface {
	// ResolveInTx returns the stored applicant for candidate's email,
	// creating it when absent. The stored profile is never overwritten.
	ResolveInTx(ctx context.Context, tx pgx.Tx, candidate *Applicant) (*Applicant, error)

	GetApplicant(ctx context.Context, id uuid.UUID) (*Applicant, error)
}

var _ ApplicantService = (*applicantService)(nil)

type applicantService struct {
	repo   Repository
	mode   string
	logger *slog.Logger
}

func NewApplicantService(repo Repository, mode string, logger *slog.Logger) ApplicantService {
	if repo == nil {
		panic("applicant repository cannot be nil")
	}
	if mode != ModeAtomic {
		mode = ModeLookup
	}
	return &applicantService{
		repo:   repo,
		mode:   mode,
		logger: logger.With(slog.String("component", "applicantService"), slog.String("mode", mode)),
	}
}

func (s *applicantService) ResolveInTx(ctx context.Context, tx pgx.Tx, candidate *Applicant) (*Applicant, error) {
	if s.mode == ModeAtomic {
		a, err := s.repo.UpsertByEmailInTx(ctx, tx, candidate)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to upsert applicant", "error", err)
			return nil, err
		}
		return a, nil
	}

	existing, err := s.repo.FindByEmailInTx(ctx, tx, candidate.Email)
	switch {
	case err == nil:
		s.logger.DebugContext(ctx, "Reusing existing applicant", "applicantId", existing.ID)
		return existing, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		s.logger.ErrorContext(ctx, "Failed to look up applicant by email", "error", err)
		return nil, err
	}

	created, err := s.repo.CreateInTx(ctx, tx, candidate)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create applicant", "error", err)
		return nil, err
	}
	s.logger.InfoContext(ctx, "Applicant created", "applicantId", created.ID)
	return created, nil
}

func (s *applicantService) GetApplicant(ctx context.Context, id uuid.UUID) (*Applicant, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: applicant %s not found", apperrors.ErrNotFound, id)
		}
		return nil, err
	}
	return a, nil
}
