package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"loan-intake/internal/api/handler/dto"
	mw "loan-intake/internal/api/middleware"
	"loan-intake/internal/domain/loan"
	"loan-intake/internal/pkg/apperrors"
)

const (
	defaultMaxUploadBytes int64 = 20 << 20
	multipartMemory       int64 = 8 << 20
)

type ApplicationHandler struct {
	service        loan.IntakeService
	maxUploadBytes int64
	errs           errorWriter
	logger         *slog.Logger
}

func NewApplicationHandler(s loan.IntakeService, maxUploadBytes int64, exposeDetails bool, l *slog.Logger) *ApplicationHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	logger := l.With("component", "ApplicationHandler")
	return &ApplicationHandler{
		service:        s,
		maxUploadBytes: maxUploadBytes,
		errs:           errorWriter{exposeDetails: exposeDetails, logger: logger},
		logger:         logger,
	}
}

func applicationIDFromURL(r *http.Request) (uuid.UUID, error) {
	idStr := chi.URLParam(r, "applicationID")
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%w: application id not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid application id %q", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// SubmitApplication accepts the multipart intake form. Received files live
// only in the parsed form until the service decides to store them, and the
// form's temporary files are always removed before returning.
//
// @Summary Submit a loan application
// @Tags Applications
// @Accept multipart/form-data
// @Produce json
// @Param Idempotency-Key header string false "Replays the stored response when repeated"
// @Param idUpload formData file true "National ID scan"
// @Success 201 {object} dto.SubmitResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or amount above the loan limit"
// @Failure 409 {object} dto.ErrorResponse "Email or phone number already registered"
// @Failure 413 {object} dto.ErrorResponse
// @Failure 500 {object} dto.InternalErrorResponse
// @Router /api/loan-application [post]
func (h *ApplicationHandler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if !errors.As(err, &maxBytesErr) {
			err = fmt.Errorf("%w: malformed multipart form: %v", apperrors.ErrInvalidArgument, err)
		}
		h.errs.respondError(w, r, err)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.WarnContext(r.Context(), "Failed to remove multipart temporaries", "error", err)
		}
	}()

	app, err := h.service.Submit(r.Context(), newSubmission(r.MultipartForm))
	if err != nil {
		h.errs.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.SubmitResponse{
		Message:       dto.SubmittedMessage,
		ApplicationID: app.ID.String(),
	})
}

// GetApplication returns an application with its applicant.
//
// @Summary Retrieve a loan application
// @Tags Applications
// @Produce json
// @Param applicationID path string true "Application ID"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/loan-application/{applicationID} [get]
// @Security BearerAuth
func (h *ApplicationHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := applicationIDFromURL(r)
	if err != nil {
		h.errs.respondError(w, r, err)
		return
	}

	details, err := h.service.GetApplication(r.Context(), id)
	if err != nil {
		h.errs.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewApplicationResponse(details.Application, details.Applicant))
}

// @Summary List the status history of an application
// @Tags Applications
// @Produce json
// @Param applicationID path string true "Application ID"
// @Success 200 {object} dto.AuditTrailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/loan-application/{applicationID}/audit [get]
// @Security BearerAuth
func (h *ApplicationHandler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	id, err := applicationIDFromURL(r)
	if err != nil {
		h.errs.respondError(w, r, err)
		return
	}

	entries, err := h.service.AuditTrail(r.Context(), id)
	if err != nil {
		h.errs.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewAuditTrailResponse(id.String(), entries))
}

// UpdateStatus records a status change. Without changedBy in the body the
// token subject is used, and without either the audit entry reads "system".
//
// @Summary Update the status of an application
// @Tags Applications
// @Accept json
// @Produce json
// @Param applicationID path string true "Application ID"
// @Param request body dto.StatusUpdateRequest true "New status"
// @Success 200 {object} dto.StatusUpdateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Router /api/loan-application/{applicationID}/status [patch]
// @Security BearerAuth
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := applicationIDFromURL(r)
	if err != nil {
		h.errs.respondError(w, r, err)
		return
	}

	var req dto.StatusUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.respondError(w, r, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.errs.respondError(w, r, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	actor := req.ChangedBy
	if actor == "" {
		actor = mw.Subject(r.Context())
	}

	app, err := h.service.UpdateStatus(r.Context(), id, req.Status, actor, req.Notes)
	if err != nil {
		h.errs.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.StatusUpdateResponse{
		Message:     "Loan application status updated successfully",
		Application: dto.NewApplicationResponse(app, nil),
	})
}
