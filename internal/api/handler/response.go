package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"loan-intake/internal/api/handler/dto"
	"loan-intake/internal/pkg/apperrors"
)

const (
	maxJSONBodyBytes = 1 << 20

	unexpectedErrorMessage = "An unexpected error occurred."
	limitExceededMessage   = "Loan amount exceeds calculated loan limit"
	bodyTooLargeMessage    = "Request body too large"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// errorWriter maps domain errors to HTTP responses. Internal error text is
// only returned to the client when exposeDetails is set.
type errorWriter struct {
	exposeDetails bool
	logger        *slog.Logger
}

func (e errorWriter) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		limitErr      *apperrors.LimitExceededError
		violations    *apperrors.ValidationErrors
		fieldErr      *apperrors.ValidationError
		appErr        *apperrors.AppError
		maxBytesError *http.MaxBytesError
	)

	switch {
	case errors.As(err, &limitErr):
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: limitExceededMessage, LoanLimit: &limitErr.Limit})
	case errors.As(err, &violations):
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Errors: violations.Violations})
	case errors.As(err, &fieldErr):
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: fieldErr.Message, Field: fieldErr.Field})
	case errors.As(err, &maxBytesError):
		respondJSON(w, http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: bodyTooLargeMessage})
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		respondJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Loan application not found"})
	case errors.Is(err, apperrors.ErrAlreadyExists):
		message := "Resource already exists"
		if errors.As(err, &appErr) {
			message = appErr.Message
		}
		respondJSON(w, http.StatusConflict, dto.ErrorResponse{Error: message})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		respondJSON(w, http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		respondJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
	default:
		e.logger.ErrorContext(r.Context(), "Unhandled internal error", "path", r.URL.Path, "error", err)
		detail := dto.ErrorDetail{Message: unexpectedErrorMessage}
		if e.exposeDetails {
			detail.Details = err.Error()
		}
		respondJSON(w, http.StatusInternalServerError, dto.InternalErrorResponse{Error: detail})
	}
}
