package dto

import "loan-intake/internal/pkg/apperrors"

// ErrorResponse is the body of every 4xx response.
type ErrorResponse struct {
	Error     string                     `json:"error"`
	Field     string                     `json:"field,omitempty"`
	Errors    []apperrors.FieldViolation `json:"errors,omitempty"`
	LoanLimit *int64                     `json:"loanLimit,omitempty"`
}

type ErrorDetail struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// InternalErrorResponse is returned for unexpected failures.
type InternalErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
