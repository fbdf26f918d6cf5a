package apperrors

import (
	"errors"
	"testing"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "With Code",
			appError: &AppError{
				Code:    "TEST_CODE",
				Message: "This is a test error",
			},
			expected: "[TEST_CODE] This is a test error",
		},
		{
			name: "Without Code",
			appError: &AppError{
				Message: "This is a test error without code",
			},
			expected: "This is a test error without code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestValidationErrorsError(t *testing.T) {
	err := NewValidationErrors([]FieldViolation{
		{Field: "age", Message: "Age must be between 18 and 100"},
		{Field: "email", Message: "Invalid email address"},
	})

	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected error to wrap ErrValidation")
	}

	expected := "validation failed: age: Age must be between 18 and 100; email: Invalid email address"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}

	var verrs *ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected *ValidationErrors")
	}
	if len(verrs.Violations) != 2 {
		t.Errorf("expected 2 violations, got %d", len(verrs.Violations))
	}
}

func TestLimitExceededError(t *testing.T) {
	var err error = &LimitExceededError{Limit: 50000, Requested: 60000}

	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected error to wrap ErrLimitExceeded")
	}

	var limitErr *LimitExceededError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected *LimitExceededError")
	}
	if limitErr.Limit != 50000 {
		t.Errorf("expected limit 50000, got %d", limitErr.Limit)
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("status", "Invalid status")

	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected error to wrap ErrValidation")
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError")
	}
	if vErr.Field != "status" {
		t.Errorf("expected field status, got %q", vErr.Field)
	}
}
