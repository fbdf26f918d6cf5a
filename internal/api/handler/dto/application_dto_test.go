package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-intake/internal/domain/applicant"
	"loan-intake/internal/domain/audit"
	"loan-intake/internal/domain/loan"
)

func TestStatusUpdateRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request StatusUpdateRequest
		wantErr bool
	}{
		{"Approve", StatusUpdateRequest{Status: "approved"}, false},
		{"Mixed case", StatusUpdateRequest{Status: " Rejected "}, false},
		{"Empty status", StatusUpdateRequest{}, true},
		{"Unknown status", StatusUpdateRequest{Status: "archived"}, true},
		{"Notes too long", StatusUpdateRequest{Status: "approved", Notes: string(make([]byte, 1001))}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewApplicationResponse(t *testing.T) {
	fsv := 200000.0
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	app := &loan.Application{
		ID:              uuid.New(),
		ApplicantID:     uuid.New(),
		LoanAmount:      10000,
		Purpose:         "Stock for shop",
		TenureMonths:    12,
		InterestRate:    4.5,
		MonthlyInterest: 450,
		MonthlyPayment:  1283.33,
		TotalPayment:    15399.96,
		TotalInterest:   5400,
		MaxLoanLimit:    100000,
		Status:          loan.StatusPending,
		Collateral:      loan.Collateral{Type: loan.CollateralLand, ForcedSaleValue: &fsv},
		Documents:       loan.Documents{NationalID: "id.jpg", ValuationReport: "val.pdf"},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	a := applicant.NewApplicant("Jane Doe", 30, "female", "single", "jane@example.com", "+250788123456")

	resp := NewApplicationResponse(app, a)

	assert.Equal(t, app.ID.String(), resp.ID)
	assert.Equal(t, "10000.00", resp.LoanAmount)
	assert.Equal(t, "4.5", resp.InterestRate)
	assert.Equal(t, "1283.33", resp.MonthlyPayment)
	assert.Equal(t, "5400.00", resp.TotalInterest)
	assert.Equal(t, "pending", resp.Status)
	require.NotNil(t, resp.Collateral.ForcedSaleValue)
	assert.Equal(t, "200000.00", *resp.Collateral.ForcedSaleValue)
	assert.Nil(t, resp.Collateral.MonthlyIncome)
	assert.Equal(t, []string{}, resp.Documents.BankStatements)
	require.NotNil(t, resp.Applicant)
	assert.Equal(t, "jane@example.com", resp.Applicant.Email)

	resp = NewApplicationResponse(app, nil)
	assert.Nil(t, resp.Applicant)

	assert.Equal(t, ApplicationResponse{}, NewApplicationResponse(nil, nil))
}

func TestNewAuditTrailResponse(t *testing.T) {
	appID := uuid.New()
	e := audit.NewEntry(appID, "pending", "", audit.InitialNotes)

	resp := NewAuditTrailResponse(appID.String(), []audit.Entry{*e})

	assert.Equal(t, appID.String(), resp.ApplicationID)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "system", resp.Entries[0].ChangedBy)
	assert.Equal(t, audit.InitialNotes, resp.Entries[0].Notes)

	empty := NewAuditTrailResponse(appID.String(), nil)
	assert.NotNil(t, empty.Entries)
	assert.Empty(t, empty.Entries)
}
