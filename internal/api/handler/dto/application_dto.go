package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"loan-intake/internal/domain/applicant"
	"loan-intake/internal/domain/audit"
	"loan-intake/internal/domain/loan"
)

const SubmittedMessage = "Loan application submitted successfully"

type SubmitResponse struct {
	Message       string `json:"message"`
	ApplicationID string `json:"applicationId"`
}

type StatusUpdateRequest struct {
	Status    string `json:"status"`
	Notes     string `json:"notes"`
	ChangedBy string `json:"changedBy"`
}

func (r *StatusUpdateRequest) Validate() error {
	if _, ok := loan.ParseStatus(r.Status); !ok {
		return fmt.Errorf("status must be one of pending, approved, rejected")
	}
	if len(r.Notes) > 1000 {
		return fmt.Errorf("notes must be at most 1000 characters")
	}
	return nil
}

type StatusUpdateResponse struct {
	Message     string              `json:"message"`
	Application ApplicationResponse `json:"application"`
}

type ApplicantResponse struct {
	ID            string `json:"id"`
	FullName      string `json:"fullName"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"maritalStatus"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phoneNumber"`
}

type CollateralResponse struct {
	Type            string  `json:"type"`
	ForcedSaleValue *string `json:"forcedSaleValue,omitempty"`
	MonthlyIncome   *string `json:"monthlyIncome,omitempty"`
}

type DocumentsResponse struct {
	NationalID      string   `json:"nationalId"`
	ValuationReport string   `json:"valuationReport"`
	BankStatements  []string `json:"bankStatements"`
}

// ApplicationResponse renders money as fixed two-decimal strings.
type ApplicationResponse struct {
	ID              string             `json:"id"`
	ApplicantID     string             `json:"applicantId"`
	Applicant       *ApplicantResponse `json:"applicant,omitempty"`
	LoanAmount      string             `json:"loanAmount"`
	LoanPurpose     string             `json:"loanPurpose"`
	LoanTenure      int                `json:"loanTenure"`
	InterestRate    string             `json:"interestRate"`
	MonthlyInterest string             `json:"monthlyInterest"`
	MonthlyPayment  string             `json:"monthlyPayment"`
	TotalPayment    string             `json:"totalPayment"`
	TotalInterest   string             `json:"totalInterest"`
	MaxLoanLimit    int64              `json:"maxLoanLimit"`
	Status          string             `json:"status"`
	Collateral      CollateralResponse `json:"collateral"`
	Documents       DocumentsResponse  `json:"documents"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func optionalMoney(v *float64) *string {
	if v == nil {
		return nil
	}
	d := money(*v)
	return &d
}

func NewApplicationResponse(app *loan.Application, a *applicant.Applicant) ApplicationResponse {
	if app == nil {
		return ApplicationResponse{}
	}
	bankStatements := app.Documents.BankStatements
	if bankStatements == nil {
		bankStatements = []string{}
	}
	resp := ApplicationResponse{
		ID:              app.ID.String(),
		ApplicantID:     app.ApplicantID.String(),
		LoanAmount:      money(app.LoanAmount),
		LoanPurpose:     app.Purpose,
		LoanTenure:      app.TenureMonths,
		InterestRate:    decimal.NewFromFloat(app.InterestRate).String(),
		MonthlyInterest: money(app.MonthlyInterest),
		MonthlyPayment:  money(app.MonthlyPayment),
		TotalPayment:    money(app.TotalPayment),
		TotalInterest:   money(app.TotalInterest),
		MaxLoanLimit:    app.MaxLoanLimit,
		Status:          string(app.Status),
		Collateral: CollateralResponse{
			Type:            string(app.Collateral.Type),
			ForcedSaleValue: optionalMoney(app.Collateral.ForcedSaleValue),
			MonthlyIncome:   optionalMoney(app.Collateral.MonthlyIncome),
		},
		Documents: DocumentsResponse{
			NationalID:      app.Documents.NationalID,
			ValuationReport: app.Documents.ValuationReport,
			BankStatements:  bankStatements,
		},
		CreatedAt: app.CreatedAt,
		UpdatedAt: app.UpdatedAt,
	}
	if a != nil {
		resp.Applicant = &ApplicantResponse{
			ID:            a.ID.String(),
			FullName:      a.FullName,
			Age:           a.Age,
			Gender:        a.Gender,
			MaritalStatus: a.MaritalStatus,
			Email:         a.Email,
			PhoneNumber:   a.PhoneNumber,
		}
	}
	return resp
}

type AuditEntryResponse struct {
	ID              string    `json:"id"`
	StatusChangedTo string    `json:"statusChangedTo"`
	ChangedBy       string    `json:"changedBy"`
	Notes           string    `json:"notes,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

type AuditTrailResponse struct {
	ApplicationID string               `json:"applicationId"`
	Entries       []AuditEntryResponse `json:"entries"`
}

func NewAuditTrailResponse(applicationID string, entries []audit.Entry) AuditTrailResponse {
	resp := AuditTrailResponse{ApplicationID: applicationID, Entries: make([]AuditEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, AuditEntryResponse{
			ID:              e.ID.String(),
			StatusChangedTo: e.StatusChangedTo,
			ChangedBy:       e.ChangedBy,
			Notes:           e.Notes,
			Timestamp:       e.CreatedAt,
		})
	}
	return resp
}
