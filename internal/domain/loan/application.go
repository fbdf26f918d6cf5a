package loan

import (
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus accepts a status value case-insensitively.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, true
	default:
		return "", false
	}
}

type CollateralType string

const (
	CollateralLand   CollateralType = "land"
	CollateralHouse  CollateralType = "house"
	CollateralCar    CollateralType = "car"
	CollateralCheque CollateralType = "cheque"
)

// RequiresForcedSaleValue reports whether the limit is derived from an asset valuation.
func (c CollateralType) RequiresForcedSaleValue() bool {
	return c == CollateralLand || c == CollateralHouse || c == CollateralCar
}

type Collateral struct {
	Type            CollateralType
	ForcedSaleValue *float64
	MonthlyIncome   *float64
}

// Documents holds stored filenames, never paths.
type Documents struct {
	NationalID      string
	ValuationReport string
	BankStatements  []string
}

func (d Documents) Filenames() []string {
	names := make([]string, 0, 2+len(d.BankStatements))
	if d.NationalID != "" {
		names = append(names, d.NationalID)
	}
	if d.ValuationReport != "" {
		names = append(names, d.ValuationReport)
	}
	return append(names, d.BankStatements...)
}

type Application struct {
	ID              uuid.UUID
	ApplicantID     uuid.UUID
	LoanAmount      float64
	Purpose         string
	TenureMonths    int
	InterestRate    float64
	MonthlyInterest float64
	MonthlyPayment  float64
	TotalPayment    float64
	TotalInterest   float64
	MaxLoanLimit    int64
	Status          Status
	Collateral      Collateral
	Documents       Documents
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Upload is a received file that has not been stored yet.
type Upload struct {
	Field       string
	FileName    string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// InputError records a submitted value the transport could not decode.
type InputError struct {
	Field   string
	Message string
}

// Submission is the raw intake request. Numeric fields are nil when absent.
type Submission struct {
	FullName        string   `json:"fullName" validate:"trimmed_min=2"`
	Age             *int     `json:"age" validate:"required,min=18,max=100"`
	Gender          string   `json:"gender" validate:"oneof=male female"`
	MaritalStatus   string   `json:"maritalStatus" validate:"oneof=single married divorced"`
	Email           string   `json:"email" validate:"required,email"`
	PhoneNumber     string   `json:"phoneNumber" validate:"mobile"`
	LoanAmount      *float64 `json:"loanAmount" validate:"required,min=10000"`
	LoanPurpose     string   `json:"loanPurpose" validate:"trimmed_min=5,trimmed_max=500"`
	LoanTenure      *int     `json:"loanTenure" validate:"required,min=1,max=12"`
	InterestRate    *float64 `json:"interestRate" validate:"required,min=4.5,max=10"`
	CollateralType  string   `json:"collateralType" validate:"oneof=land house car cheque"`
	ForcedSaleValue *float64 `json:"forcedSaleValue" validate:"omitempty,min=0"`
	MonthlyIncome   *float64 `json:"monthlyIncome" validate:"omitempty,min=0"`

	IDUpload        []Upload `json:"idUpload" validate:"len=1"`
	ValuationReport []Upload `json:"valuationReport" validate:"len=1"`
	BankStatements  []Upload `json:"bankStatements" validate:"min=1,max=3"`

	InputErrors []InputError `json:"-" validate:"-"`
}

func (s *Submission) Collateral() Collateral {
	return Collateral{
		Type:            CollateralType(strings.ToLower(strings.TrimSpace(s.CollateralType))),
		ForcedSaleValue: s.ForcedSaleValue,
		MonthlyIncome:   s.MonthlyIncome,
	}
}

// Uploads returns every received file in storage order.
func (s *Submission) Uploads() []Upload {
	all := make([]Upload, 0, len(s.IDUpload)+len(s.ValuationReport)+len(s.BankStatements))
	all = append(all, s.IDUpload...)
	all = append(all, s.ValuationReport...)
	return append(all, s.BankStatements...)
}

func valueOrZero[T int | float64](p *T) T {
	if p == nil {
		return 0
	}
	return *p
}
