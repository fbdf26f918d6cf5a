package handler

import (
	"io"
	"math"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"loan-intake/internal/domain/loan"
)

const (
	fieldIDUpload        = "idUpload"
	fieldValuationReport = "valuationReport"
	fieldBankStatements  = "bankStatements"
)

type formReader struct {
	values map[string][]string
	errs   []loan.InputError
}

func (f *formReader) text(field string) string {
	if v := f.values[field]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

func (f *formReader) integer(field, message string) *int {
	raw := f.text(field)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f.errs = append(f.errs, loan.InputError{Field: field, Message: message})
		return nil
	}
	return &n
}

func (f *formReader) number(field, message string) *float64 {
	raw := f.text(field)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		f.errs = append(f.errs, loan.InputError{Field: field, Message: message})
		return nil
	}
	return &n
}

func newSubmission(form *multipart.Form) *loan.Submission {
	f := &formReader{values: form.Value}
	sub := &loan.Submission{
		FullName:        f.text("fullName"),
		Age:             f.integer("age", "Age must be a whole number"),
		Gender:          f.text("gender"),
		MaritalStatus:   f.text("maritalStatus"),
		Email:           f.text("email"),
		PhoneNumber:     f.text("phoneNumber"),
		LoanAmount:      f.number("loanAmount", "Loan amount must be a number"),
		LoanPurpose:     f.text("loanPurpose"),
		LoanTenure:      f.integer("loanTenure", "Loan tenure must be a whole number of months"),
		InterestRate:    f.number("interestRate", "Interest rate must be a number"),
		CollateralType:  f.text("collateralType"),
		ForcedSaleValue: f.number("forcedSaleValue", "Forced sale value must be a number"),
		MonthlyIncome:   f.number("monthlyIncome", "Monthly income must be a number"),
		IDUpload:        uploads(fieldIDUpload, form.File[fieldIDUpload]),
		ValuationReport: uploads(fieldValuationReport, form.File[fieldValuationReport]),
		BankStatements:  uploads(fieldBankStatements, form.File[fieldBankStatements]),
	}
	sub.InputErrors = f.errs
	return sub
}

func uploads(field string, headers []*multipart.FileHeader) []loan.Upload {
	out := make([]loan.Upload, 0, len(headers))
	for _, fh := range headers {
		out = append(out, loan.Upload{
			Field:       field,
			FileName:    fh.Filename,
			Size:        fh.Size,
			ContentType: sniffContentType(fh),
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return out
}

// sniffContentType ignores the client-declared type and inspects the bytes.
func sniffContentType(fh *multipart.FileHeader) string {
	f, err := fh.Open()
	if err != nil {
		return ""
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return ""
	}
	base, _, _ := strings.Cut(mtype.String(), ";")
	return base
}
