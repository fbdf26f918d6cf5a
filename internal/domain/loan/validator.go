package loan

import (
	"path/filepath"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"loan-intake/internal/pkg/apperrors"
)

const DefaultMaxFileBytes int64 = 5 << 20

var (
	reMobile = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

	allowedExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".pdf": true}

	allowedContentTypes = map[string]bool{"image/jpeg": true, "image/png": true, "application/pdf": true}
)

var fieldMessages = map[string]string{
	"fullName":        "Full name is required",
	"age":             "Age must be between 18 and 100",
	"gender":          "Invalid gender",
	"maritalStatus":   "Invalid marital status",
	"email":           "Invalid email address",
	"phoneNumber":     "Invalid phone number",
	"loanAmount":      "Loan amount must be at least 10,000 RWF",
	"loanPurpose":     "Loan purpose must be between 5 and 500 characters",
	"loanTenure":      "Loan tenure must be between 1 and 12 months",
	"interestRate":    "Interest rate must be between 4.5 and 10",
	"collateralType":  "Invalid collateral type",
	"forcedSaleValue": "Forced sale value must be a non-negative number",
	"monthlyIncome":   "Monthly income must be a non-negative number",
	"idUpload":        "Exactly one national ID document is required",
	"valuationReport": "Exactly one valuation report is required",
	"bankStatements":  "Between 1 and 3 bank statements are required",
}

var tagMessages = map[string]string{
	"collateral_fsv":    "Forced sale value is required for land, house and car collateral",
	"collateral_income": "Monthly income is required for cheque collateral",
	"upload_size":       "File exceeds the maximum allowed size",
	"upload_type":       "Only JPG, PNG and PDF files are allowed",
}

// Validator checks a Submission against every intake rule and
// reports all violations together.
type Validator struct {
	validate     *validator.Validate
	maxFileBytes int64
}

func NewValidator(maxFileBytes int64) *Validator {
	if maxFileBytes <= 0 {
		maxFileBytes = DefaultMaxFileBytes
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("trimmed_min", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
	})
	_ = v.RegisterValidation("trimmed_max", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) <= n
	})
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return IsMobileNumber(fl.Field().String())
	})

	val := &Validator{validate: v, maxFileBytes: maxFileBytes}
	v.RegisterStructValidation(val.submissionLevel, Submission{})
	return val
}

// IsMobileNumber accepts an optional leading + and 9 to 15 digits,
// ignoring spaces and dashes.
func IsMobileNumber(s string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
	return reMobile.MatchString(cleaned)
}

func (v *Validator) Validate(s *Submission) []apperrors.FieldViolation {
	skip := make(map[string]bool, len(s.InputErrors))
	violations := make([]apperrors.FieldViolation, 0)
	for _, ie := range s.InputErrors {
		skip[ie.Field] = true
		violations = append(violations, apperrors.FieldViolation{Field: ie.Field, Message: ie.Message})
	}

	err := v.validate.Struct(s)
	if err == nil {
		return violations
	}

	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return append(violations, apperrors.FieldViolation{Field: "_", Message: err.Error()})
	}

	for _, fe := range ve {
		if skip[fe.Field()] {
			continue
		}
		violations = append(violations, apperrors.FieldViolation{Field: fe.Field(), Message: messageFor(fe)})
	}
	return violations
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := tagMessages[fe.Tag()]; ok {
		if fe.Param() != "" {
			return msg + ": " + fe.Param()
		}
		return msg
	}
	if msg, ok := fieldMessages[fe.Field()]; ok {
		return msg
	}
	return fe.Tag() + " validation failed"
}

func (v *Validator) submissionLevel(sl validator.StructLevel) {
	s := sl.Current().Interface().(Submission)

	switch c := s.Collateral(); {
	case c.Type.RequiresForcedSaleValue() && c.ForcedSaleValue == nil:
		sl.ReportError(s.ForcedSaleValue, "forcedSaleValue", "ForcedSaleValue", "collateral_fsv", "")
	case c.Type == CollateralCheque && c.MonthlyIncome == nil:
		sl.ReportError(s.MonthlyIncome, "monthlyIncome", "MonthlyIncome", "collateral_income", "")
	}

	v.checkUploads(sl, "idUpload", "IDUpload", s.IDUpload)
	v.checkUploads(sl, "valuationReport", "ValuationReport", s.ValuationReport)
	v.checkUploads(sl, "bankStatements", "BankStatements", s.BankStatements)
}

func (v *Validator) checkUploads(sl validator.StructLevel, field, structField string, uploads []Upload) {
	for _, u := range uploads {
		if u.Size > v.maxFileBytes {
			sl.ReportError(u, field, structField, "upload_size", u.FileName)
			continue
		}
		ext := strings.ToLower(filepath.Ext(u.FileName))
		if !allowedExtensions[ext] || !allowedContentTypes[u.ContentType] {
			sl.ReportError(u, field, structField, "upload_type", u.FileName)
		}
	}
}
