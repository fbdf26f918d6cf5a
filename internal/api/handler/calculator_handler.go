package handler

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"loan-intake/internal/api/handler/dto"
	"loan-intake/internal/domain/loan"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	calculationFailedMessage   = "Loan calculation failed"
	limitFailedMessage         = "Loan limit calculation failed"
	collateralRequiredMessage  = "Collateral type is required"
	calculationSchemaFile      = "schemas/loan_calculation.json"
	limitSchemaFile            = "schemas/loan_limit.json"
	schemaRootField            = "(root)"
	schemaRequiredPropertyName = "property"
)

var errBodyRequired = errors.New("Request body is required")

func mustLoadSchema(name string) *gojsonschema.Schema {
	raw, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("read schema %s: %v", name, err))
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", name, err))
	}
	return schema
}

// CalculatorHandler serves the stateless calculation endpoints. Request bodies
// are checked against embedded JSON schemas before they are decoded.
type CalculatorHandler struct {
	service           loan.IntakeService
	calculationSchema *gojsonschema.Schema
	limitSchema       *gojsonschema.Schema
	logger            *slog.Logger
}

func NewCalculatorHandler(s loan.IntakeService, l *slog.Logger) *CalculatorHandler {
	return &CalculatorHandler{
		service:           s,
		calculationSchema: mustLoadSchema(calculationSchemaFile),
		limitSchema:       mustLoadSchema(limitSchemaFile),
		logger:            l.With("component", "CalculatorHandler"),
	}
}

// CalculateLoan returns the installment schedule for amount, months and interestRate.
//
// @Summary Compute the installment schedule
// @Tags Calculators
// @Accept json
// @Produce json
// @Param request body dto.CalculationRequest true "Principal, tenure and rate"
// @Success 200 {object} dto.CalculationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/loan-calculation [post]
func (h *CalculatorHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	defer h.recoverWith(w, r, calculationFailedMessage)

	body, err := h.readBody(w, r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if msg := validateAgainst(h.calculationSchema, body, nil); msg != "" {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: msg})
		return
	}

	var req dto.CalculationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	schedule := h.service.CalculateSchedule(req.Amount, req.Months, req.InterestRate)
	respondJSON(w, http.StatusOK, dto.NewCalculationResponse(schedule))
}

// CalculateLimit returns the collateral-backed loan limit. Absent values count as zero.
//
// @Summary Compute the collateral-backed loan limit
// @Tags Calculators
// @Accept json
// @Produce json
// @Param request body dto.LimitRequest true "Collateral values"
// @Success 200 {object} dto.LimitResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/loan-limit [post]
func (h *CalculatorHandler) CalculateLimit(w http.ResponseWriter, r *http.Request) {
	defer h.recoverWith(w, r, limitFailedMessage)

	body, err := h.readBody(w, r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	overrides := map[string]string{"collateralType": collateralRequiredMessage}
	if msg := validateAgainst(h.limitSchema, body, overrides); msg != "" {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: msg})
		return
	}

	var req dto.LimitRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	forcedSaleValue, monthlyIncome := req.Values()
	limit := h.service.CalculateLimit(req.CollateralType, forcedSaleValue, monthlyIncome)
	respondJSON(w, http.StatusOK, dto.LimitResponse{LoanLimit: limit})
}

func (h *CalculatorHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, errBodyRequired
	}
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	if err != nil {
		return nil, errors.New(bodyTooLargeMessage)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, errBodyRequired
	}
	return body, nil
}

func (h *CalculatorHandler) recoverWith(w http.ResponseWriter, r *http.Request, message string) {
	if rec := recover(); rec != nil {
		h.logger.ErrorContext(r.Context(), message, "panic", rec)
		respondJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: message})
	}
}

// validateAgainst returns "" when body satisfies schema. Violations on a
// field listed in overrides are reported with the override message alone.
func validateAgainst(schema *gojsonschema.Schema, body []byte, overrides map[string]string) string {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return "Invalid JSON body"
	}
	if result.Valid() {
		return ""
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == schemaRootField {
			if p, ok := desc.Details()[schemaRequiredPropertyName].(string); ok {
				field = p
			}
		}
		if msg, ok := overrides[field]; ok {
			return msg
		}
		msgs = append(msgs, desc.String())
	}
	return strings.Join(msgs, "; ")
}
