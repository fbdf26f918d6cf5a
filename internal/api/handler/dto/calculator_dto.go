package dto

import "loan-intake/internal/domain/loan"

type CalculationRequest struct {
	Amount       float64 `json:"amount"`
	Months       int     `json:"months"`
	InterestRate float64 `json:"interestRate"`
}

type CalculationResponse struct {
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalPayment   float64 `json:"totalPayment"`
	TotalInterest  float64 `json:"totalInterest"`
}

func NewCalculationResponse(s loan.Schedule) CalculationResponse {
	return CalculationResponse{
		MonthlyPayment: s.MonthlyPayment.InexactFloat64(),
		TotalPayment:   s.TotalPayment.InexactFloat64(),
		TotalInterest:  s.TotalInterest.InexactFloat64(),
	}
}

// LimitRequest leaves the numbers nil when absent; they default to zero.
type LimitRequest struct {
	CollateralType  string   `json:"collateralType"`
	ForcedSaleValue *float64 `json:"forcedSaleValue"`
	MonthlyIncome   *float64 `json:"monthlyIncome"`
}

func (r LimitRequest) Values() (forcedSaleValue, monthlyIncome float64) {
	if r.ForcedSaleValue != nil {
		forcedSaleValue = *r.ForcedSaleValue
	}
	if r.MonthlyIncome != nil {
		monthlyIncome = *r.MonthlyIncome
	}
	return forcedSaleValue, monthlyIncome
}

type LimitResponse struct {
	LoanLimit int64 `json:"loanLimit"`
}
