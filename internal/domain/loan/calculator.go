package loan

import (
	"github.com/shopspring/decimal"
)

var (
	hundred      = decimal.NewFromInt(100)
	half         = decimal.NewFromFloat(0.5)
	quarter      = decimal.NewFromFloat(0.25)
	limitStepInt = int64(1000)
)

// Schedule is the flat-rate repayment breakdown, every figure rounded to 2 dp.
type Schedule struct {
	MonthlyInterest decimal.Decimal
	MonthlyPayment  decimal.Decimal
	TotalPayment    decimal.Decimal
	TotalInterest   decimal.Decimal
}

// ComputeInstallmentSchedule applies the flat monthly-rate formula. The rate is
// taken as a monthly percentage of the principal. Totals are derived from the
// rounded monthly figures so that TotalInterest equals MonthlyInterest times tenure.
//
// tenureMonths must be positive; callers validate it first.
func ComputeInstallmentSchedule(principal float64, tenureMonths int, annualRatePercent float64) Schedule {
	p := decimal.NewFromFloat(principal)
	n := decimal.NewFromInt(int64(tenureMonths))
	rate := decimal.NewFromFloat(annualRatePercent).Div(hundred)

	monthlyInterest := p.Mul(rate).Round(2)
	monthlyPayment := p.Div(n).Add(p.Mul(rate)).Round(2)

	return Schedule{
		MonthlyInterest: monthlyInterest,
		MonthlyPayment:  monthlyPayment,
		TotalPayment:    monthlyPayment.Mul(n).Round(2),
		TotalInterest:   monthlyInterest.Mul(n).Round(2),
	}
}

// ComputeLoanLimit returns the collateral-backed ceiling, floored to a multiple
// of 1,000. Unknown collateral yields 0.
func ComputeLoanLimit(collateralType CollateralType, forcedSaleValue, monthlyIncome float64) int64 {
	var raw decimal.Decimal
	switch collateralType {
	case CollateralLand, CollateralHouse:
		raw = decimal.NewFromFloat(forcedSaleValue).Mul(half)
	case CollateralCar:
		raw = decimal.NewFromFloat(forcedSaleValue).Mul(quarter)
	case CollateralCheque:
		raw = decimal.NewFromFloat(monthlyIncome).Mul(half)
	default:
		return 0
	}

	step := decimal.NewFromInt(limitStepInt)
	limit := raw.Div(step).Floor().Mul(step).IntPart()
	if limit < 0 {
		return 0
	}
	return limit
}
