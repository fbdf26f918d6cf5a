package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loan-intake/internal/domain/loan"
)

func TestNewCalculationResponse(t *testing.T) {
	resp := NewCalculationResponse(loan.ComputeInstallmentSchedule(10000, 12, 10))

	assert.Equal(t, CalculationResponse{MonthlyPayment: 1833.33, TotalPayment: 21999.96, TotalInterest: 12000}, resp)
}

func TestLimitRequestValues(t *testing.T) {
	fsv := 300000.0

	f, m := LimitRequest{CollateralType: "car", ForcedSaleValue: &fsv}.Values()
	assert.Equal(t, 300000.0, f)
	assert.Equal(t, 0.0, m)

	f, m = LimitRequest{CollateralType: "cheque"}.Values()
	assert.Zero(t, f)
	assert.Zero(t, m)
}
