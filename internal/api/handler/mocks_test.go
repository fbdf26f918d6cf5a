package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"loan-intake/internal/domain/audit"
	"loan-intake/internal/domain/loan"
)

type MockIntakeService struct {
	mock.Mock
}

var _ loan.IntakeService = (*MockIntakeService)(nil)

func (m *MockIntakeService) Submit(ctx context.Context, sub *loan.Submission) (*loan.Application, error) {
	args := m.Called(ctx, sub)
	if app, ok := args.Get(0).(*loan.Application); ok {
		return app, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIntakeService) UpdateStatus(ctx context.Context, id uuid.UUID, status, actor, notes string) (*loan.Application, error) {
	args := m.Called(ctx, id, status, actor, notes)
	if app, ok := args.Get(0).(*loan.Application); ok {
		return app, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIntakeService) GetApplication(ctx context.Context, id uuid.UUID) (*loan.ApplicationDetails, error) {
	args := m.Called(ctx, id)
	if d, ok := args.Get(0).(*loan.ApplicationDetails); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIntakeService) AuditTrail(ctx context.Context, id uuid.UUID) ([]audit.Entry, error) {
	args := m.Called(ctx, id)
	if entries, ok := args.Get(0).([]audit.Entry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIntakeService) CalculateSchedule(principal float64, tenureMonths int, ratePercent float64) loan.Schedule {
	args := m.Called(principal, tenureMonths, ratePercent)
	return args.Get(0).(loan.Schedule)
}

func (m *MockIntakeService) CalculateLimit(collateralType string, forcedSaleValue, monthlyIncome float64) int64 {
	args := m.Called(collateralType, forcedSaleValue, monthlyIncome)
	return args.Get(0).(int64)
}
