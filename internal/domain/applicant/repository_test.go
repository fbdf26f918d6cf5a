package applicant

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockApplicantRepository struct {
	mock.Mock
}

func (_m *MockApplicantRepository) FindByEmailInTx(ctx context.Context, tx pgx.Tx, email string) (*Applicant, error) {
	ret := _m.Called(ctx, tx, email)

	var r0 *Applicant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Applicant)
	}

	return r0, ret.Error(1)
}

func (_m *MockApplicantRepository) CreateInTx(ctx context.Context, tx pgx.Tx, a *Applicant) (*Applicant, error) {
	ret := _m.Called(ctx, tx, a)

	var r0 *Applicant
	if rf, ok := ret.Get(0).(func(context.Context, pgx.Tx, *Applicant) *Applicant); ok {
		r0 = rf(ctx, tx, a)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Applicant)
	}

	return r0, ret.Error(1)
}

func (_m *MockApplicantRepository) UpsertByEmailInTx(ctx context.Context, tx pgx.Tx, a *Applicant) (*Applicant, error) {
	ret := _m.Called(ctx, tx, a)

	var r0 *Applicant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Applicant)
	}

	return r0, ret.Error(1)
}

func (_m *MockApplicantRepository) FindByID(ctx context.Context, id uuid.UUID) (*Applicant, error) {
	ret := _m.Called(ctx, id)

	var r0 *Applicant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Applicant)
	}

	return r0, ret.Error(1)
}
