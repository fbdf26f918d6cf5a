package loan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"loan-intake/internal/domain/applicant"
	"loan-intake/internal/domain/audit"
	"loan-intake/internal/event"
)

type TxMock struct {
	pgx.Tx
}

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) CreateInTx(ctx context.Context, tx pgx.Tx, app *Application) error {
	return _m.Called(ctx, tx, app).Error(0)
}

func (_m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	ret := _m.Called(ctx, id)

	var r0 *Application
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Application)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*Application, error) {
	ret := _m.Called(ctx, tx, id)

	var r0 *Application
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Application)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status Status, updatedAt time.Time) error {
	return _m.Called(ctx, tx, id, status, updatedAt).Error(0)
}

func (_m *MockRepository) IsDocumentReferenced(ctx context.Context, filename string) (bool, error) {
	ret := _m.Called(ctx, filename)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	ret := _m.Called(ctx)

	var r0 pgx.Tx
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(pgx.Tx)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	return _m.Called(ctx, tx).Error(0)
}

func (_m *MockRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	return _m.Called(ctx, tx).Error(0)
}

type MockApplicantService struct {
	mock.Mock
}

func (_m *MockApplicantService) ResolveInTx(ctx context.Context, tx pgx.Tx, candidate *applicant.Applicant) (*applicant.Applicant, error) {
	ret := _m.Called(ctx, tx, candidate)

	var r0 *applicant.Applicant
	if rf, ok := ret.Get(0).(func(context.Context, pgx.Tx, *applicant.Applicant) *applicant.Applicant); ok {
		r0 = rf(ctx, tx, candidate)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*applicant.Applicant)
	}
	return r0, ret.Error(1)
}

func (_m *MockApplicantService) GetApplicant(ctx context.Context, id uuid.UUID) (*applicant.Applicant, error) {
	ret := _m.Called(ctx, id)

	var r0 *applicant.Applicant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*applicant.Applicant)
	}
	return r0, ret.Error(1)
}

type MockTrailManager struct {
	mock.Mock
}

func (_m *MockTrailManager) RecordTransition(ctx context.Context, tx pgx.Tx, applicationID uuid.UUID, status, actor, notes string) (*audit.Entry, error) {
	ret := _m.Called(ctx, tx, applicationID, status, actor, notes)
	if err := ret.Error(1); err != nil {
		return nil, err
	}
	return audit.NewEntry(applicationID, status, actor, notes), nil
}

func (_m *MockTrailManager) History(ctx context.Context, applicationID uuid.UUID) ([]audit.Entry, error) {
	ret := _m.Called(ctx, applicationID)

	var r0 []audit.Entry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]audit.Entry)
	}
	return r0, ret.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (_m *MockPublisher) PublishApplicationSubmitted(ctx context.Context, evt event.ApplicationSubmittedEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

func (_m *MockPublisher) PublishApplicationStatusChanged(ctx context.Context, evt event.ApplicationStatusChangedEvent) error {
	return _m.Called(ctx, evt).Error(0)
}

// memoryStore is a DocumentStore that keeps files in a map.
type memoryStore struct {
	mu      sync.Mutex
	files   map[string]string
	seq     int
	failAt  int
	removed []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{files: make(map[string]string), failAt: -1}
}

func (m *memoryStore) Save(ctx context.Context, u Upload) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAt == m.seq {
		return "", errors.New("disk full")
	}
	m.seq++
	name := fmt.Sprintf("%s-%d-%s", u.Field, m.seq, u.FileName)
	m.files[name] = u.FileName
	return name, nil
}

func (m *memoryStore) Remove(ctx context.Context, filenames ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, name := range filenames {
		delete(m.files, name)
		m.removed = append(m.removed, name)
	}
	return nil
}

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}
