package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"loan-intake/internal/pkg/apperrors"
)

type TxMock struct {
	pgx.Tx
}

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) AppendInTx(ctx context.Context, tx pgx.Tx, entry *Entry) error {
	return _m.Called(ctx, tx, entry).Error(0)
}

func (_m *MockRepository) ListByApplicationID(ctx context.Context, applicationID uuid.UUID) ([]Entry, error) {
	ret := _m.Called(ctx, applicationID)

	var r0 []Entry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Entry)
	}
	return r0, ret.Error(1)
}

func newTestManager() (*MockRepository, TrailManager) {
	repo := new(MockRepository)
	return repo, NewTrailManager(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRecordTransition(t *testing.T) {
	ctx := context.Background()
	tx := &TxMock{}
	appID := uuid.New()

	t.Run("Defaults actor to system", func(t *testing.T) {
		repo, m := newTestManager()
		repo.On("AppendInTx", ctx, tx, mock.MatchedBy(func(e *Entry) bool {
			return e.ApplicationID == appID && e.StatusChangedTo == "pending" && e.ChangedBy == DefaultActor && e.Notes == InitialNotes
		})).Return(nil).Once()

		entry, err := m.RecordTransition(ctx, tx, appID, "pending", "  ", InitialNotes)

		require.NoError(t, err)
		assert.Equal(t, DefaultActor, entry.ChangedBy)
		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.False(t, entry.CreatedAt.IsZero())
		repo.AssertExpectations(t)
	})

	t.Run("Keeps supplied actor and notes", func(t *testing.T) {
		repo, m := newTestManager()
		repo.On("AppendInTx", ctx, tx, mock.AnythingOfType("*audit.Entry")).Return(nil).Once()

		entry, err := m.RecordTransition(ctx, tx, appID, "approved", "officer-7", " documents verified ")

		require.NoError(t, err)
		assert.Equal(t, "officer-7", entry.ChangedBy)
		assert.Equal(t, "documents verified", entry.Notes)
		assert.Equal(t, "approved", entry.StatusChangedTo)
	})

	t.Run("Storage failure", func(t *testing.T) {
		repo, m := newTestManager()
		repo.On("AppendInTx", ctx, tx, mock.Anything).Return(apperrors.ErrDatabase).Once()

		entry, err := m.RecordTransition(ctx, tx, appID, "approved", "", "")

		assert.Nil(t, entry)
		assert.True(t, errors.Is(err, apperrors.ErrDatabase))
	})
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	appID := uuid.New()
	repo, m := newTestManager()

	entries := []Entry{
		*NewEntry(appID, "pending", "", InitialNotes),
		*NewEntry(appID, "approved", "officer-7", ""),
	}
	repo.On("ListByApplicationID", ctx, appID).Return(entries, nil).Once()

	got, err := m.History(ctx, appID)

	require.NoError(t, err)
	assert.Equal(t, entries, got)
	repo.AssertExpectations(t)
}
