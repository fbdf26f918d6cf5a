package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-intake/internal/domain/audit"
	"loan-intake/internal/pkg/apperrors"
)

func setupAuditRepo(t *testing.T) (context.Context, *AuditRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	return context.Background(), NewAuditRepository(mockPool, logger), mockPool
}

func TestAuditRepository_AppendInTx(t *testing.T) {
	ctx, repo, mockPool := setupAuditRepo(t)
	defer mockPool.Close()
	tx := beginTx(t, ctx, mockPool)
	e := audit.NewEntry(uuid.New(), "pending", "", audit.InitialNotes)

	mockPool.ExpectExec(regexp.QuoteMeta(insertAuditEntrySQL)).
		WithArgs(e.ID, e.ApplicationID, "pending", audit.DefaultActor, audit.InitialNotes, e.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.AppendInTx(ctx, tx, e))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestAuditRepository_AppendInTx_Failure(t *testing.T) {
	ctx, repo, mockPool := setupAuditRepo(t)
	defer mockPool.Close()
	tx := beginTx(t, ctx, mockPool)
	e := audit.NewEntry(uuid.New(), "approved", "officer-7", "")

	mockPool.ExpectExec(regexp.QuoteMeta(insertAuditEntrySQL)).
		WithArgs(e.ID, e.ApplicationID, "approved", "officer-7", "", e.CreatedAt).
		WillReturnError(errors.New("disk full"))

	assert.ErrorIs(t, repo.AppendInTx(ctx, tx, e), apperrors.ErrDatabase)
}

func TestAuditRepository_ListByApplicationID(t *testing.T) {
	ctx, repo, mockPool := setupAuditRepo(t)
	defer mockPool.Close()
	appID := uuid.New()
	first := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	id1, id2 := uuid.New(), uuid.New()

	mockPool.ExpectQuery(regexp.QuoteMeta(selectAuditEntriesSQL)).
		WithArgs(appID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "loan_application_id", "status_changed_to", "changed_by", "notes", "created_at"}).
			AddRow(id1, appID, "pending", "system", audit.InitialNotes, first).
			AddRow(id2, appID, "approved", "officer-7", "", second))

	entries, err := repo.ListByApplicationID(ctx, appID)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, audit.Entry{ID: id1, ApplicationID: appID, StatusChangedTo: "pending", ChangedBy: "system", Notes: audit.InitialNotes, CreatedAt: first}, entries[0])
	assert.Equal(t, "approved", entries[1].StatusChangedTo)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestAuditRepository_ListByApplicationID_QueryError(t *testing.T) {
	ctx, repo, mockPool := setupAuditRepo(t)
	defer mockPool.Close()
	appID := uuid.New()

	mockPool.ExpectQuery(regexp.QuoteMeta(selectAuditEntriesSQL)).
		WithArgs(appID).
		WillReturnError(errors.New("timeout"))

	_, err := repo.ListByApplicationID(ctx, appID)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
}
