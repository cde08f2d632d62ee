package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

func TestOutboxClaimPending(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOutboxRepository(db)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(q("FOR UPDATE SKIP LOCKED")).
		WithArgs(10, 30.0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_type", "payload", "status", "error_message", "retry_count",
			"retry_at", "created_at", "updated_at", "processed_at",
		}).AddRow(id.String(), model.EventAppointmentBooked, []byte(`{"appID":1}`), "PENDING", nil, 0, now, now, now, nil))

	events, err := repo.ClaimPending(context.Background(), 10, 30*time.Second)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].ID)
	assert.JSONEq(t, `{"appID":1}`, string(events[0].Payload))
}

func TestOutboxMarkFailed(t *testing.T) {
	id := uuid.New()
	retryAt := time.Now().Add(time.Minute)

	t.Run("retry scheduled", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(q("retry_count = retry_count + 1")).
			WithArgs(sqlmock.AnyArg(), "PENDING", "redis down", retryAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, NewOutboxRepository(db).MarkFailed(context.Background(), id, "redis down", &retryAt))
	})

	t.Run("given up", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(q("retry_count = retry_count + 1")).
			WithArgs(sqlmock.AnyArg(), "FAILED", "redis down", nil).
			WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, NewOutboxRepository(db).MarkFailed(context.Background(), id, "redis down", nil))
	})
}

func TestOutboxMarkProcessedUnknown(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(q("SET status = 'PROCESSED'")).WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewOutboxRepository(db).MarkProcessed(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOutboxDeleteBefore(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOutboxRepository(db)
	cutoff := time.Now().Add(-24 * time.Hour)

	mock.ExpectExec(q("DELETE FROM outbox_events WHERE created_at < $1")).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	rows, err := repo.DeleteBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rows)
}
