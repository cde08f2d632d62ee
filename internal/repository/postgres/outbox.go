package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
)

// ClaimPending leases due events by pushing retry_at forward; a relay that
// dies mid-batch leaves them to be picked up again once the lease expires.
func (r *outboxRepository) ClaimPending(ctx context.Context, limit int, lease time.Duration) ([]*model.OutboxEvent, error) {
	query := `
		UPDATE outbox_events
		SET retry_at = NOW() + make_interval(secs => $2), updated_at = NOW()
		WHERE id IN (
			SELECT id FROM outbox_events
			WHERE status = 'PENDING'
			  AND (retry_at IS NULL OR retry_at <= NOW())
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, event_type, payload, status, error_message, retry_count,
		          retry_at, created_at, updated_at, processed_at
	`
	events := []*model.OutboxEvent{}
	if err := r.db.SelectContext(ctx, &events, query, limit, lease.Seconds()); err != nil {
		return nil, wrap("claim outbox events", err)
	}
	return events, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE outbox_events
		SET status = 'PROCESSED', error_message = NULL, retry_at = NULL,
		    processed_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return wrap("mark outbox event processed", err)
	}
	return requireRow(res)
}

// MarkFailed schedules another attempt at retryAt, or gives up when retryAt is nil.
func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryAt *time.Time) error {
	status := model.OutboxStatusFailed
	if retryAt != nil {
		status = model.OutboxStatusPending
	}
	query := `
		UPDATE outbox_events
		SET status = $2, error_message = $3, retry_at = $4,
		    retry_count = retry_count + 1, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, status, errMsg, retryAt)
	if err != nil {
		return wrap("mark outbox event failed", err)
	}
	return requireRow(res)
}

func (r *outboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM outbox_events
		WHERE status = 'PROCESSED'
		AND processed_at < $1
	`
	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete processed events: %w", err)
	}
	return result.RowsAffected()
}

func (r *outboxRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM outbox_events WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete outbox events: %w", err)
	}
	return result.RowsAffected()
}
