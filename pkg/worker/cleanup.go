package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

// OutboxCleanupWorker purges processed outbox events older than the retention.
type OutboxCleanupWorker struct {
	repo      repository.OutboxRepository
	retention time.Duration
	interval  time.Duration
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	undelivered bool
}

func NewOutboxCleanupWorker(repo repository.OutboxRepository, retention, interval time.Duration,
	logger zerolog.Logger, m *metrics.Metrics) *OutboxCleanupWorker {
	return &OutboxCleanupWorker{
		repo:      repo,
		retention: retention,
		interval:  interval,
		logger:    logger.With().Str("component", "outbox_cleanup").Logger(),
		metrics:   m,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// PurgeUndelivered makes the worker also drop pending and failed events past
// the retention. Use it only where no relay runs to deliver them.
func (w *OutboxCleanupWorker) PurgeUndelivered() *OutboxCleanupWorker {
	w.undelivered = true
	return w
}

// Start does nothing when retention or interval is not positive.
func (w *OutboxCleanupWorker) Start(ctx context.Context) {
	if w.retention <= 0 || w.interval <= 0 {
		w.logger.Info().Msg("outbox cleanup disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.Cleanup(ctx); err != nil {
				w.logger.Error().Err(err).Msg("outbox cleanup failed")
			}
		}
	}
}

func (w *OutboxCleanupWorker) Cleanup(ctx context.Context) (int64, error) {
	cutoff := w.now().Add(-w.retention)

	rows, err := w.repo.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge processed outbox events: %w", err)
	}
	if w.undelivered {
		n, err := w.repo.DeleteBefore(ctx, cutoff)
		if err != nil {
			return rows, fmt.Errorf("failed to purge undelivered outbox events: %w", err)
		}
		rows += n
	}

	w.metrics.OutboxEventsPurged.Add(float64(rows))
	if rows > 0 {
		w.logger.Info().Int64("rows", rows).Time("cutoff", cutoff).Msg("purged outbox events")
	}
	return rows, nil
}
