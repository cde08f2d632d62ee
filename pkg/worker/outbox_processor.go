package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

const maxBackoff = time.Hour

type OutboxProcessorConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	// Lease hides claimed events from other relays while they are published.
	Lease time.Duration
	// MaxDeliveries bounds how many cycles may fail before an event is left FAILED.
	MaxDeliveries int
}

func (c OutboxProcessorConfig) validate() error {
	switch {
	case c.BatchSize <= 0:
		return errors.New("BatchSize must be greater than 0")
	case c.PollInterval <= 0:
		return errors.New("PollInterval must be greater than 0")
	case c.RetryAttempts <= 0:
		return errors.New("RetryAttempts must be greater than 0")
	case c.RetryDelay <= 0:
		return errors.New("RetryDelay must be greater than 0")
	case c.Lease <= 0:
		return errors.New("Lease must be greater than 0")
	case c.MaxDeliveries <= 0:
		return errors.New("MaxDeliveries must be greater than 0")
	}
	return nil
}

// OutboxProcessor relays outbox events to the broker, one channel per event
// type. Delivery is at least once.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	config  OutboxProcessorConfig
	logger  zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	config OutboxProcessorConfig,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) (*OutboxProcessor, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid outbox processor config: %w", err)
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		config:  config,
		logger:  logger.With().Str("component", "outbox_processor").Logger(),
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Start polls until ctx is cancelled. The first batch runs immediately.
func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info().
		Int("batch_size", p.config.BatchSize).
		Dur("poll_interval", p.config.PollInterval).
		Msg("starting outbox processor")

	for {
		if _, err := p.ProcessBatch(ctx); err != nil && ctx.Err() == nil {
			p.logger.Error().Err(err).Msg("failed to process events")
		}

		select {
		case <-ctx.Done():
			p.logger.Info().Msg("shutting down outbox processor")
			return
		case <-ticker.C:
		}
	}
}

// ProcessBatch claims and relays one batch. It returns the number of events
// published.
func (p *OutboxProcessor) ProcessBatch(ctx context.Context) (int, error) {
	timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
	defer timer.ObserveDuration()

	events, err := p.repo.ClaimPending(ctx, p.config.BatchSize, p.config.Lease)
	if err != nil {
		p.metrics.DatabaseOperations.WithLabelValues("claim_pending_events", "error").Inc()
		return 0, fmt.Errorf("failed to claim pending events: %w", err)
	}
	p.metrics.DatabaseOperations.WithLabelValues("claim_pending_events", "success").Inc()

	published := 0
	for _, event := range events {
		if err := p.processEvent(ctx, event); err != nil {
			p.logger.Error().Err(err).
				Str("event_id", event.ID.String()).
				Str("event_type", event.EventType).
				Int("retry_count", event.RetryCount).
				Msg("failed to process event")
			continue
		}
		published++
	}
	return published, nil
}

func (p *OutboxProcessor) processEvent(ctx context.Context, event *model.OutboxEvent) error {
	msg, err := json.Marshal(messaging.Envelope{
		ID:      event.ID.String(),
		Type:    event.EventType,
		Payload: event.Payload,
	})
	if err != nil {
		return p.fail(ctx, event, fmt.Errorf("failed to encode envelope: %w", err), false)
	}

	channel := messaging.ChannelFor(event.EventType)
	err = p.retry(ctx, event.EventType, func() error {
		return p.broker.Publish(ctx, channel, msg)
	})
	if err != nil {
		return p.fail(ctx, event, err, true)
	}

	p.metrics.OutboxEventsProcessed.Inc()
	if err := p.repo.MarkProcessed(ctx, event.ID); err != nil {
		p.metrics.DatabaseOperations.WithLabelValues("mark_processed", "error").Inc()
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	p.metrics.DatabaseOperations.WithLabelValues("mark_processed", "success").Inc()
	return nil
}

// fail records the error. Retryable events are rescheduled with exponential
// backoff until MaxDeliveries is reached.
func (p *OutboxProcessor) fail(ctx context.Context, event *model.OutboxEvent, cause error, retryable bool) error {
	p.metrics.OutboxEventsFailed.Inc()

	var retryAt *time.Time
	if retryable && event.RetryCount+1 < p.config.MaxDeliveries {
		at := p.now().Add(p.backoff(event.RetryCount))
		retryAt = &at
	}

	if err := p.repo.MarkFailed(ctx, event.ID, cause.Error(), retryAt); err != nil {
		p.metrics.DatabaseOperations.WithLabelValues("mark_failed", "error").Inc()
		return fmt.Errorf("%v; failed to mark event failed: %w", cause, err)
	}
	p.metrics.DatabaseOperations.WithLabelValues("mark_failed", "success").Inc()
	return cause
}

func (p *OutboxProcessor) backoff(retryCount int) time.Duration {
	d := p.config.RetryDelay
	for i := 0; i < retryCount && d < maxBackoff; i++ {
		d *= 2
	}
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

// retry runs fn up to RetryAttempts times, sleeping RetryDelay in between.
func (p *OutboxProcessor) retry(ctx context.Context, eventType string, fn func() error) error {
	var err error
	for i := 0; i < p.config.RetryAttempts; i++ {
		if i > 0 {
			p.metrics.OutboxRetries.WithLabelValues(eventType).Inc()
		}
		if err = fn(); err == nil {
			return nil
		}
		if i == p.config.RetryAttempts-1 {
			break
		}

		t := time.NewTimer(p.config.RetryDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return errors.Join(err, ctx.Err())
		case <-t.C:
		}
	}
	return err
}
