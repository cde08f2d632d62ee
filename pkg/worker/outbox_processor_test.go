package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/fake"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

type published struct {
	channel string
	payload []byte
}

type recordingBroker struct {
	mu       sync.Mutex
	messages []published
	calls    int
	err      error
}

func (b *recordingBroker) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.err != nil {
		return b.err
	}
	b.messages = append(b.messages, published{channel: channel, payload: payload})
	return nil
}

func (b *recordingBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, errors.New("not supported")
}

func (b *recordingBroker) Close() error { return nil }

func testConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
		Lease:         time.Minute,
		MaxDeliveries: 3,
	}
}

func newProcessor(t *testing.T, store *fake.Store, broker messaging.Broker, cfg OutboxProcessorConfig) (*OutboxProcessor, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewNop()
	p, err := NewOutboxProcessor(store.OutboxRepo(), broker, cfg, zerolog.Nop(), m)
	require.NoError(t, err)
	return p, m
}

func addEvent(t *testing.T, store *fake.Store, eventType string, payload interface{}) *model.OutboxEvent {
	t.Helper()
	event, err := model.NewOutboxEvent(eventType, payload)
	require.NoError(t, err)
	store.Events = append(store.Events, event)
	return event
}

func TestProcessBatchPublishesEnvelope(t *testing.T) {
	store := fake.NewStore()
	event := addEvent(t, store, model.EventAppointmentBooked, model.Appointment{AppID: 4, DoctorID: 7, WardID: 1, Slot: 2})
	broker := &recordingBroker{}
	p, m := newProcessor(t, store, broker, testConfig())

	n, err := p.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, broker.messages, 1)
	assert.Equal(t, "hms.appointment.booked", broker.messages[0].channel)

	var env messaging.Envelope
	require.NoError(t, json.Unmarshal(broker.messages[0].payload, &env))
	assert.Equal(t, event.ID.String(), env.ID)
	assert.Equal(t, model.EventAppointmentBooked, env.Type)
	assert.JSONEq(t, string(event.Payload), string(env.Payload))

	assert.Equal(t, model.OutboxStatusProcessed, store.OutboxStatus()[model.EventAppointmentBooked])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboxEventsProcessed))

	n, err = p.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, broker.messages, 1)
}

func TestProcessBatchReschedulesFailedPublish(t *testing.T) {
	store := fake.NewStore()
	addEvent(t, store, model.EventEmployeeDeleted, model.EmployeeDeletion{EmployeeID: 7})
	broker := &recordingBroker{err: errors.New("redis down")}
	p, m := newProcessor(t, store, broker, testConfig())

	n, err := p.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 2, broker.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboxRetries.WithLabelValues(model.EventEmployeeDeleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboxEventsFailed))

	event := store.Events[0]
	assert.Equal(t, model.OutboxStatusPending, event.Status)
	assert.Equal(t, 1, event.RetryCount)
	require.NotNil(t, event.ErrorMessage)
	assert.Equal(t, "redis down", *event.ErrorMessage)
	require.NotNil(t, event.RetryAt)

	// Backed off, so the next cycle skips it.
	_, err = p.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, broker.calls)
}

func TestProcessBatchGivesUpAfterMaxDeliveries(t *testing.T) {
	store := fake.NewStore()
	event := addEvent(t, store, model.EventInvoicePaymentAdded, map[string]int{"invoiceId": 1})
	event.RetryCount = 2
	broker := &recordingBroker{err: errors.New("redis down")}
	p, _ := newProcessor(t, store, broker, testConfig())

	_, err := p.ProcessBatch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.OutboxStatusFailed, store.Events[0].Status)
	assert.Nil(t, store.Events[0].RetryAt)
	assert.Equal(t, 3, store.Events[0].RetryCount)
}

func TestProcessBatchClaimFailure(t *testing.T) {
	store := fake.NewStore()
	store.Fail("ClaimPending", errors.New("connection reset"))
	p, m := newProcessor(t, store, &recordingBroker{}, testConfig())

	_, err := p.ProcessBatch(context.Background())
	assert.ErrorContains(t, err, "failed to claim pending events")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("claim_pending_events", "error")))
}

func TestRetryStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.RetryAttempts = 5
	cfg.RetryDelay = time.Hour
	p, _ := newProcessor(t, fake.NewStore(), &recordingBroker{}, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := p.retry(ctx, "x", func() error {
		calls++
		cancel()
		return errors.New("boom")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestBackoff(t *testing.T) {
	cfg := testConfig()
	cfg.RetryDelay = time.Second
	p, _ := newProcessor(t, fake.NewStore(), &recordingBroker{}, cfg)

	assert.Equal(t, time.Second, p.backoff(0))
	assert.Equal(t, 4*time.Second, p.backoff(2))
	assert.Equal(t, time.Hour, p.backoff(40))
}

func TestNewOutboxProcessorValidatesConfig(t *testing.T) {
	cfg := testConfig()
	cfg.BatchSize = 0
	_, err := NewOutboxProcessor(fake.NewStore().OutboxRepo(), &recordingBroker{}, cfg, zerolog.Nop(), metrics.NewNop())
	assert.ErrorContains(t, err, "BatchSize")
}

func TestStartStopsOnCancel(t *testing.T) {
	store := fake.NewStore()
	addEvent(t, store, model.EventAppointmentCancelled, model.Appointment{AppID: 1})
	broker := &recordingBroker{}
	p, _ := newProcessor(t, store, broker, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		broker.mu.Lock()
		defer broker.mu.Unlock()
		return len(broker.messages) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("processor did not stop")
	}
}
