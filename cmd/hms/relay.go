package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/hospital-api/internal/repository/postgres"
	"github.com/jwalitptl/hospital-api/pkg/messaging/redis"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
	"github.com/jwalitptl/hospital-api/pkg/worker"
)

func relayCmd(a *app) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Publish outbox events to Redis until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if a.cfg.Redis.URL == "" {
				return errors.New("relay needs redis.url")
			}

			db, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			broker, err := a.newBroker(ctx)
			if err != nil {
				return err
			}
			defer broker.Close()

			registry := prometheus.NewRegistry()
			m := metrics.New(metricsNamespace, registry)
			if err := a.startRelay(ctx, db, broker, m); err != nil {
				return err
			}

			if metricsAddr != "" {
				srv := a.relayMetricsServer(metricsAddr, registry)
				defer srv.Close()
			}

			<-ctx.Done()
			a.log.Info().Msg("relay shutting down")
			return nil
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9091", "address serving /metrics and /health/live, empty to disable")
	return cmd
}

func (a *app) relayMetricsServer(addr string, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error().Err(err).Str("addr", addr).Msg("relay metrics server failed")
		}
	}()
	return srv
}

func (a *app) newBroker(ctx context.Context) (*redis.RedisBroker, error) {
	rc := a.cfg.Redis
	return redis.NewRedisBroker(ctx, redis.Config{
		URL:          rc.URL,
		MaxRetries:   rc.MaxRetries,
		RetryBackoff: rc.RetryBackoff,
		PoolSize:     rc.PoolSize,
	}, a.log)
}

// startRelay runs the outbox processor and the retention sweep until ctx is done.
func (a *app) startRelay(ctx context.Context, db *sqlx.DB, broker *redis.RedisBroker, m *metrics.Metrics) error {
	oc := a.cfg.Outbox
	outbox := postgres.NewOutboxRepository(db)

	processor, err := worker.NewOutboxProcessor(outbox, broker, worker.OutboxProcessorConfig{
		BatchSize:     oc.BatchSize,
		PollInterval:  oc.PollInterval,
		RetryAttempts: oc.RetryAttempts,
		RetryDelay:    oc.RetryDelay,
		Lease:         oc.Lease,
		MaxDeliveries: oc.MaxDeliveries,
	}, a.log, m)
	if err != nil {
		return err
	}
	cleanup := worker.NewOutboxCleanupWorker(outbox, oc.Retention, oc.CleanupInterval, a.log, m)

	go processor.Start(ctx)
	go cleanup.Start(ctx)
	return nil
}
