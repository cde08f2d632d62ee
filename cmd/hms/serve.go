package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/hospital-api/internal/email"
	"github.com/jwalitptl/hospital-api/internal/handler/appointment"
	authhandler "github.com/jwalitptl/hospital-api/internal/handler/auth"
	"github.com/jwalitptl/hospital-api/internal/handler/doctor"
	"github.com/jwalitptl/hospital-api/internal/handler/health"
	"github.com/jwalitptl/hospital-api/internal/handler/invoice"
	"github.com/jwalitptl/hospital-api/internal/handler/legacy"
	"github.com/jwalitptl/hospital-api/internal/handler/patient"
	promhandler "github.com/jwalitptl/hospital-api/internal/handler/prometheus"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/repository/postgres"
	"github.com/jwalitptl/hospital-api/internal/router"
	authservice "github.com/jwalitptl/hospital-api/internal/service/auth"
	"github.com/jwalitptl/hospital-api/internal/service/billing"
	"github.com/jwalitptl/hospital-api/internal/service/booking"
	"github.com/jwalitptl/hospital-api/internal/service/feedback"
	patientservice "github.com/jwalitptl/hospital-api/internal/service/patient"
	"github.com/jwalitptl/hospital-api/internal/service/pharmacy"
	"github.com/jwalitptl/hospital-api/internal/service/physician"
	"github.com/jwalitptl/hospital-api/internal/service/staff"
	"github.com/jwalitptl/hospital-api/internal/service/visit"
	"github.com/jwalitptl/hospital-api/pkg/auth"
	"github.com/jwalitptl/hospital-api/pkg/messaging/redis"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
	"github.com/jwalitptl/hospital-api/pkg/security"
	"github.com/jwalitptl/hospital-api/pkg/worker"
)

const metricsNamespace = "hms"

func serveCmd(a *app) *cobra.Command {
	var withRelay bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context(), withRelay)
		},
	}
	cmd.Flags().BoolVar(&withRelay, "with-relay", false, "also run the outbox relay in this process")
	return cmd
}

func (a *app) serve(parent context.Context, withRelay bool) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := a.cfg

	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(metricsNamespace, registry)

	repos := postgres.NewRepositories(db)

	jwtSvc := auth.NewJWTService(auth.Config{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		Expiry: cfg.JWT.Expiry(),
	}, auth.NewRevocationList(time.Minute))
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost, cfg.Auth.MinPasswordLength)

	mailer := email.NewNoop()
	if cfg.SMTP.Enabled() {
		mailer = email.New(cfg.SMTP)
	}

	authSvc := authservice.NewService(repos.Credentials, hasher, jwtSvc)
	bookingSvc := booking.NewService(repos.Appointments, repos.Wards, m)
	staffSvc := staff.NewService(repos.Employees, repos.Appointments, m)
	pharmacySvc := pharmacy.NewService(repos.Pharmacy, m)
	feedbackSvc := feedback.NewService(repos.Feedback)
	patientSvc := patientservice.NewService(repos.Patients)
	physicianSvc := physician.NewService(repos.Physicians)
	visitSvc := visit.NewService(repos.Visits, repos.Patients, repos.Physicians, mailer)
	billingSvc := billing.NewService(repos.Invoices, repos.Patients, repos.Visits, m)

	checks := map[string]health.Check{
		"database": db.PingContext,
	}

	var broker *redis.RedisBroker
	if cfg.Redis.URL != "" {
		broker, err = a.newBroker(ctx)
		if err != nil {
			return err
		}
		defer broker.Close()
		checks["broker"] = broker.Ping
	}

	handlers := router.Handlers{
		Legacy:      legacy.NewHandler(bookingSvc, staffSvc, pharmacySvc, feedbackSvc, authSvc),
		Auth:        authhandler.NewHandler(authSvc),
		Patient:     patient.NewHandler(patientSvc),
		Doctor:      doctor.NewHandler(physicianSvc),
		Appointment: appointment.NewHandler(visitSvc),
		Invoice:     invoice.NewHandler(billingSvc),
		Health:      health.NewHandler(checks),
		Metrics:     promhandler.New(registry, metricsNamespace),
	}

	r := router.NewRouter(middleware.NewAuthMiddleware(authSvc), handlers, router.RouterConfig{
		RequestTimeout:    cfg.Server.RequestTimeout,
		MaxBodySize:       cfg.Server.MaxBodySize,
		AllowedOrigins:    cfg.CORS.AllowedOrigins,
		RateLimitEnabled:  cfg.RateLimit.Enabled,
		RateLimitRPS:      cfg.RateLimit.RPS,
		RateLimitBurst:    cfg.RateLimit.Burst,
		LegacyRequireAuth: cfg.Legacy.RequireAuth,
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	switch {
	case withRelay && broker == nil:
		return errors.New("--with-relay needs redis.url")
	case withRelay:
		if err := a.startRelay(ctx, db, broker, m); err != nil {
			return err
		}
	default:
		// Retention still applies when a separate relay delivers the events.
		// Without redis.url nothing can, so undelivered events expire too.
		cleanup := worker.NewOutboxCleanupWorker(repos.Outbox, cfg.Outbox.Retention, cfg.Outbox.CleanupInterval, a.log, m)
		if broker == nil {
			cleanup.PurgeUndelivered()
		}
		go cleanup.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.log.Info().Msg("server exited properly")
	return nil
}

func (a *app) openDB(ctx context.Context) (*sqlx.DB, error) {
	return postgres.NewDB(ctx, a.cfg.Database)
}
