package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"clubnexus/internal/config"
	"clubnexus/internal/membership"
	"clubnexus/internal/metrics"
	"clubnexus/internal/middleware"
	"clubnexus/internal/storage/postgres"
	"clubnexus/internal/storage/sqlite"
	"clubnexus/internal/telemetry"
	"clubnexus/pkg/logging"
)

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "membership", cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			slog.Warn("Failed to flush traces", "error", err)
		}
	}()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	m := metrics.New()
	svc, err := membership.NewService(ctx, store,
		membership.WithObserver(m),
		membership.WithLogger(slog.Default()),
		membership.WithFingerprintKey([]byte(cfg.FingerprintKey)),
	)
	if err != nil {
		return err
	}
	if err := seed(ctx, cfg, svc); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(svc, m, cfg.RateLimitPerMinute),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Starting Membership Service", "port", cfg.Port, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newRouter(svc membership.Service, m *metrics.Metrics, ratePerMinute int) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestContext)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Tracing)
	r.Use(middleware.Logging)
	r.Use(m.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ratePerMinute))
		membership.NewHandler(svc).Routes(r)
	})
	return r
}

// seed loads demo members into an empty store when seeding is enabled.
func seed(ctx context.Context, cfg config.Config, svc membership.Service) error {
	if !cfg.Seed || len(svc.List(ctx, membership.Query{})) > 0 {
		return nil
	}
	inputs := membership.SeedMembers()
	if cfg.SeedFile != "" {
		var err error
		if inputs, err = membership.LoadMembersFile(cfg.SeedFile); err != nil {
			return err
		}
	}
	if err := membership.Seed(ctx, svc, inputs); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Seeded members", "count", len(inputs))
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (membership.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		return sqlite.New(cfg.SQLitePath)
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.DatabaseURL)
	case config.DriverMemory:
		return membership.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
