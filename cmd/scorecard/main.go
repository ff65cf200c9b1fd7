package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	courseservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/application"
	coursedb "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/infrastructure/repositories"
	historyservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/history/application"
	historydb "github.com/Black-And-White-Club/golf-scorecard/app/modules/history/infrastructure/repositories"
	playerservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/player/application"
	playerdb "github.com/Black-And-White-Club/golf-scorecard/app/modules/player/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-scorecard/app/modules/round"
	scorecardservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/scorecard/application"
	scorecardqueue "github.com/Black-And-White-Club/golf-scorecard/app/modules/scorecard/infrastructure/queue"
	scorecarddb "github.com/Black-And-White-Club/golf-scorecard/app/modules/scorecard/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-scorecard/config"
	"github.com/Black-And-White-Club/golf-scorecard/internal/attr"
	"github.com/Black-And-White-Club/golf-scorecard/internal/breaker"
	"github.com/Black-And-White-Club/golf-scorecard/internal/eventbus"
	"github.com/Black-And-White-Club/golf-scorecard/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.Observability)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Scorecard service failed", attr.Error(err))
		os.Exit(1)
	}
	logger.Info("Scorecard service shut down gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opMetrics, err := metrics.NewPrometheus(reg, "scorecard")
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	tracer := otel.Tracer("golf-scorecard")

	publisher, err := eventbus.NewPublisher(eventbus.Config{NATSURL: cfg.NATS.URL}, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()
	publisher, err = eventbus.WithMetrics(publisher, reg)
	if err != nil {
		return fmt.Errorf("failed to decorate publisher: %w", err)
	}

	deps := round.Deps{
		Breaker: breaker.New(breaker.Settings{
			Name:        "scorecard-store",
			CallTimeout: cfg.Persistence.RemoteTimeout,
		}, logger),
		Publisher: publisher,
		Logger:    logger,
		Metrics:   opMetrics,
		Tracer:    tracer,
	}

	var (
		db     *bun.DB
		queue  *scorecardqueue.Service
		rounds *round.Module
	)
	if cfg.Postgres.DSN != "" {
		db = bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN))), pgdialect.New())
		defer db.Close()

		courses := courseservice.NewCourseService(coursedb.NewRepository(db), logger, opMetrics, tracer, db)
		if err := seedCourses(ctx, courses, cfg.Courses.Files); err != nil {
			return err
		}
		store := scorecarddb.NewStore(db)

		deps.Tees = courses
		deps.Store = store
		deps.History = historyservice.NewRecorder(historydb.NewRepository(db), logger, opMetrics, tracer, db)
		deps.Players = playerservice.NewSource(playerdb.NewRepository(db), logger)

		if cfg.Persistence.QueueEnabled {
			queue, err = scorecardqueue.NewService(ctx, scorecardqueue.Config{
				DSN:         cfg.Postgres.DSN,
				MaxAttempts: cfg.Persistence.QueueMaxAttempts,
				MaxWorkers:  cfg.Persistence.QueueMaxWorkers,
				JobTimeout:  cfg.Persistence.RemoteTimeout,
				OnFailure: func(ctx context.Context, w scorecardservice.ScoreWrite, err error) {
					if rounds != nil {
						rounds.Registry().ReportWriteFailure(ctx, w, err)
					}
				},
			}, store, logger, opMetrics)
			if err != nil {
				return err
			}
			deps.Queue = queue
		}
	} else {
		logger.Warn("No database configured, every round runs offline")
		tees := courseservice.NewMemoryTees()
		if err := seedCourses(ctx, tees, cfg.Courses.Files); err != nil {
			return err
		}
		deps.Tees = tees
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(correlation)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	rounds = round.NewModule(ctx, cfg, deps, router)
	defer rounds.Close()

	if queue != nil {
		if err := queue.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := queue.Stop(stopCtx); err != nil {
				logger.Error("Failed to stop score write queue", attr.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", attr.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown failed: %w", err)
	}
	return nil
}

func seedCourses(ctx context.Context, courses courseservice.Service, files []string) error {
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open course file: %w", err)
		}
		tees, err := courseservice.ParseCourseFile(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		for _, tee := range tees {
			if err := courses.ImportTee(ctx, tee); err != nil {
				return fmt.Errorf("failed to import %s/%s: %w", tee.CourseID(), tee.Name(), err)
			}
		}
	}
	return nil
}

// correlation carries chi's request id into log attributes.
func correlation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			r = r.WithContext(attr.WithCorrelationID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func newLogger(cfg config.ObservabilityConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Environment == "development" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts)).With(attr.String("env", cfg.Environment))
}
