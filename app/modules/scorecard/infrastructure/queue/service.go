package scorecardqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	scorecardservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/scorecard/application"
	"github.com/Black-And-White-Club/golf-scorecard/internal/attr"
	"github.com/Black-And-White-Club/golf-scorecard/internal/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"
)

const component = "river"

// Config tunes the queue.
type Config struct {
	DSN         string
	MaxAttempts int
	MaxWorkers  int
	JobTimeout  time.Duration
	// OnFailure is called when a job has used its last attempt.
	OnFailure func(ctx context.Context, w scorecardservice.ScoreWrite, err error)
}

// Service runs score writes on River.
type Service struct {
	client      *river.Client[pgx.Tx]
	pool        *pgxpool.Pool
	logger      *slog.Logger
	metrics     metrics.OperationMetrics
	maxAttempts int
}

var _ scorecardservice.WriteQueue = (*Service)(nil)

// NewService creates a River client on its own pgx pool. River requires pgx,
// not database/sql.
func NewService(ctx context.Context, cfg Config, store scorecardservice.RemoteStore, logger *slog.Logger, m metrics.OperationMetrics) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 25
	}

	ctxLogger := logger.With(
		attr.String("operation", "new_scorecard_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	m.RecordOperationAttempt(ctx, "initialize_service", component)

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		m.RecordOperationFailure(ctx, "initialize_service", component)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		m.RecordOperationFailure(ctx, "initialize_service", component)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		m.RecordOperationFailure(ctx, "initialize_service", component)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewScoreWriteWorker(store, ctxLogger, cfg.JobTimeout))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			QueueName: {MaxWorkers: cfg.MaxWorkers},
		},
		Workers:      workers,
		MaxAttempts:  cfg.MaxAttempts,
		ErrorHandler: &failureHandler{logger: ctxLogger, maxAttempts: cfg.MaxAttempts, onFailure: cfg.OnFailure},
		Logger:       logger,
	})
	if err != nil {
		pool.Close()
		m.RecordOperationFailure(ctx, "initialize_service", component)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	m.RecordOperationSuccess(ctx, "initialize_service", component)
	m.RecordOperationDuration(ctx, "initialize_service", component, time.Since(start))
	ctxLogger.Info("Scorecard queue service initialized")

	return &Service{client: client, pool: pool, logger: ctxLogger, metrics: m, maxAttempts: cfg.MaxAttempts}, nil
}

func (s *Service) Start(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "start_service", component)
	if err := s.client.Start(ctx); err != nil {
		s.metrics.RecordOperationFailure(ctx, "start_service", component)
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "start_service", component)
	s.logger.Info("Scorecard queue service started")
	return nil
}

// Stop waits for running jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "stop_service", component)
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		s.metrics.RecordOperationFailure(ctx, "stop_service", component)
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "stop_service", component)
	s.logger.Info("Scorecard queue service stopped")
	return nil
}

// EnqueueScoreWrite inserts a score write job.
func (s *Service) EnqueueScoreWrite(ctx context.Context, w scorecardservice.ScoreWrite) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_score_write", component)

	res, err := s.client.Insert(ctx, jobFromWrite(w), &river.InsertOpts{
		Queue:       QueueName,
		MaxAttempts: s.maxAttempts,
	})
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "enqueue_score_write", component)
		return fmt.Errorf("failed to enqueue score write: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "enqueue_score_write", component)
	s.metrics.RecordOperationDuration(ctx, "enqueue_score_write", component, time.Since(start))
	s.logger.DebugContext(ctx, "Score write enqueued",
		attr.ScorecardID(w.ScorecardID),
		attr.Hole(w.Hole),
		attr.Int64("job_id", res.Job.ID),
	)
	return nil
}

func jobFromWrite(w scorecardservice.ScoreWrite) ScoreWriteJob {
	return ScoreWriteJob{
		RoundID:     w.RoundID,
		PlayerID:    w.PlayerID,
		ScorecardID: w.ScorecardID,
		Hole:        w.Hole,
		Gross:       w.Gross,
		Version:     w.Version,
	}
}

func writeFromJob(j ScoreWriteJob) scorecardservice.ScoreWrite {
	return scorecardservice.ScoreWrite{
		RoundID:     j.RoundID,
		PlayerID:    j.PlayerID,
		ScorecardID: j.ScorecardID,
		Hole:        j.Hole,
		Gross:       j.Gross,
		Version:     j.Version,
	}
}

// failureHandler reports jobs that have used their final attempt.
type failureHandler struct {
	logger      *slog.Logger
	maxAttempts int
	onFailure   func(ctx context.Context, w scorecardservice.ScoreWrite, err error)
}

func (h *failureHandler) HandleError(ctx context.Context, job *rivertype.JobRow, err error) *river.ErrorHandlerResult {
	h.report(ctx, job, err)
	return nil
}

func (h *failureHandler) HandlePanic(ctx context.Context, job *rivertype.JobRow, panicVal any, trace string) *river.ErrorHandlerResult {
	h.report(ctx, job, fmt.Errorf("panic: %v", panicVal))
	return nil
}

func (h *failureHandler) report(ctx context.Context, job *rivertype.JobRow, err error) {
	if job.Kind != (ScoreWriteJob{}).Kind() || job.Attempt < job.MaxAttempts {
		return
	}
	var args ScoreWriteJob
	if uerr := json.Unmarshal(job.EncodedArgs, &args); uerr != nil {
		h.logger.ErrorContext(ctx, "Failed to decode exhausted job args", attr.Int64("job_id", job.ID), attr.Error(uerr))
		return
	}
	h.logger.ErrorContext(ctx, "Score write exhausted retries",
		attr.RoundID(args.RoundID),
		attr.ScorecardID(args.ScorecardID),
		attr.Hole(args.Hole),
		attr.Int("attempts", job.Attempt),
		attr.Error(err),
	)
	if h.onFailure != nil {
		h.onFailure(ctx, writeFromJob(args), &scorecardservice.TransientPersistenceError{
			Op:          "save_score",
			ScorecardID: args.ScorecardID,
			Err:         err,
		})
	}
}
