package leaderboardservice

import (
	"context"
	"log/slog"
	"sync"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/golf-scorecard/internal/attr"
	"github.com/Black-And-White-Club/golf-scorecard/internal/debounce"
	"github.com/Black-And-White-Club/golf-scorecard/internal/eventbus"
	"github.com/Black-And-White-Club/golf-scorecard/internal/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName = "LeaderboardAggregator"

	// DefaultDebounce is how long the aggregator waits for entries to settle.
	DefaultDebounce = 500 * time.Millisecond
)

// Source returns the current score cache projection.
type Source func() leaderboarddomain.Input

// UpdatedPayload is published on TopicLeaderboardUpdated.
type UpdatedPayload struct {
	RoundID    string                      `json:"round_id"`
	Standings  leaderboarddomain.Standings `json:"standings"`
	ComputedAt time.Time                   `json:"computed_at"`
}

// Aggregator recomputes standings after score entry settles and publishes
// them. Standings that did not change are not republished.
type Aggregator struct {
	roundID   string
	source    Source
	publisher message.Publisher
	logger    *slog.Logger
	metrics   metrics.OperationMetrics
	tracer    trace.Tracer
	debouncer *debounce.Debouncer

	mu          sync.RWMutex
	latest      leaderboarddomain.Standings
	fingerprint string
}

// NewAggregator creates an Aggregator for one round. A nil publisher keeps
// standings local.
func NewAggregator(
	roundID string,
	source Source,
	publisher message.Publisher,
	delay time.Duration,
	logger *slog.Logger,
	metrics metrics.OperationMetrics,
	tracer trace.Tracer,
) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}
	a := &Aggregator{
		roundID:   roundID,
		source:    source,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
	}
	a.debouncer = debounce.New(delay, func() {
		if _, err := a.RecomputeNow(context.Background()); err != nil {
			a.logger.Error("Debounced leaderboard recompute failed",
				attr.RoundID(a.roundID),
				attr.Error(err),
			)
		}
	})
	return a
}

// Schedule restarts the debounce countdown.
func (a *Aggregator) Schedule() {
	a.debouncer.Trigger()
}

// Pending reports whether a recompute is scheduled.
func (a *Aggregator) Pending() bool {
	return a.debouncer.Pending()
}

// Latest returns the most recently computed standings.
func (a *Aggregator) Latest() leaderboarddomain.Standings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latest
}

// RecomputeNow builds standings from a fresh snapshot, cancelling any pending
// debounced run.
func (a *Aggregator) RecomputeNow(ctx context.Context) (leaderboarddomain.Standings, error) {
	a.debouncer.Cancel()

	const op = "RecomputeLeaderboard"
	var span trace.Span
	if a.tracer != nil {
		ctx, span = a.tracer.Start(ctx, op, trace.WithAttributes(attribute.String("round_id", a.roundID)))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if a.metrics != nil {
		a.metrics.RecordOperationAttempt(ctx, op, serviceName)
		start := time.Now()
		defer func() { a.metrics.RecordOperationDuration(ctx, op, serviceName, time.Since(start)) }()
	}

	standings := leaderboarddomain.Build(a.source())
	fp := leaderboarddomain.Fingerprint(standings)

	a.mu.Lock()
	changed := fp != a.fingerprint
	a.latest = standings
	a.mu.Unlock()

	if !changed || a.publisher == nil {
		a.setFingerprint(fp)
		a.logger.DebugContext(ctx, "Leaderboard recomputed",
			attr.RoundID(a.roundID),
			attr.Bool("changed", changed),
		)
		a.recordSuccess(ctx, op)
		return standings, nil
	}

	payload := UpdatedPayload{RoundID: a.roundID, Standings: standings, ComputedAt: time.Now().UTC()}
	if err := eventbus.PublishJSON(ctx, a.publisher, eventbus.TopicLeaderboardUpdated, payload); err != nil {
		span.RecordError(err)
		if a.metrics != nil {
			a.metrics.RecordOperationFailure(ctx, op, serviceName)
		}
		return standings, err
	}
	a.setFingerprint(fp)

	a.logger.InfoContext(ctx, "Leaderboard updated",
		attr.ExtractCorrelationID(ctx),
		attr.RoundID(a.roundID),
		attr.Int("boards", len(standings.Boards)),
	)
	a.recordSuccess(ctx, op)
	return standings, nil
}

func (a *Aggregator) setFingerprint(fp string) {
	a.mu.Lock()
	a.fingerprint = fp
	a.mu.Unlock()
}

func (a *Aggregator) recordSuccess(ctx context.Context, op string) {
	if a.metrics != nil {
		a.metrics.RecordOperationSuccess(ctx, op, serviceName)
	}
}

// Stop cancels any pending recompute. Later schedules are ignored.
func (a *Aggregator) Stop() {
	a.debouncer.Stop()
}
