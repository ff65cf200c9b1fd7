package scorecardservice

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Black-And-White-Club/golf-scorecard/internal/attr"
	"github.com/Black-And-White-Club/golf-scorecard/internal/breaker"
	"github.com/Black-And-White-Club/golf-scorecard/internal/metrics"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const serviceName = "PersistenceGateway"

// Settings tunes the gateway. Zero values fall back to defaults.
type Settings struct {
	WriteRetries int
	RetryBackoff time.Duration
}

// Gateway writes one round's scorecards to the remote store, falling back to
// offline cards when the store cannot be reached at round start.
type Gateway struct {
	store    RemoteStore
	queue    WriteQueue
	breaker  *breaker.Breaker
	settings Settings
	logger   *slog.Logger
	metrics  metrics.OperationMetrics
	tracer   trace.Tracer

	inflight sync.WaitGroup
	// life bounds in-process retries; Close cancels it.
	life context.Context
	stop context.CancelFunc

	mu          sync.Mutex
	roundID     string
	lastVersion int64
	onFailure   func(WriteFailure)

	now func() time.Time
}

// NewGateway creates a Gateway. A nil store makes every round offline; a nil
// queue retries writes in process.
func NewGateway(
	store RemoteStore,
	queue WriteQueue,
	cb *breaker.Breaker,
	settings Settings,
	logger *slog.Logger,
	metrics metrics.OperationMetrics,
	tracer trace.Tracer,
) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	if cb == nil {
		cb = breaker.New(breaker.Settings{Name: "scorecard-store"}, logger)
	}
	if settings.WriteRetries <= 0 {
		settings.WriteRetries = 3
	}
	if settings.RetryBackoff <= 0 {
		settings.RetryBackoff = 250 * time.Millisecond
	}
	life, stop := context.WithCancel(context.Background())
	return &Gateway{
		life:     life,
		stop:     stop,
		store:    store,
		queue:    queue,
		breaker:  cb,
		settings: settings,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		now:      time.Now,
	}
}

var _ Service = (*Gateway)(nil)

// OnWriteFailure registers the callback for writes that exhausted retries.
func (g *Gateway) OnWriteFailure(fn func(WriteFailure)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onFailure = fn
}

// CreateScorecards creates every card in parallel. Any failure makes the
// whole round offline.
func (g *Gateway) CreateScorecards(ctx context.Context, req CreateRequest) Roster {
	ctx, end := g.observe(ctx, "CreateScorecards", req.RoundID)
	g.mu.Lock()
	g.roundID = req.RoundID
	g.mu.Unlock()

	if g.store == nil {
		end(nil)
		return offlineRoster(req, ErrNoRemoteStore)
	}

	ids := make([]string, len(req.Players))
	errs := make([]error, len(req.Players))

	var eg errgroup.Group
	for i, p := range req.Players {
		eg.Go(func() error {
			errs[i] = g.breaker.Do(ctx, func(ctx context.Context) error {
				id, err := g.store.Create(ctx, req.EventID, p.PlayerID, p.Handicap)
				ids[i] = id
				return err
			})
			if errs[i] != nil {
				errs[i] = &TransientPersistenceError{Op: "create_scorecard", Err: errs[i]}
			}
			return nil
		})
	}
	_ = eg.Wait()

	if cause := errors.Join(errs...); cause != nil {
		g.logger.WarnContext(ctx, "Scorecard creation failed, round continues offline",
			attr.ExtractCorrelationID(ctx),
			attr.RoundID(req.RoundID),
			attr.Error(cause),
		)
		end(nil)
		return offlineRoster(req, cause)
	}

	roster := Roster{Mode: ModeOnline, Cards: make([]Card, 0, len(req.Players))}
	for i, p := range req.Players {
		roster.Cards = append(roster.Cards, Card{PlayerID: p.PlayerID, ScorecardID: ids[i]})
	}
	end(nil)
	return roster
}

func offlineRoster(req CreateRequest, cause error) Roster {
	roster := Roster{Mode: ModeOffline, FallbackCause: cause, Cards: make([]Card, 0, len(req.Players))}
	for _, p := range req.Players {
		roster.Cards = append(roster.Cards, Card{PlayerID: p.PlayerID, ScorecardID: OfflinePrefix + uuid.NewString()})
	}
	return roster
}

// nextVersion is strictly increasing within the gateway and tracks wall
// time, so a later write always carries a larger version.
func (g *Gateway) nextVersion() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	v := g.now().UnixNano()
	if v <= g.lastVersion {
		v = g.lastVersion + 1
	}
	g.lastVersion = v
	return v
}

// SaveScore writes a hole score in the background. Offline cards are kept
// locally only.
func (g *Gateway) SaveScore(ctx context.Context, card Card, hole, gross int) {
	if card.Offline() || (g.store == nil && g.queue == nil) || g.life.Err() != nil {
		return
	}

	w := ScoreWrite{
		RoundID:     g.round(),
		PlayerID:    card.PlayerID,
		ScorecardID: card.ScorecardID,
		Hole:        hole,
		Gross:       gross,
		Version:     g.nextVersion(),
	}

	// The write outlives the request that triggered it but not the gateway.
	bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
	unlink := context.AfterFunc(g.life, cancel)
	g.inflight.Add(1)
	go func() {
		defer g.inflight.Done()
		defer cancel()
		defer unlink()
		err := g.write(bg, w)
		if err == nil {
			return
		}
		if g.life.Err() != nil {
			g.logger.DebugContext(bg, "Score write dropped after gateway close",
				attr.ScorecardID(w.ScorecardID),
				attr.Hole(w.Hole),
			)
			return
		}
		g.reportFailure(bg, WriteFailure{Write: w, Err: err})
	}()
}

// Close cancels in-process retries. Writes already handed to the queue are
// unaffected.
func (g *Gateway) Close() {
	g.stop()
}

func (g *Gateway) round() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.roundID
}

func (g *Gateway) write(ctx context.Context, w ScoreWrite) error {
	ctx, end := g.observe(ctx, "SaveScore", w.ScorecardID)

	if g.queue != nil {
		err := g.queue.EnqueueScoreWrite(ctx, w)
		if err != nil {
			err = &TransientPersistenceError{Op: "enqueue_score", ScorecardID: w.ScorecardID, Err: err}
		}
		end(err)
		return err
	}

	attempt := 0
	err := backoff.RetryNotify(
		func() error {
			attempt++
			return g.breaker.Do(ctx, func(ctx context.Context) error {
				return g.store.SaveScore(ctx, w.ScorecardID, w.Hole, w.Gross, w.Version)
			})
		},
		g.retryPolicy(ctx),
		func(err error, wait time.Duration) {
			g.logger.DebugContext(ctx, "Score write attempt failed",
				attr.ScorecardID(w.ScorecardID),
				attr.Hole(w.Hole),
				attr.Int("attempt", attempt),
				attr.Duration("retry_in", wait),
				attr.Error(err),
			)
		},
	)
	if err != nil {
		err = &TransientPersistenceError{Op: "save_score", ScorecardID: w.ScorecardID, Err: err}
	}
	end(err)
	return err
}

// retryPolicy allows WriteRetries attempts in total with exponential waits
// starting at RetryBackoff, stopping early when ctx ends.
func (g *Gateway) retryPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.settings.RetryBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0.2
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(g.settings.WriteRetries-1)), ctx)
}

func (g *Gateway) reportFailure(ctx context.Context, f WriteFailure) {
	g.logger.ErrorContext(ctx, "Score write failed",
		attr.RoundID(f.Write.RoundID),
		attr.PlayerID(f.Write.PlayerID),
		attr.ScorecardID(f.Write.ScorecardID),
		attr.Hole(f.Write.Hole),
		attr.Error(f.Err),
	)
	g.mu.Lock()
	fn := g.onFailure
	g.mu.Unlock()
	if fn != nil {
		fn(f)
	}
}

// Flush waits for background writes issued so far. With a queue a write is
// done once River has accepted the job, so River may apply it after
// MarkComplete. That is safe: completion only stamps completed_at and the
// versioned upsert still keeps the newest score.
func (g *Gateway) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MarkComplete marks every online card complete. Failures are returned as a
// *CompletionError; offline cards are skipped.
func (g *Gateway) MarkComplete(ctx context.Context, cards []Card) error {
	ctx, end := g.observe(ctx, "MarkComplete", "")
	if g.store == nil {
		end(nil)
		return nil
	}

	var mu sync.Mutex
	failed := map[string]error{}

	var eg errgroup.Group
	for _, c := range cards {
		if c.Offline() {
			continue
		}
		eg.Go(func() error {
			err := g.breaker.Do(ctx, func(ctx context.Context) error {
				return g.store.MarkComplete(ctx, c.ScorecardID)
			})
			if err != nil {
				mu.Lock()
				failed[c.PlayerID] = &TransientPersistenceError{Op: "mark_complete", ScorecardID: c.ScorecardID, Err: err}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()

	if len(failed) > 0 {
		err := &CompletionError{Failed: failed}
		end(err)
		return err
	}
	end(nil)
	return nil
}

// observe starts a span and records attempt, outcome and duration.
func (g *Gateway) observe(ctx context.Context, op, identifier string) (context.Context, func(error)) {
	var span trace.Span
	if g.tracer != nil {
		ctx, span = g.tracer.Start(ctx, op, trace.WithAttributes(
			attribute.String("operation", op),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	if g.metrics != nil {
		g.metrics.RecordOperationAttempt(ctx, op, serviceName)
	}
	start := time.Now()

	return ctx, func(err error) {
		defer span.End()
		if g.metrics == nil {
			return
		}
		g.metrics.RecordOperationDuration(ctx, op, serviceName, time.Since(start))
		if err != nil {
			span.RecordError(err)
			g.metrics.RecordOperationFailure(ctx, op, serviceName)
			return
		}
		g.metrics.RecordOperationSuccess(ctx, op, serviceName)
	}
}
