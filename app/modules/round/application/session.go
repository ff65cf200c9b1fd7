package roundservice

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	coursedomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/course/domain"
	historyservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/history/application"
	historydomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/history/domain"
	leaderboardservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/golf-scorecard/app/modules/notification"
	rounddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/domain"
	scorecardservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/scorecard/application"
	scoringdomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/golf-scorecard/internal/attr"
	"github.com/Black-And-White-Club/golf-scorecard/internal/debounce"
	"github.com/Black-And-White-Club/golf-scorecard/internal/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "RoundSession"

// Config holds the session timings. Zero values fall back to defaults.
type Config struct {
	AutoAdvanceDelay         time.Duration
	ScrambleAutoAdvanceDelay time.Duration
	LeaderboardDebounce      time.Duration
	FlushTimeout             time.Duration
	DefaultMinDrives         int
}

func (c *Config) applyDefaults() {
	if c.AutoAdvanceDelay <= 0 {
		c.AutoAdvanceDelay = 500 * time.Millisecond
	}
	if c.ScrambleAutoAdvanceDelay <= 0 {
		c.ScrambleAutoAdvanceDelay = 1500 * time.Millisecond
	}
	if c.LeaderboardDebounce <= 0 {
		c.LeaderboardDebounce = leaderboardservice.DefaultDebounce
	}
	if c.FlushTimeout <= 0 {
		c.FlushTimeout = 10 * time.Second
	}
}

// Deps are the collaborators of a session.
type Deps struct {
	Tees      TeeSource
	Gateway   scorecardservice.Service
	History   historyservice.Service
	Notifier  notification.Notifier
	Publisher message.Publisher
	Logger    *slog.Logger
	Metrics   metrics.OperationMetrics
	Tracer    trace.Tracer
	Now       func() time.Time
}

// StartRequest describes the round to play.
type StartRequest struct {
	RoundID            string                 `json:"round_id,omitempty"`
	EventID            string                 `json:"event_id,omitempty"`
	CourseID           string                 `json:"course_id"`
	Tee                string                 `json:"tee"`
	Players            []rounddomain.Player   `json:"players"`
	Formats            []scoringdomain.Format `json:"formats"`
	Teams              []rounddomain.Team     `json:"teams,omitempty"`
	MatchBasis         scoringdomain.Basis    `json:"match_basis,omitempty"`
	MinDrivesPerPlayer int                    `json:"min_drives_per_player,omitempty"`
}

// ScoreInput is one score entered by the scorer. In a scramble the
// competitor is a team, or any member of it.
type ScoreInput struct {
	CompetitorID  string `json:"competitor_id"`
	Hole          int    `json:"hole"`
	Gross         int    `json:"gross"`
	DrivePlayerID string `json:"drive_player_id,omitempty"`
}

// Session is one group's live round. All methods are safe for concurrent use.
type Session struct {
	cfg  Config
	deps Deps

	mu        sync.Mutex
	starting  bool
	id        string
	state     rounddomain.State
	hole      int
	req       StartRequest
	tee       *coursedomain.Tee
	cache     *rounddomain.ScoreCache
	drives    map[string]map[int]string
	roster    scorecardservice.Roster
	startedAt time.Time

	board   *leaderboardservice.Aggregator
	advance *debounce.Debouncer
	// advanceFrom is the hole a pending auto-advance moves on from.
	advanceFrom int

	failedHistory []historyservice.FailedRecord
	skipped       []historydomain.SkippedPlayer
	failedWrites  []scorecardservice.WriteFailure
	completionErr error
}

// NewSession creates a session in the not started state.
func NewSession(cfg Config, deps Deps) *Session {
	cfg.applyDefaults()
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Notifier == nil {
		deps.Notifier = notification.NewEventNotifier(nil, deps.Logger)
	}
	return &Session{
		cfg:   cfg,
		deps:  deps,
		state: rounddomain.StateNotStarted,
		cache: rounddomain.NewScoreCache(),
	}
}

var _ Service = (*Session)(nil)

// ID returns the round id once started.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// State returns the lifecycle state.
func (s *Session) State() rounddomain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) scramble() bool {
	return slices.Contains(s.req.Formats, scoringdomain.FormatScramble)
}

func (s *Session) notify(ctx context.Context, level notification.Level, kind notification.Kind, msg string, details map[string]string) {
	err := s.deps.Notifier.Notify(ctx, notification.Notification{
		RoundID:   s.ID(),
		Level:     level,
		Kind:      kind,
		Message:   msg,
		Details:   details,
		CreatedAt: s.deps.Now().UTC(),
	})
	if err != nil {
		s.deps.Logger.WarnContext(ctx, "Failed to deliver notification",
			attr.String("kind", string(kind)),
			attr.Error(err),
		)
	}
}

// observe starts a span and records attempt, outcome and duration.
func (s *Session) observe(ctx context.Context, op string) (context.Context, func(error)) {
	var span trace.Span
	if s.deps.Tracer != nil {
		ctx, span = s.deps.Tracer.Start(ctx, op, trace.WithAttributes(
			attribute.String("operation", op),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	m := s.deps.Metrics
	if m != nil {
		m.RecordOperationAttempt(ctx, op, serviceName)
	}
	start := time.Now()

	return ctx, func(err error) {
		defer span.End()
		if err != nil {
			span.RecordError(err)
		}
		if m == nil {
			return
		}
		m.RecordOperationDuration(ctx, op, serviceName, time.Since(start))
		if err != nil {
			m.RecordOperationFailure(ctx, op, serviceName)
			return
		}
		m.RecordOperationSuccess(ctx, op, serviceName)
	}
}
