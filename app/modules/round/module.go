package round

import (
	"context"
	"log/slog"

	historyservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/history/application"
	"github.com/Black-And-White-Club/golf-scorecard/app/modules/notification"
	playerservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/player/application"
	roundservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/application"
	roundhandlers "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/infrastructure/handlers"
	scorecardservice "github.com/Black-And-White-Club/golf-scorecard/app/modules/scorecard/application"
	"github.com/Black-And-White-Club/golf-scorecard/config"
	"github.com/Black-And-White-Club/golf-scorecard/internal/breaker"
	"github.com/Black-And-White-Club/golf-scorecard/internal/metrics"
	"github.com/Black-And-White-Club/golf-scorecard/internal/ratelimit"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// Deps are the collaborators shared by every round.
type Deps struct {
	Tees      roundservice.TeeSource
	Store     scorecardservice.RemoteStore
	Queue     scorecardservice.WriteQueue
	Breaker   *breaker.Breaker
	History   historyservice.Service
	Players   playerservice.PlayerSource
	Publisher message.Publisher
	Logger    *slog.Logger
	Metrics   metrics.OperationMetrics
	Tracer    trace.Tracer
}

// Module owns the live rounds and their HTTP API.
type Module struct {
	registry *Registry
	notes    *notification.Buffer
	logger   *slog.Logger
}

// Registry is re-exported for callers that route queue failures.
type Registry = roundhandlers.Registry

// NewModule creates the round module and registers its routes on httpRouter.
func NewModule(ctx context.Context, cfg *config.Config, deps Deps, httpRouter chi.Router) *Module {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "Initializing round module")

	notes := notification.NewBuffer(200)
	notifier := notification.MultiNotifier{
		notification.NewEventNotifier(deps.Publisher, logger),
		notes,
	}

	sessionCfg := roundservice.Config{
		AutoAdvanceDelay:         cfg.Scoring.AutoAdvanceDelay,
		ScrambleAutoAdvanceDelay: cfg.Scoring.ScrambleAutoAdvanceDelay,
		LeaderboardDebounce:      cfg.Scoring.LeaderboardDebounce,
		DefaultMinDrives:         cfg.Scoring.MinDrivesPerPlayer,
	}
	gatewaySettings := scorecardservice.Settings{
		WriteRetries: cfg.Persistence.WriteRetries,
		RetryBackoff: cfg.Persistence.RetryBackoff,
	}

	factory := func() roundservice.Service {
		gateway := scorecardservice.NewGateway(deps.Store, deps.Queue, deps.Breaker, gatewaySettings,
			logger, deps.Metrics, deps.Tracer)
		return roundservice.NewSession(sessionCfg, roundservice.Deps{
			Tees:      deps.Tees,
			Gateway:   gateway,
			History:   deps.History,
			Notifier:  notifier,
			Publisher: deps.Publisher,
			Logger:    logger,
			Metrics:   deps.Metrics,
			Tracer:    deps.Tracer,
		})
	}

	registry := roundhandlers.NewRegistry(factory, logger)
	handlers := roundhandlers.NewRoundHandlers(registry, deps.Players, notes, logger, deps.Tracer)

	if httpRouter != nil {
		limiter := ratelimit.New(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst)
		httpRouter.Group(func(r chi.Router) {
			r.Use(ratelimit.CORS(cfg.HTTP.AllowedOrigins))
			r.Use(ratelimit.Middleware(limiter, nil))
			handlers.Routes(r)
		})
	}

	return &Module{registry: registry, notes: notes, logger: logger}
}

// Registry returns the live round registry.
func (m *Module) Registry() *Registry {
	return m.registry
}

// Close abandons every running round.
func (m *Module) Close() error {
	m.logger.Info("Stopping round module")
	m.registry.Close()
	m.logger.Info("Round module stopped")
	return nil
}
