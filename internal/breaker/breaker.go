// Package breaker guards remote calls with a timeout and a circuit breaker.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrOpen is returned while the breaker rejects calls.
var ErrOpen = errors.New("circuit breaker open")

// Settings configures a Breaker. Zero values fall back to defaults.
type Settings struct {
	Name         string
	CallTimeout  time.Duration
	OpenTimeout  time.Duration
	MaxRequests  uint32
	MinRequests  uint32
	FailureRatio float64
}

// Breaker wraps gobreaker with per-call context deadlines.
type Breaker struct {
	cb          *gobreaker.CircuitBreaker
	callTimeout time.Duration
}

func New(s Settings, logger *slog.Logger) *Breaker {
	if logger == nil {
		logger = slog.Default()
	}
	if s.MaxRequests == 0 {
		s.MaxRequests = 3
	}
	if s.MinRequests == 0 {
		s.MinRequests = 3
	}
	if s.FailureRatio == 0 {
		s.FailureRatio = 0.6
	}
	if s.OpenTimeout == 0 {
		s.OpenTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= s.MinRequests && failureRatio >= s.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				slog.String("component", "circuit_breaker"),
				slog.String("service", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &Breaker{
		cb:          gobreaker.NewCircuitBreaker(settings),
		callTimeout: s.CallTimeout,
	}
}

// Do runs fn under the breaker. A deadline exceeded counts as a failure.
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if b.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.callTimeout)
		defer cancel()
	}

	_, err := b.cb.Execute(func() (interface{}, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fn(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s", ErrOpen, b.cb.Name())
	}
	return err
}

// State returns the breaker state name (closed, half-open, open).
func (b *Breaker) State() string {
	return b.cb.State().String()
}
