// Package attr provides slog attribute helpers shared by every module.
package attr

import (
	"context"
	"log/slog"
	"time"
)

type correlationKey struct{}

// WithCorrelationID stores a correlation id on the context for log enrichment.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the correlation id stored on ctx, or "".
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// ExtractCorrelationID returns the correlation id as a log attribute.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	return slog.String("correlation_id", CorrelationID(ctx))
}

func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

func Int64(key string, value int64) slog.Attr {
	return slog.Int64(key, value)
}

func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

func Float64(key string, value float64) slog.Attr {
	return slog.Float64(key, value)
}

func Duration(key string, value time.Duration) slog.Attr {
	return slog.Duration(key, value)
}

func Time(key string, value time.Time) slog.Attr {
	return slog.Time(key, value)
}

func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Error returns an "error" attribute. A nil error logs as an empty string.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

func RoundID(id string) slog.Attr {
	return slog.String("round_id", id)
}

func PlayerID(id string) slog.Attr {
	return slog.String("player_id", id)
}

func ScorecardID(id string) slog.Attr {
	return slog.String("scorecard_id", id)
}

func Hole(n int) slog.Attr {
	return slog.Int("hole", n)
}
