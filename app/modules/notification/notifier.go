// Package notification delivers user-visible round notifications.
package notification

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Black-And-White-Club/golf-scorecard/internal/attr"
	"github.com/Black-And-White-Club/golf-scorecard/internal/eventbus"
	"github.com/ThreeDotsLabs/watermill/message"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

type Kind string

const (
	KindRoundStarted       Kind = "round_started"
	KindOfflineMode        Kind = "offline_mode"
	KindScoreSaveFailed    Kind = "score_save_failed"
	KindCompletionFailed   Kind = "completion_failed"
	KindValidationRejected Kind = "validation_rejected"
	KindHistorySaved       Kind = "history_saved"
	KindHistoryFailed      Kind = "history_failed"
	KindHistorySkipped     Kind = "history_skipped"
	KindRoundCompleted     Kind = "round_completed"
)

// Notification is one message for the operator of a round.
type Notification struct {
	RoundID   string            `json:"round_id,omitempty"`
	Level     Level             `json:"level"`
	Kind      Kind              `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// EventNotifier logs each notification at its level and publishes it on
// the notifications topic.
type EventNotifier struct {
	publisher message.Publisher
	logger    *slog.Logger
}

// NewEventNotifier creates an EventNotifier. A nil publisher only logs.
func NewEventNotifier(publisher message.Publisher, logger *slog.Logger) *EventNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventNotifier{publisher: publisher, logger: logger}
}

func (n *EventNotifier) Notify(ctx context.Context, note Notification) error {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}

	attrs := []any{
		attr.ExtractCorrelationID(ctx),
		attr.RoundID(note.RoundID),
		attr.String("kind", string(note.Kind)),
	}
	for k, v := range note.Details {
		attrs = append(attrs, attr.String(k, v))
	}
	n.logger.Log(ctx, logLevel(note.Level), note.Message, attrs...)

	if n.publisher == nil {
		return nil
	}
	return eventbus.PublishJSON(ctx, n.publisher, eventbus.TopicNotifications, note)
}

func logLevel(l Level) slog.Level {
	switch l {
	case LevelError:
		return slog.LevelError
	case LevelWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// MultiNotifier delivers to every notifier, joining their errors. Each one
// sees the same CreatedAt.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, note Notification) error {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, note); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// maxBufferedRounds bounds how many rounds a Buffer tracks.
const maxBufferedRounds = 100

// Buffer keeps the most recent notifications of each round in memory so HTTP
// clients can poll for them. A busy round never evicts another round's
// notifications; once too many rounds are tracked the oldest round is dropped.
type Buffer struct {
	mu     sync.Mutex
	rounds map[string][]Notification
	order  []string
	limit  int
}

// NewBuffer creates a Buffer holding up to limit notifications per round.
func NewBuffer(limit int) *Buffer {
	if limit <= 0 {
		limit = 50
	}
	return &Buffer{rounds: make(map[string][]Notification), limit: limit}
}

func (b *Buffer) Notify(_ context.Context, note Notification) error {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	items, ok := b.rounds[note.RoundID]
	if !ok {
		b.order = append(b.order, note.RoundID)
		if len(b.order) > maxBufferedRounds {
			delete(b.rounds, b.order[0])
			b.order = b.order[1:]
		}
	}
	items = append(items, note)
	if len(items) > b.limit {
		items = slices.Clone(items[len(items)-b.limit:])
	}
	b.rounds[note.RoundID] = items
	return nil
}

// Recent returns the buffered notifications of one round, oldest first.
func (b *Buffer) Recent(roundID string) []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.rounds[roundID])
}
