package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/golf-scorecard/internal/eventbus"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingNotifier struct{ err error }

func (f failingNotifier) Notify(context.Context, Notification) error { return f.err }

type notifierFunc func(ctx context.Context, n Notification) error

func (f notifierFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

func TestEventNotifierPublishesAndLogs(t *testing.T) {
	pubsub := eventbus.NewGoChannel(watermill.NopLogger{})
	defer pubsub.Close()
	messages, err := pubsub.Subscribe(context.Background(), eventbus.TopicNotifications)
	require.NoError(t, err)

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	n := NewEventNotifier(pubsub, logger)

	err = n.Notify(context.Background(), Notification{
		RoundID: "r1",
		Level:   LevelError,
		Kind:    KindHistoryFailed,
		Message: "History not saved for Bob",
		Details: map[string]string{"player": "Bob"},
	})
	require.NoError(t, err)

	select {
	case msg := <-messages:
		msg.Ack()
		var got Notification
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, KindHistoryFailed, got.Kind)
		assert.Equal(t, "Bob", got.Details["player"])
		assert.False(t, got.CreatedAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
	}

	assert.Contains(t, logs.String(), `"level":"ERROR"`)
	assert.Contains(t, logs.String(), "History not saved for Bob")
}

func TestEventNotifierWithoutPublisher(t *testing.T) {
	n := NewEventNotifier(nil, slog.Default())
	assert.NoError(t, n.Notify(context.Background(), Notification{Level: LevelInfo, Message: "hi"}))
}

func TestMultiNotifierDeliversToAll(t *testing.T) {
	buf := NewBuffer(10)
	boom := errors.New("boom")
	m := MultiNotifier{failingNotifier{err: boom}, buf}

	err := m.Notify(context.Background(), Notification{RoundID: "r1", Kind: KindRoundStarted})

	assert.ErrorIs(t, err, boom)
	require.Len(t, buf.Recent("r1"), 1)
}

func TestMultiNotifierStampsCreatedAtOnce(t *testing.T) {
	var published []Notification
	recorder := notifierFunc(func(_ context.Context, n Notification) error {
		published = append(published, n)
		return nil
	})
	buf := NewBuffer(10)
	m := MultiNotifier{NewEventNotifier(nil, slog.Default()), recorder, buf}

	require.NoError(t, m.Notify(context.Background(), Notification{RoundID: "r1", Kind: KindRoundStarted}))

	stored := buf.Recent("r1")
	require.Len(t, stored, 1)
	require.Len(t, published, 1)
	assert.False(t, stored[0].CreatedAt.IsZero())
	assert.Equal(t, published[0].CreatedAt, stored[0].CreatedAt)
}

func TestBufferKeepsGivenCreatedAt(t *testing.T) {
	at := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	buf := NewBuffer(10)

	require.NoError(t, buf.Notify(context.Background(), Notification{RoundID: "r1", CreatedAt: at}))

	assert.Equal(t, at, buf.Recent("r1")[0].CreatedAt)
}

func TestBufferKeepsMostRecent(t *testing.T) {
	buf := NewBuffer(2)
	for _, k := range []Kind{KindRoundStarted, KindOfflineMode, KindRoundCompleted} {
		require.NoError(t, buf.Notify(context.Background(), Notification{RoundID: "r1", Kind: k}))
	}

	recent := buf.Recent("r1")
	require.Len(t, recent, 2)
	assert.Equal(t, KindOfflineMode, recent[0].Kind)
	assert.Equal(t, KindRoundCompleted, recent[1].Kind)
}

func TestBufferIsolatesRounds(t *testing.T) {
	ctx := context.Background()
	buf := NewBuffer(3)
	require.NoError(t, buf.Notify(ctx, Notification{RoundID: "quiet", Kind: KindRoundStarted}))
	for range 10 {
		require.NoError(t, buf.Notify(ctx, Notification{RoundID: "busy", Kind: KindScoreSaveFailed}))
	}

	quiet := buf.Recent("quiet")
	require.Len(t, quiet, 1)
	assert.Equal(t, KindRoundStarted, quiet[0].Kind)
	assert.Len(t, buf.Recent("busy"), 3)
	assert.Empty(t, buf.Recent("unknown"))
}

func TestBufferDropsOldestRound(t *testing.T) {
	ctx := context.Background()
	buf := NewBuffer(1)
	for i := range maxBufferedRounds + 1 {
		require.NoError(t, buf.Notify(ctx, Notification{RoundID: fmt.Sprintf("r%d", i)}))
	}

	assert.Empty(t, buf.Recent("r0"))
	assert.Len(t, buf.Recent("r1"), 1)
	assert.Len(t, buf.Recent(fmt.Sprintf("r%d", maxBufferedRounds)), 1)
}
