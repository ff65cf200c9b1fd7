package leaderboardservice

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/leaderboard/domain"
	rounddomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/round/domain"
	scoringdomain "github.com/Black-And-White-Club/golf-scorecard/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/golf-scorecard/internal/eventbus"
	"github.com/Black-And-White-Club/golf-scorecard/internal/metrics"
	"github.com/Black-And-White-Club/golf-scorecard/internal/testutils"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type failingPublisher struct{}

func (failingPublisher) Publish(string, ...*message.Message) error { return errors.New("broker down") }
func (failingPublisher) Close() error                              { return nil }

func newSource(t *testing.T) (Source, *atomic.Int64, func(scoringdomain.ScoreLine)) {
	t.Helper()
	tee := testutils.StandardTee(t)
	var calls atomic.Int64
	var line atomic.Value
	line.Store(scoringdomain.ScoreLine{})

	src := func() leaderboarddomain.Input {
		calls.Add(1)
		return leaderboarddomain.Input{
			Tee:     tee,
			Formats: []scoringdomain.Format{scoringdomain.FormatStroke},
			Players: []rounddomain.Player{{ID: "p1", Name: "Ann", Handicap: 10}},
			Lines:   map[string]scoringdomain.ScoreLine{"p1": line.Load().(scoringdomain.ScoreLine)},
		}
	}
	return src, &calls, func(l scoringdomain.ScoreLine) { line.Store(l) }
}

func newAggregator(src Source, pub message.Publisher, delay time.Duration) *Aggregator {
	return NewAggregator("round-1", src, pub, delay, slog.Default(), metrics.NewNoop(), noop.NewTracerProvider().Tracer("test"))
}

func TestAggregatorDebouncesBursts(t *testing.T) {
	pubsub := eventbus.NewGoChannel(watermill.NopLogger{})
	defer pubsub.Close()
	messages, err := pubsub.Subscribe(context.Background(), eventbus.TopicLeaderboardUpdated)
	require.NoError(t, err)

	src, calls, setLine := newSource(t)
	agg := newAggregator(src, pubsub, 20*time.Millisecond)
	defer agg.Stop()

	setLine(scoringdomain.ScoreLine{4})
	for range 5 {
		agg.Schedule()
	}

	select {
	case msg := <-messages:
		msg.Ack()
		var payload UpdatedPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, "round-1", payload.RoundID)
		require.Len(t, payload.Standings.Boards, 1)
		assert.Equal(t, 1, payload.Standings.Boards[0].Entries[0].HolesPlayed)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for leaderboard update")
	}

	assert.Equal(t, int64(1), calls.Load())
	assert.False(t, agg.Pending())
	assert.Equal(t, 4, agg.Latest().Boards[0].Entries[0].Gross)
}

func TestRecomputeNowSkipsUnchangedStandings(t *testing.T) {
	pubsub := eventbus.NewGoChannel(watermill.NopLogger{})
	defer pubsub.Close()
	messages, err := pubsub.Subscribe(context.Background(), eventbus.TopicLeaderboardUpdated)
	require.NoError(t, err)

	src, _, setLine := newSource(t)
	agg := newAggregator(src, pubsub, time.Hour)
	defer agg.Stop()

	setLine(scoringdomain.ScoreLine{5})
	_, err = agg.RecomputeNow(context.Background())
	require.NoError(t, err)
	_, err = agg.RecomputeNow(context.Background())
	require.NoError(t, err)

	received := 0
	timeout := time.After(100 * time.Millisecond)
loop:
	for {
		select {
		case msg := <-messages:
			msg.Ack()
			received++
		case <-timeout:
			break loop
		}
	}
	assert.Equal(t, 1, received)
}

func TestRecomputeNowCancelsPending(t *testing.T) {
	src, calls, _ := newSource(t)
	agg := newAggregator(src, nil, time.Hour)
	defer agg.Stop()

	agg.Schedule()
	require.True(t, agg.Pending())

	_, err := agg.RecomputeNow(context.Background())
	require.NoError(t, err)
	assert.False(t, agg.Pending())
	assert.Equal(t, int64(1), calls.Load())
}

func TestRecomputeNowReturnsPublishError(t *testing.T) {
	src, _, _ := newSource(t)
	agg := newAggregator(src, failingPublisher{}, time.Hour)
	defer agg.Stop()

	standings, err := agg.RecomputeNow(context.Background())
	assert.Error(t, err)
	assert.Len(t, standings.Boards, 1)
	assert.Equal(t, standings, agg.Latest())
}

func TestStopDropsScheduledRecompute(t *testing.T) {
	src, calls, _ := newSource(t)
	agg := newAggregator(src, nil, 10*time.Millisecond)

	agg.Schedule()
	agg.Stop()
	agg.Schedule()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(0), calls.Load())
}
