// Package eventbus builds the watermill publisher used for outbound events.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/golf-scorecard/internal/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
)

// Topics published by the scoring engine.
const (
	TopicLeaderboardUpdated = "scorecard.leaderboard.updated"
	TopicNotifications      = "scorecard.notifications"
)

// Config selects the transport. An empty NATSURL keeps events in process.
type Config struct {
	NATSURL   string
	JetStream bool
}

// NewPublisher returns a NATS publisher when a URL is configured, otherwise an
// in-process gochannel.
func NewPublisher(cfg Config, logger *slog.Logger) (message.Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	wmLogger := watermill.NewSlogLogger(logger)

	if cfg.NATSURL == "" {
		logger.Info("NATS URL not configured, publishing events in process")
		return NewGoChannel(wmLogger), nil
	}

	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(10 * time.Second),
		nc.ReconnectWait(time.Second),
		nc.ErrorHandler(func(_ *nc.Conn, s *nc.Subscription, err error) {
			if s != nil {
				logger.Error("NATS subscription error", attr.String("subject", s.Subject), attr.Error(err))
				return
			}
			logger.Error("NATS connection error", attr.Error(err))
		}),
	}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:         cfg.NATSURL,
			NatsOptions: options,
			Marshaler:   &nats.NATSMarshaler{},
			JetStream: nats.JetStreamConfig{
				Disabled:      !cfg.JetStream,
				AutoProvision: cfg.JetStream,
			},
		},
		wmLogger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	logger.Info("NATS publisher ready", attr.String("url", cfg.NATSURL), attr.Bool("jetstream", cfg.JetStream))
	return publisher, nil
}

// NewGoChannel returns an in-process pub/sub, also used by tests to observe events.
func NewGoChannel(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)
}

// WithMetrics decorates pub with watermill's prometheus publisher metrics.
func WithMetrics(pub message.Publisher, reg prometheus.Registerer) (message.Publisher, error) {
	if reg == nil {
		return pub, nil
	}
	builder := metrics.NewPrometheusMetricsBuilder(reg, "scorecard", "")
	return builder.DecoratePublisher(pub)
}

// PublishJSON marshals payload and publishes it to topic, carrying the
// correlation id from ctx when there is one.
func PublishJSON(ctx context.Context, pub message.Publisher, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	correlationID := attr.CorrelationID(ctx)
	if correlationID == "" {
		correlationID = watermill.NewUUID()
	}
	middleware.SetCorrelationID(correlationID, msg)
	msg.Metadata.Set("topic", topic)
	msg.SetContext(ctx)

	if err := pub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}
