package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaPublisher implements Publisher on top of a Kafka topic. Events are
// keyed by order id so retries for the same order stay in partition order.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger zerolog.Logger
}

// NewKafkaPublisher creates a Kafka-backed event publisher.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	return &KafkaPublisher{
		client: client,
		topic:  topic,
		logger: logger.With().Str("publisher", "kafka").Logger(),
	}, nil
}

// PublishOrderPlaced produces a single order-placed record synchronously.
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order placed event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.OrderID.String()),
		Value: value,
	}

	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		p.logger.Error().
			Err(err).
			Str("order_id", event.OrderID.String()).
			Msg("failed to produce order placed event")
		return fmt.Errorf("failed to produce order placed event: %w", err)
	}

	p.logger.Info().
		Str("order_id", event.OrderID.String()).
		Str("topic", p.topic).
		Msg("order placed event published")

	return nil
}

// Close flushes and shuts down the Kafka client.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}
