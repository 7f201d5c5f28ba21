package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/config"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/pkg/logger"
)

// CartEventProducer streams cart mutation events to Kafka for
// downstream consumers such as the kitchen display feed.
type CartEventProducer struct {
	client *kgo.Client
	topic  string
	log    logger.Logger
}

func NewCartEventProducer(cfg config.KafkaConfig, log logger.Logger) (*CartEventProducer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.CartTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.DisableIdempotentWrite(),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	log.Info("kafka cart-event producer ready",
		logger.Any("brokers", cfg.Brokers),
		logger.String("topic", cfg.CartTopic),
	)

	return &CartEventProducer{
		client: client,
		topic:  cfg.CartTopic,
		log:    log,
	}, nil
}

func (p *CartEventProducer) PublishCartEvent(ctx context.Context, payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("payload is empty")
	}

	rec := &kgo.Record{
		Topic:     p.topic,
		Key:       []byte(uuid.NewString()),
		Value:     payload,
		Timestamp: time.Now().UTC(),
	}

	results := p.client.ProduceSync(ctx, rec)
	if err := results.FirstErr(); err != nil {
		return fmt.Errorf("publish to kafka topic %s: %w", p.topic, err)
	}
	return nil
}

func (p *CartEventProducer) Close() {
	p.client.Close()
}

// NoopPublisher satisfies the cart's publisher when no brokers are
// configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishCartEvent(ctx context.Context, payload []byte) error {
	return nil
}
