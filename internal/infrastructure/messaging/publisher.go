package messaging

import (
	"fmt"

	"ledger-core/internal/infrastructure/messaging/kafka"
	"ledger-core/internal/pkg/idempotency"
)

// EventPublisher defines the interface for publishing transfer lifecycle events.
type EventPublisher interface {
	PublishTransferStarted(event TransferStartedEvent) error
	PublishTransferCompleted(event TransferCompletedEvent) error
	PublishTransferRecovered(event TransferRecoveredEvent) error
	PublishTransferCanceled(event TransferCanceledEvent) error
	Close() error
	IsHealthy() bool
}

// KafkaEventPublisher implements EventPublisher using Kafka. Started/completed
// events go through the synchronous producer, so the HTTP transfer handler
// that publishes them gets any publish error back (it logs it). Recovered/
// canceled events, generated by
// the background sweeper rather than a request in flight, go through the
// fire-and-forget async producer instead, so a slow or unreachable broker
// never stalls a sweep pass.
type KafkaEventPublisher struct {
	producer *kafka.Producer
	async    *kafka.AsyncProducer
}

// NewKafkaEventPublisher creates a new Kafka event publisher.
func NewKafkaEventPublisher(config *kafka.Config) (*KafkaEventPublisher, error) {
	producer, err := kafka.NewProducer(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	async, err := kafka.NewAsyncProducer(config)
	if err != nil {
		producer.Close()
		return nil, fmt.Errorf("failed to create async kafka producer: %w", err)
	}

	return &KafkaEventPublisher{
		producer: producer,
		async:    async,
	}, nil
}

// PublishTransferStarted publishes a transfer started event.
func (p *KafkaEventPublisher) PublishTransferStarted(event TransferStartedEvent) error {
	key := idempotency.TransactionKey("started", event.TransactionID)
	return p.producer.PublishEvent(kafka.TopicTransfersStarted, key, event)
}

// PublishTransferCompleted publishes a transfer completed event.
func (p *KafkaEventPublisher) PublishTransferCompleted(event TransferCompletedEvent) error {
	key := idempotency.TransactionKey("completed", event.TransactionID)
	return p.producer.PublishEvent(kafka.TopicTransfersCompleted, key, event)
}

// PublishTransferRecovered publishes a transfer recovered event via the
// async producer.
func (p *KafkaEventPublisher) PublishTransferRecovered(event TransferRecoveredEvent) error {
	key := idempotency.TransactionKey("recovered", event.TransactionID)
	return p.async.PublishEventAsync(kafka.TopicTransfersRecovered, key, event)
}

// PublishTransferCanceled publishes a transfer canceled event via the async
// producer.
func (p *KafkaEventPublisher) PublishTransferCanceled(event TransferCanceledEvent) error {
	key := idempotency.TransactionKey("canceled", event.TransactionID)
	return p.async.PublishEventAsync(kafka.TopicTransfersCanceled, key, event)
}

// Close closes both the sync and async Kafka producers.
func (p *KafkaEventPublisher) Close() error {
	asyncErr := p.async.Close()
	if err := p.producer.Close(); err != nil {
		return err
	}
	return asyncErr
}

// IsHealthy checks if both producers are healthy.
func (p *KafkaEventPublisher) IsHealthy() bool {
	return p.producer.IsHealthy() && p.async.IsHealthy()
}

// NoOpEventPublisher is used when KAFKA_ENABLED=false.
type NoOpEventPublisher struct{}

// NewNoOpEventPublisher creates a no-op event publisher.
func NewNoOpEventPublisher() *NoOpEventPublisher {
	return &NoOpEventPublisher{}
}

func (p *NoOpEventPublisher) PublishTransferStarted(event TransferStartedEvent) error     { return nil }
func (p *NoOpEventPublisher) PublishTransferCompleted(event TransferCompletedEvent) error { return nil }
func (p *NoOpEventPublisher) PublishTransferRecovered(event TransferRecoveredEvent) error { return nil }
func (p *NoOpEventPublisher) PublishTransferCanceled(event TransferCanceledEvent) error   { return nil }
func (p *NoOpEventPublisher) Close() error                                                { return nil }
func (p *NoOpEventPublisher) IsHealthy() bool                                             { return true }
