package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"busdesk/pkg/logger"

	"github.com/IBM/sarama"
)

// Publisher emits booking session events
type Publisher interface {
	PublishSeatsReclaimed(ctx context.Context, sessionID string, trip TripRef, seatIDs []string) error
	PublishBookingSubmitted(ctx context.Context, sessionID string, trip TripRef, bookingReference string, seatIDs []string, guest bool) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka event producer
type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig(brokers []string, topic string) *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          brokers,
		Topic:            topic,
		RetryMax:         3,
		TimeoutMs:        10000,             // 10 seconds
		RequiredAcks:     sarama.WaitForAll, // Wait for all in-sync replicas
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000, // 1MB
	}
}

// KafkaPublisher publishes booking events to Kafka
type KafkaPublisher struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

// NewKafkaPublisher creates a new Kafka publisher
func NewKafkaPublisher(config *KafkaProducerConfig) (*KafkaPublisher, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps a session's events ordered
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.GetDefault().Info("Kafka event producer created", slog.String("topic", config.Topic))
	return NewKafkaPublisherWithProducer(producer, config), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, config *KafkaProducerConfig) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		config:   config,
	}
}

func (kp *KafkaPublisher) PublishSeatsReclaimed(ctx context.Context, sessionID string, trip TripRef, seatIDs []string) error {
	event := NewEventBuilder().
		WithType(EventTypeSeatsReclaimed).
		WithSession(sessionID).
		WithTrip(trip).
		WithSeats(seatIDs).
		Build()
	return kp.publish(ctx, event)
}

func (kp *KafkaPublisher) PublishBookingSubmitted(ctx context.Context, sessionID string, trip TripRef, bookingReference string, seatIDs []string, guest bool) error {
	event := NewEventBuilder().
		WithType(EventTypeBookingSubmitted).
		WithSession(sessionID).
		WithTrip(trip).
		WithSeats(seatIDs).
		WithBooking(bookingReference, guest).
		Build()
	return kp.publish(ctx, event)
}

func (kp *KafkaPublisher) publish(ctx context.Context, event *BookingEvent) error {
	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     kp.config.Topic,
		Key:       sarama.StringEncoder(event.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   kp.createHeaders(event),
		Timestamp: event.CreatedAt,
	}

	partition, offset, err := kp.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send event to Kafka: %w", err)
	}

	logger.GetDefault().DebugContext(ctx, "Booking event published",
		slog.String("topic", kp.config.Topic),
		slog.Int("partition", int(partition)),
		slog.Int64("offset", offset),
		slog.String("type", string(event.Type)),
		slog.String("session_id", event.SessionID),
	)
	return nil
}

func (kp *KafkaPublisher) createHeaders(event *BookingEvent) []sarama.RecordHeader {
	headers := []sarama.RecordHeader{
		{Key: []byte("event_id"), Value: []byte(event.ID.String())},
		{Key: []byte("event_type"), Value: []byte(event.Type)},
		{Key: []byte("session_id"), Value: []byte(event.SessionID)},
		{Key: []byte("producer"), Value: []byte("busdesk")},
		{Key: []byte("created_at"), Value: []byte(event.CreatedAt.Format(time.RFC3339))},
	}
	if event.BookingReference != "" {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("booking_reference"),
			Value: []byte(event.BookingReference),
		})
	}
	return headers
}

// Close closes the Kafka producer
func (kp *KafkaPublisher) Close() error {
	if kp.producer != nil {
		if err := kp.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		logger.GetDefault().Info("Kafka event producer closed")
	}
	return nil
}

// NoopPublisher drops every event. Used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishSeatsReclaimed(ctx context.Context, sessionID string, trip TripRef, seatIDs []string) error {
	return nil
}

func (NoopPublisher) PublishBookingSubmitted(ctx context.Context, sessionID string, trip TripRef, bookingReference string, seatIDs []string, guest bool) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
