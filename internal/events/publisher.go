package events

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher mirrors audit events to a Kafka topic. It is entirely
// optional: a nil Publisher (no broker configured) skips publishing.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher for the given broker and topic.
// Returns nil when broker is empty.
func NewPublisher(broker, topic string) *Publisher {
	if broker == "" {
		return nil
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Publish writes one message. Failures are logged and swallowed so a
// broker outage never affects the primary operation.
func (p *Publisher) Publish(key, value []byte) {
	if p == nil || p.writer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	}); err != nil {
		log.Printf("kafka publish failed: %v", err)
	}
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
