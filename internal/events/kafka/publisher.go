package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// Publisher writes events to a Kafka topic as JSON messages.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Publish serializes event and writes it to the configured topic. The topic
// argument is ignored; the writer is bound to one topic at construction.
func (p *Publisher) Publish(_ string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(
		context.Background(),
		kafka.Message{Value: data},
	)
}

// Close flushes pending messages and releases the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
