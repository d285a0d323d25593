package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/zaiko-app/zaiko/internal/core/domain"
	"github.com/zaiko-app/zaiko/internal/port"
)

// Publisher emits committed ledger mutations to a Kafka topic. Messages
// are keyed by (team, item) so per-item ordering survives partitioning.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

var _ port.EventPublisher = (*Publisher)(nil)

func (p *Publisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("%d:%s", event.TeamID, event.ItemCode)),
		Value: data,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
