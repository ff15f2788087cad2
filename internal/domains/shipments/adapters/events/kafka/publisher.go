// Package kafka publishes shipment lifecycle events to a Kafka topic keyed by
// shipment id, so every event for one shipment lands on the same partition.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	skafka "github.com/segmentio/kafka-go"

	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
	"github.com/Apurer/courier-api/internal/domains/shipments/ports"
	platformkafka "github.com/Apurer/courier-api/internal/platform/kafka"
)

const eventTypeHeader = "event-type"

var _ ports.EventPublisher = (*Publisher)(nil)

type Publisher struct {
	writer platformkafka.Writer
}

func NewPublisher(writer platformkafka.Writer) *Publisher {
	return &Publisher{writer: writer}
}

// Envelope is the JSON value written for every event.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

func (p *Publisher) Publish(ctx context.Context, events ...domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]skafka.Message, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", event.EventName(), err)
		}
		value, err := json.Marshal(Envelope{Type: event.EventName(), OccurredAt: event.OccurredAt(), Payload: payload})
		if err != nil {
			return err
		}
		msgs = append(msgs, skafka.Message{
			Key:     []byte(event.AggregateID()),
			Value:   value,
			Headers: []skafka.Header{{Key: eventTypeHeader, Value: []byte(event.EventName())}},
			Time:    event.OccurredAt(),
		})
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
