// Package kafka builds segmentio writers for the event publishers.
package kafka

import (
	"context"
	"errors"
	"strings"
	"time"

	skafka "github.com/segmentio/kafka-go"
)

// Writer is the subset of skafka.Writer publishers depend on.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// NewWriter returns a writer for topic on the comma separated broker list.
func NewWriter(brokers, topic string) (*skafka.Writer, error) {
	addrs := SplitBrokers(brokers)
	if len(addrs) == 0 {
		return nil, errors.New("kafka brokers not configured")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, errors.New("kafka topic not configured")
	}
	return &skafka.Writer{
		Addr:                   skafka.TCP(addrs...),
		Topic:                  topic,
		Balancer:               &skafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           skafka.RequireOne,
		AllowAutoTopicCreation: true,
	}, nil
}

// SplitBrokers parses "host1:9092,host2:9092".
func SplitBrokers(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
