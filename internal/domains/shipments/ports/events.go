package ports

import (
	"context"

	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
)

// EventPublisher emits shipment lifecycle events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

// NoopPublisher drops events.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...domain.Event) error { return nil }
