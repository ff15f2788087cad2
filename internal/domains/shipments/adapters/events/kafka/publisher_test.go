package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	skafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
)

type fakeWriter struct {
	msgs []skafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...skafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestPublisher_KeysByShipment(t *testing.T) {
	fw := &fakeWriter{}
	p := NewPublisher(fw)
	at := time.Date(2024, 2, 2, 10, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), domain.ShipmentAssigned{
		BaseEvent:  domain.BaseEvent{Timestamp: at},
		ShipmentID: "SHP007",
		DriverID:   "DRV001",
		DriverName: "thabo",
	})
	require.NoError(t, err)
	require.Len(t, fw.msgs, 1)
	require.Equal(t, "SHP007", string(fw.msgs[0].Key))
	require.Equal(t, "shipments.shipment.assigned", string(fw.msgs[0].Headers[0].Value))

	var env Envelope
	require.NoError(t, json.Unmarshal(fw.msgs[0].Value, &env))
	require.Equal(t, "shipments.shipment.assigned", env.Type)
	require.Contains(t, string(env.Payload), `"driverId":"DRV001"`)
}

func TestPublisher_PropagatesWriteError(t *testing.T) {
	p := NewPublisher(&fakeWriter{err: errors.New("leader not available")})
	err := p.Publish(context.Background(), domain.ShipmentDelivered{ShipmentID: "SHP001"})
	require.Error(t, err)
}
