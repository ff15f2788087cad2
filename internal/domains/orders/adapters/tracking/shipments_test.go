package tracking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/courier-api/internal/domains/orders/ports"
	shipdomain "github.com/Apurer/courier-api/internal/domains/shipments/domain"
)

type listerFunc func(ctx context.Context) ([]*shipdomain.Shipment, error)

func (f listerFunc) List(ctx context.Context) ([]*shipdomain.Shipment, error) { return f(ctx) }

func TestShipments_ByOrder(t *testing.T) {
	lister := listerFunc(func(context.Context) ([]*shipdomain.Shipment, error) {
		return []*shipdomain.Shipment{
			{ShipmentID: "SHP002", Status: shipdomain.StatusShipping, DriverName: "Sipho", Orders: []string{"ORD001"}},
			{ShipmentID: "SHP001", Status: shipdomain.StatusPending, DriverName: "Unassigned", Orders: []string{"ORD001", "ORD002", "ORD009"}},
		}, nil
	})

	links, err := NewShipments(lister).ByOrder(context.Background(), []string{"ORD001", "ORD002", "ORD003"})
	require.NoError(t, err)
	require.Equal(t, map[string]ports.ShipmentRef{
		"ORD001": {ShipmentID: "SHP002", Status: "Shipping", DriverName: "Sipho"},
		"ORD002": {ShipmentID: "SHP001", Status: "Pending", DriverName: "Unassigned"},
	}, links)
}

func TestShipments_ByOrderPropagatesFailure(t *testing.T) {
	lister := listerFunc(func(context.Context) ([]*shipdomain.Shipment, error) { return nil, errors.New("db down") })
	_, err := NewShipments(lister).ByOrder(context.Background(), []string{"ORD001"})
	require.Error(t, err)
}
