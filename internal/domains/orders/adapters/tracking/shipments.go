// Package tracking links orders to the shipments that carry them.
package tracking

import (
	"context"

	"github.com/Apurer/courier-api/internal/domains/orders/ports"
	shipdomain "github.com/Apurer/courier-api/internal/domains/shipments/domain"
)

var _ ports.ShipmentLinks = (*Shipments)(nil)

// ShipmentLister is satisfied by the shipments service.
type ShipmentLister interface {
	List(ctx context.Context) ([]*shipdomain.Shipment, error)
}

// Shipments scans shipment order lists. When an order appears on several
// shipments the most recently created one wins.
type Shipments struct {
	shipments ShipmentLister
}

func NewShipments(shipments ShipmentLister) *Shipments {
	return &Shipments{shipments: shipments}
}

func (t *Shipments) ByOrder(ctx context.Context, orderIDs []string) (map[string]ports.ShipmentRef, error) {
	wanted := make(map[string]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		wanted[id] = struct{}{}
	}
	list, err := t.shipments.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]ports.ShipmentRef, len(orderIDs))
	// List is newest first, so the first hit per order is kept.
	for _, s := range list {
		for _, orderID := range s.Orders {
			if _, ok := wanted[orderID]; !ok {
				continue
			}
			if _, seen := out[orderID]; seen {
				continue
			}
			out[orderID] = ports.ShipmentRef{
				ShipmentID: s.ShipmentID,
				Status:     string(s.Status),
				DriverName: s.DriverName,
			}
		}
	}
	return out, nil
}
