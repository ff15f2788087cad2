package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/courier-api/internal/domains/payments/domain"
	"github.com/Apurer/courier-api/internal/domains/payments/ports"
	shipdomain "github.com/Apurer/courier-api/internal/domains/shipments/domain"
	shipports "github.com/Apurer/courier-api/internal/domains/shipments/ports"
)

// ShipmentReader is the slice of the shipments service checkout needs.
type ShipmentReader interface {
	GetByID(ctx context.Context, shipmentID string) (*shipdomain.Shipment, error)
}

// Shipments resolves checkouts from stored shipments.
type Shipments struct {
	reader ShipmentReader
}

func NewShipments(reader ShipmentReader) *Shipments {
	return &Shipments{reader: reader}
}

func (s *Shipments) Checkout(ctx context.Context, shipmentID string) (*domain.Checkout, error) {
	shipment, err := s.reader.GetByID(ctx, shipmentID)
	if errors.Is(err, shipports.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ports.ErrShipmentNotFound, shipmentID)
	}
	if err != nil {
		return nil, err
	}
	c := FromShipment(shipment)
	return &c, nil
}

// FromShipment prefers the structured sender record over legacy fields.
func FromShipment(s *shipdomain.Shipment) domain.Checkout {
	name := s.Sender.Name
	if name == "" {
		name = s.SenderName
	}
	amount := s.Payment.Amount
	if amount == 0 {
		amount = s.Cost
	}
	return domain.Checkout{
		ShipmentID:  s.ShipmentID,
		BuyerName:   name,
		Email:       s.Sender.Email,
		Amount:      amount,
		ServiceType: string(s.Parcel.ServiceType),
	}
}

var _ ports.CheckoutSource = (*Shipments)(nil)
