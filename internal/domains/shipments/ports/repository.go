package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
)

var (
	// ErrNotFound is returned when a shipment is absent or not in the state a
	// conditional transition requires.
	ErrNotFound = errors.New("shipment not found")
	// ErrDuplicateID is returned when the generated shipment identifier is taken.
	ErrDuplicateID = errors.New("shipment id already exists")
)

// ListFilter narrows shipment listings.
type ListFilter struct {
	AssignedOnly bool
	DriverID     string
}

// Repository persists shipments. Transition methods are conditional updates
// that only touch a row still in the expected prior status.
type Repository interface {
	Create(ctx context.Context, shipment *domain.Shipment) (*domain.Shipment, error)
	GetByID(ctx context.Context, shipmentID string) (*domain.Shipment, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Shipment, error)
	LatestShipmentID(ctx context.Context) (string, error)
	// Assign sets the driver and moves Pending to Shipping.
	Assign(ctx context.Context, shipmentID, driverID, driverName string, at time.Time) (*domain.Shipment, error)
	// MarkDelivered moves Shipping to Delivered.
	MarkDelivered(ctx context.Context, shipmentID string, at time.Time) (*domain.Shipment, error)
	Update(ctx context.Context, shipmentID string, patch domain.Patch, at time.Time) (*domain.Shipment, error)
	Delete(ctx context.Context, shipmentID string) error
	// ListUnnamedAssignments returns shipments with a driver but the placeholder name.
	ListUnnamedAssignments(ctx context.Context) ([]*domain.Shipment, error)
	SetDriverName(ctx context.Context, shipmentID, driverName string) error
}
