package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/courier-api/internal/domains/orders/domain"
)

var (
	ErrNotFound    = errors.New("order not found")
	ErrDuplicateID = errors.New("order id already exists")
)

// Repository persists orders.
type Repository interface {
	// Create reports ErrDuplicateID when the id is taken.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// List returns orders newest first.
	List(ctx context.Context) ([]*domain.Order, error)
	// ListByPhone matches the sender or receiver phone, newest first.
	ListByPhone(ctx context.Context, phone string) ([]*domain.Order, error)
	LatestOrderID(ctx context.Context) (string, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status, at time.Time) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}

// ShipmentRef is the shipment linked to an order.
type ShipmentRef struct {
	ShipmentID string
	Status     string
	DriverName string
}

// ShipmentLinks resolves which shipment carries each order.
type ShipmentLinks interface {
	// ByOrder maps order ids to their shipment; unlinked orders are omitted.
	ByOrder(ctx context.Context, orderIDs []string) (map[string]ShipmentRef, error)
}

// CustomerLookup returns the account id registered with phone, or "" when none is.
type CustomerLookup func(ctx context.Context, phone string) (string, error)
