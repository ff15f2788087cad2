package ports

import (
	"context"

	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
)

// CreateInput carries exactly one draft shape plus an optional client
// idempotency key. It is serialized as Temporal workflow input.
type CreateInput struct {
	Detailed       *domain.DetailedDraft `json:"detailed,omitempty"`
	Legacy         *domain.LegacyDraft   `json:"legacy,omitempty"`
	IdempotencyKey string                `json:"idempotencyKey,omitempty"`
}

// Draft returns the populated draft, preferring the detailed shape.
func (in CreateInput) Draft() domain.Draft {
	switch {
	case in.Detailed != nil:
		return *in.Detailed
	case in.Legacy != nil:
		return *in.Legacy
	}
	return nil
}

// Service exposes the shipment lifecycle to adapters.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*domain.Shipment, error)
	Assign(ctx context.Context, shipmentID, driverID string) (*domain.Shipment, error)
	Complete(ctx context.Context, shipmentID string) (*domain.Shipment, error)
	Update(ctx context.Context, shipmentID string, patch domain.Patch) (*domain.Shipment, error)
	Delete(ctx context.Context, shipmentID string) error
	GetByID(ctx context.Context, shipmentID string) (*domain.Shipment, error)
	List(ctx context.Context) ([]*domain.Shipment, error)
	ListAssigned(ctx context.Context) ([]*domain.Shipment, error)
	ListForDriver(ctx context.Context, driverID string) ([]*domain.Shipment, error)
}

// WorkflowOrchestrator runs shipment creation, durably when a workflow engine is configured.
type WorkflowOrchestrator interface {
	CreateShipment(ctx context.Context, input CreateInput) (*domain.Shipment, error)
}
