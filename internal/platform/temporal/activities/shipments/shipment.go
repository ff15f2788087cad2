package shipments

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/courier-api/internal/domains/shipments/application"
	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
	"github.com/Apurer/courier-api/internal/domains/shipments/ports"
	"github.com/Apurer/courier-api/internal/shared/sequence"
)

// PersistShipmentActivityName persists a normalized shipment and fires its post-create effects.
const PersistShipmentActivityName = "shipments.activities.PersistShipment"

// Activities groups activities that operate on the shipments bounded context.
type Activities struct {
	service ports.Service
}

func NewActivities(service ports.Service) *Activities {
	return &Activities{service: service}
}

// PersistShipment stores a new shipment. Validation, idempotency conflicts and
// exhausted identifier retries are returned as non-retryable failures.
func (a *Activities) PersistShipment(ctx context.Context, input ports.CreateInput) (*domain.Shipment, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("shipment persist activity not initialized")
		return nil, errors.New("shipment persist activity not initialized")
	}
	logger.Info("PersistShipment activity started")
	shipment, err := a.service.Create(ctx, input)
	if err != nil {
		logger.Error("PersistShipment activity failed", "error", err)
		if failure := nonRetryableType(err); failure != "" {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), failure, err)
		}
		return nil, err
	}
	logger.Info("PersistShipment activity completed", "shipmentId", shipment.ShipmentID)
	return shipment, nil
}

// Failure types carried across the workflow boundary so callers can map them back.
const (
	FailureInvalidInput        = "InvalidInput"
	FailureIdempotencyConflict = "IdempotencyConflict"
	FailureDuplicateID         = "DuplicateID"
)

// nonRetryableType returns "" for errors worth retrying.
func nonRetryableType(err error) string {
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		return FailureInvalidInput
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return FailureIdempotencyConflict
	case errors.Is(err, ports.ErrDuplicateID), errors.Is(err, sequence.ErrExhausted):
		return FailureDuplicateID
	}
	return ""
}
