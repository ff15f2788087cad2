package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
	"github.com/Apurer/courier-api/internal/domains/shipments/ports"
	shipmentactivities "github.com/Apurer/courier-api/internal/platform/temporal/activities/shipments"
)

// RunShipmentPersistenceSequence executes the activities needed to persist a shipment.
func RunShipmentPersistenceSequence(ctx workflow.Context, input ports.CreateInput) (*domain.Shipment, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("shipment persistence sequence started")
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var shipment domain.Shipment
	if err := workflow.ExecuteActivity(ctx, shipmentactivities.PersistShipmentActivityName, input).Get(ctx, &shipment); err != nil {
		logger.Error("shipment persistence sequence failed", "error", err)
		return nil, err
	}
	logger.Info("shipment persistence sequence completed", "shipmentId", shipment.ShipmentID)
	return &shipment, nil
}
