package shipments

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
	"github.com/Apurer/courier-api/internal/domains/shipments/ports"
	"github.com/Apurer/courier-api/internal/platform/temporal/sequences"
)

const (
	// ShipmentCreationWorkflowName is the public identifier for registering the workflow.
	ShipmentCreationWorkflowName = "shipments.workflows.Creation"
	// ShipmentCreationTaskQueue is the queue consumed by cmd/worker.
	ShipmentCreationTaskQueue = "SHIPMENT_CREATION"
)

// ShipmentCreationWorkflowInput captures the payload required to book a shipment.
type ShipmentCreationWorkflowInput struct {
	Command ports.CreateInput
	TraceID string
}

// ShipmentCreationWorkflow orchestrates persisting a new shipment.
func ShipmentCreationWorkflow(ctx workflow.Context, input ShipmentCreationWorkflowInput) (*domain.Shipment, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("ShipmentCreationWorkflow started", withTraceID(input.TraceID)...)
	shipment, err := sequences.RunShipmentPersistenceSequence(ctx, input.Command)
	if err != nil {
		logger.Error("ShipmentCreationWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("ShipmentCreationWorkflow completed", withTraceID(input.TraceID, "shipmentId", shipment.ShipmentID)...)
	return shipment, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
