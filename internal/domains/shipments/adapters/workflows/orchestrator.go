package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/courier-api/internal/domains/shipments/application"
	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
	"github.com/Apurer/courier-api/internal/domains/shipments/ports"
	shipmentactivities "github.com/Apurer/courier-api/internal/platform/temporal/activities/shipments"
	shipmentworkflows "github.com/Apurer/courier-api/internal/platform/temporal/workflows/shipments"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalShipmentWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineShipmentWorkflows)(nil)
)

// TemporalShipmentWorkflows starts shipment workflows on a Temporal cluster.
type TemporalShipmentWorkflows struct {
	client    client.Client
	taskQueue string
}

func NewTemporalShipmentWorkflows(c client.Client) *TemporalShipmentWorkflows {
	return &TemporalShipmentWorkflows{client: c, taskQueue: shipmentworkflows.ShipmentCreationTaskQueue}
}

// CreateShipment runs the creation workflow and waits for its result. A
// repeated idempotency key joins the already started execution. The workflow
// is started by its registered name since this client never registers it.
func (o *TemporalShipmentWorkflows) CreateShipment(ctx context.Context, input ports.CreateInput) (*domain.Shipment, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal shipment workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildShipmentCreationWorkflowID(input, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		shipmentworkflows.ShipmentCreationWorkflowName,
		shipmentworkflows.ShipmentCreationWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
		} else {
			return nil, err
		}
	}
	var shipment domain.Shipment
	if err := run.Get(ctx, &shipment); err != nil {
		return nil, unwrapWorkflowError(err)
	}
	return &shipment, nil
}

// unwrapWorkflowError restores the sentinel errors carried as application failure types.
func unwrapWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case shipmentactivities.FailureInvalidInput:
		return fmt.Errorf("%w: %s", application.ErrInvalidInput, appErr.Message())
	case shipmentactivities.FailureIdempotencyConflict:
		return fmt.Errorf("%w: %s", ports.ErrIdempotencyConflict, appErr.Message())
	case shipmentactivities.FailureDuplicateID:
		return fmt.Errorf("%w: %s", ports.ErrDuplicateID, appErr.Message())
	}
	return err
}

// InlineShipmentWorkflows executes the service directly without Temporal.
type InlineShipmentWorkflows struct {
	service ports.Service
}

func NewInlineShipmentWorkflows(service ports.Service) *InlineShipmentWorkflows {
	return &InlineShipmentWorkflows{service: service}
}

// CreateShipment delegates to the application service without durable orchestration.
func (o *InlineShipmentWorkflows) CreateShipment(ctx context.Context, input ports.CreateInput) (*domain.Shipment, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline shipment workflows not configured")
	}
	return o.service.Create(ctx, input)
}

func buildShipmentCreationWorkflowID(input ports.CreateInput, traceComponent string) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("shipment-creation-idem-%s", hashIdempotencyKey(key))
	}
	return fmt.Sprintf("shipment-creation-%d-%s", time.Now().UnixNano(), traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
