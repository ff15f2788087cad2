package workflows

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/courier-api/internal/domains/shipments/application"
	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
	"github.com/Apurer/courier-api/internal/domains/shipments/ports"
	shipmentactivities "github.com/Apurer/courier-api/internal/platform/temporal/activities/shipments"
	shipmentworkflows "github.com/Apurer/courier-api/internal/platform/temporal/workflows/shipments"
)

type stubService struct {
	ports.Service
	created []ports.CreateInput
}

func (s *stubService) Create(_ context.Context, in ports.CreateInput) (*domain.Shipment, error) {
	s.created = append(s.created, in)
	return &domain.Shipment{ShipmentID: "SHP001"}, nil
}

func TestInlineShipmentWorkflows_DelegatesToService(t *testing.T) {
	svc := &stubService{}
	got, err := NewInlineShipmentWorkflows(svc).CreateShipment(context.Background(), ports.CreateInput{IdempotencyKey: "k"})
	require.NoError(t, err)
	require.Equal(t, "SHP001", got.ShipmentID)
	require.Len(t, svc.created, 1)

	_, err = (*InlineShipmentWorkflows)(nil).CreateShipment(context.Background(), ports.CreateInput{})
	require.Error(t, err)
}

func TestBuildShipmentCreationWorkflowID(t *testing.T) {
	a := buildShipmentCreationWorkflowID(ports.CreateInput{IdempotencyKey: " abc "}, "trace")
	b := buildShipmentCreationWorkflowID(ports.CreateInput{IdempotencyKey: "abc"}, "other")
	require.Equal(t, a, b)
	require.True(t, strings.HasPrefix(a, "shipment-creation-idem-"))

	c := buildShipmentCreationWorkflowID(ports.CreateInput{}, "trace")
	require.True(t, strings.HasSuffix(c, "-trace"))
}

func TestUnwrapWorkflowError(t *testing.T) {
	invalid := temporal.NewNonRetryableApplicationError("receiver required", shipmentactivities.FailureInvalidInput, nil)
	require.ErrorIs(t, unwrapWorkflowError(invalid), application.ErrInvalidInput)

	conflict := temporal.NewNonRetryableApplicationError("key reused", shipmentactivities.FailureIdempotencyConflict, nil)
	require.ErrorIs(t, unwrapWorkflowError(conflict), ports.ErrIdempotencyConflict)

	duplicate := temporal.NewNonRetryableApplicationError("ids exhausted", shipmentactivities.FailureDuplicateID, nil)
	require.ErrorIs(t, unwrapWorkflowError(duplicate), ports.ErrDuplicateID)

	plain := errors.New("boom")
	require.Equal(t, plain, unwrapWorkflowError(plain))
}

type recordingClient struct {
	client.Client
	options  client.StartWorkflowOptions
	workflow any
	run      client.WorkflowRun
}

func (c *recordingClient) ExecuteWorkflow(_ context.Context, options client.StartWorkflowOptions, workflow interface{}, _ ...interface{}) (client.WorkflowRun, error) {
	c.options = options
	c.workflow = workflow
	return c.run, nil
}

type stubRun struct {
	client.WorkflowRun
	result *domain.Shipment
	err    error
}

func (r *stubRun) Get(_ context.Context, valuePtr interface{}) error {
	if r.err != nil {
		return r.err
	}
	*(valuePtr.(*domain.Shipment)) = *r.result
	return nil
}

func TestTemporalShipmentWorkflows_StartsRegisteredWorkflowName(t *testing.T) {
	c := &recordingClient{run: &stubRun{result: &domain.Shipment{ShipmentID: "SHP007"}}}
	got, err := NewTemporalShipmentWorkflows(c).CreateShipment(context.Background(), ports.CreateInput{IdempotencyKey: "k"})
	require.NoError(t, err)
	require.Equal(t, "SHP007", got.ShipmentID)
	require.Equal(t, shipmentworkflows.ShipmentCreationWorkflowName, c.workflow)
	require.Equal(t, shipmentworkflows.ShipmentCreationTaskQueue, c.options.TaskQueue)
}

func TestTemporalShipmentWorkflows_MapsDuplicateFailure(t *testing.T) {
	failure := temporal.NewNonRetryableApplicationError("ids exhausted", shipmentactivities.FailureDuplicateID, nil)
	c := &recordingClient{run: &stubRun{err: failure}}
	_, err := NewTemporalShipmentWorkflows(c).CreateShipment(context.Background(), ports.CreateInput{})
	require.ErrorIs(t, err, ports.ErrDuplicateID)
}
