package shipments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
	"github.com/Apurer/courier-api/internal/domains/shipments/ports"
	shipmentactivities "github.com/Apurer/courier-api/internal/platform/temporal/activities/shipments"
)

func TestShipmentCreationWorkflow_ReturnsPersistedShipment(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivityWithOptions(func(_ context.Context, in ports.CreateInput) (*domain.Shipment, error) {
		require.Equal(t, "key-1", in.IdempotencyKey)
		return &domain.Shipment{ShipmentID: "SHP001", Status: domain.StatusPending}, nil
	}, activity.RegisterOptions{Name: shipmentactivities.PersistShipmentActivityName})

	env.ExecuteWorkflow(ShipmentCreationWorkflow, ShipmentCreationWorkflowInput{
		Command: ports.CreateInput{IdempotencyKey: "key-1", Legacy: &domain.LegacyDraft{ReceiverName: "A", ReceiverPhone: "1"}},
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var got domain.Shipment
	require.NoError(t, env.GetWorkflowResult(&got))
	require.Equal(t, "SHP001", got.ShipmentID)
}

func TestShipmentCreationWorkflow_NonRetryableFailureStopsImmediately(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	calls := 0
	env.RegisterActivityWithOptions(func(context.Context, ports.CreateInput) (*domain.Shipment, error) {
		calls++
		return nil, temporal.NewNonRetryableApplicationError("receiver required", shipmentactivities.FailureInvalidInput, errors.New("receiver required"))
	}, activity.RegisterOptions{Name: shipmentactivities.PersistShipmentActivityName})

	env.ExecuteWorkflow(ShipmentCreationWorkflow, ShipmentCreationWorkflowInput{})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	require.Equal(t, 1, calls)
}
