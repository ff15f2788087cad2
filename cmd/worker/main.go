package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/courier-api/internal/app/api"
	platformobservability "github.com/Apurer/courier-api/internal/platform/observability"
	platformtemporal "github.com/Apurer/courier-api/internal/platform/temporal"
	shipmentactivities "github.com/Apurer/courier-api/internal/platform/temporal/activities/shipments"
	shipmentworkflows "github.com/Apurer/courier-api/internal/platform/temporal/workflows/shipments"
)

func main() {
	ctx := context.Background()
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.ServiceName = "courier-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, api.ObservabilityOptions(cfg))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	container, cleanup, err := api.Build(ctx, cfg, instruments)
	if err != nil {
		logger.Error("failed to wire services", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()
	shipmentActivities := shipmentactivities.NewActivities(container.Shipments)

	temporalClient, err := platformtemporal.Dial(platformtemporal.Options{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
		Tracer:    instruments.Tracer("temporal-worker"),
	})
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, shipmentworkflows.ShipmentCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(shipmentworkflows.ShipmentCreationWorkflow, workflow.RegisterOptions{Name: shipmentworkflows.ShipmentCreationWorkflowName})
	w.RegisterActivityWithOptions(shipmentActivities.PersistShipment, activity.RegisterOptions{Name: shipmentactivities.PersistShipmentActivityName})

	logger.Info("worker listening", slog.String("taskQueue", shipmentworkflows.ShipmentCreationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
