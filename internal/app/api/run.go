package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	courierserver "github.com/Apurer/courier-api/go"

	"github.com/Apurer/courier-api/internal/domains/shipments/adapters/documents"
	shipmentworkflows "github.com/Apurer/courier-api/internal/domains/shipments/adapters/workflows"
	shipmentports "github.com/Apurer/courier-api/internal/domains/shipments/ports"
	platformobservability "github.com/Apurer/courier-api/internal/platform/observability"
	platformtemporal "github.com/Apurer/courier-api/internal/platform/temporal"
)

// Run boots the courier HTTP API with observability, stores, and workflows
// wired. It blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, ObservabilityOptions(cfg))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	container, cleanup, err := Build(ctx, cfg, instruments)
	if err != nil {
		return fmt.Errorf("failed to wire services: %w", err)
	}
	defer cleanup()

	var workflows shipmentports.WorkflowOrchestrator = shipmentworkflows.NewInlineShipmentWorkflows(container.Shipments)
	temporalClient, err := platformtemporal.Dial(platformtemporal.Options{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
		Logger:    logger,
		Tracer:    instruments.Tracer("temporal-client"),
	})
	if err != nil {
		logger.Warn("Temporal workflows unavailable, creating shipments inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		workflows = shipmentworkflows.NewTemporalShipmentWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	router := NewEngine(cfg, container, workflows)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("courier API listening", slog.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("courier API server exited", slog.String("addr", cfg.HTTPAddr), slog.String("error", err.Error()))
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if cfg.SessionPurgeInterval > 0 && container.Sessions != nil {
		g.Go(func() error {
			purgeSessions(gctx, container, cfg.SessionPurgeInterval)
			return nil
		})
	}
	return g.Wait()
}

// NewEngine builds the gin engine with tracing, CORS and every API route.
func NewEngine(cfg Config, c *Container, workflows shipmentports.WorkflowOrchestrator) *gin.Engine {
	handlers := courierserver.ApiHandleFunctions{
		Auth:            courierserver.NewAuthenticator(c.Users, courierserver.WithDriverGate(c.Drivers)),
		HealthAPI:       courierserver.NewHealthAPI(c.ReadinessChecks()),
		AuthAPI:         courierserver.NewAuthAPI(c.Users),
		ShipmentAPI:     courierserver.NewShipmentAPI(c.Shipments, workflows, c.Payments, documents.NewRenderer(), c.Logger),
		AdminAPI:        courierserver.NewAdminAPI(c.Drivers, c.Shipments),
		DriverAPI:       courierserver.NewDriverAPI(c.Drivers, c.Shipments, c.Notifications),
		OrderAPI:        courierserver.NewOrderAPI(c.Orders),
		NotificationAPI: courierserver.NewNotificationAPI(c.Notifications),
		PaymentAPI:      courierserver.NewPaymentAPI(c.Payments),
		PricingAPI:      courierserver.NewPricingAPI(c.Pricing),
		CustomerAPI:     courierserver.NewCustomerAPI(c.Users, c.Orders),
		RealtimeAPI:     courierserver.NewRealtimeAPI(c.Hub),
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	return courierserver.NewRouterWithGinEngine(router, handlers)
}

// ObservabilityOptions maps the service settings onto the observability bootstrap.
func ObservabilityOptions(cfg Config) platformobservability.Options {
	return platformobservability.Options{
		ServiceName:  cfg.ServiceName,
		Environment:  cfg.Environment,
		LogLevel:     cfg.LogLevel,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "Idempotency-Key")
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

func purgeSessions(ctx context.Context, c *Container, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := c.Sessions.PurgeExpired(ctx)
			if err != nil {
				c.Logger.Warn("session purge failed", slog.String("error", err.Error()))
				continue
			}
			if purged > 0 {
				c.Logger.Info("expired sessions purged", slog.Int64("count", purged))
			}
		}
	}
}
