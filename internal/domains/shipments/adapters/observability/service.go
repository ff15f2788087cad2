package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	shipdomain "github.com/Apurer/courier-api/internal/domains/shipments/domain"
	shipports "github.com/Apurer/courier-api/internal/domains/shipments/ports"
)

const tracerName = "github.com/Apurer/courier-api/internal/domains/shipments/adapters/observability/service"

// Service decorates the shipment service with tracing, logging, and metrics.
type Service struct {
	inner   shipports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core shipment service.
func New(inner shipports.Service, opts ...Option) shipports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) Create(ctx context.Context, input shipports.CreateInput) (*shipdomain.Shipment, error) {
	shape := "detailed"
	if input.Detailed == nil {
		shape = "legacy"
	}
	ctx, span := s.tracer.Start(ctx, "ShipmentService.Create", trace.WithAttributes(
		attribute.String("shipment.payload_shape", shape),
		attribute.Bool("shipment.idempotent", input.IdempotencyKey != ""),
	))
	defer span.End()
	result, err := s.inner.Create(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create shipment", slog.String("shape", shape))
	}
	span.SetAttributes(attribute.String("shipment.id", result.ShipmentID))
	s.metrics.recordCreated(ctx, result.Parcel.ServiceType)
	s.logInfo(ctx, "shipment created", slog.String("shipment_id", result.ShipmentID), slog.Time("eta", result.ETA))
	return result, nil
}

func (s *Service) Assign(ctx context.Context, shipmentID, driverID string) (*shipdomain.Shipment, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.Assign", trace.WithAttributes(
		attribute.String("shipment.id", shipmentID),
		attribute.String("driver.id", driverID),
	))
	defer span.End()
	result, err := s.inner.Assign(ctx, shipmentID, driverID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to assign shipment",
			slog.String("shipment_id", shipmentID), slog.String("driver_id", driverID))
	}
	s.metrics.recordTransition(ctx, shipdomain.StatusShipping)
	s.logInfo(ctx, "shipment assigned", slog.String("shipment_id", shipmentID), slog.String("driver_id", driverID))
	return result, nil
}

func (s *Service) Complete(ctx context.Context, shipmentID string) (*shipdomain.Shipment, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.Complete", trace.WithAttributes(attribute.String("shipment.id", shipmentID)))
	defer span.End()
	result, err := s.inner.Complete(ctx, shipmentID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to complete shipment", slog.String("shipment_id", shipmentID))
	}
	s.metrics.recordTransition(ctx, shipdomain.StatusDelivered)
	s.logInfo(ctx, "shipment delivered", slog.String("shipment_id", shipmentID))
	return result, nil
}

func (s *Service) Update(ctx context.Context, shipmentID string, patch shipdomain.Patch) (*shipdomain.Shipment, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.Update", trace.WithAttributes(attribute.String("shipment.id", shipmentID)))
	defer span.End()
	result, err := s.inner.Update(ctx, shipmentID, patch)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update shipment", slog.String("shipment_id", shipmentID))
	}
	return result, nil
}

func (s *Service) Delete(ctx context.Context, shipmentID string) error {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.Delete", trace.WithAttributes(attribute.String("shipment.id", shipmentID)))
	defer span.End()
	if err := s.inner.Delete(ctx, shipmentID); err != nil {
		return s.handleError(ctx, span, err, "failed to delete shipment", slog.String("shipment_id", shipmentID))
	}
	s.logInfo(ctx, "shipment deleted", slog.String("shipment_id", shipmentID))
	return nil
}

func (s *Service) GetByID(ctx context.Context, shipmentID string) (*shipdomain.Shipment, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.GetByID", trace.WithAttributes(attribute.String("shipment.id", shipmentID)))
	defer span.End()
	return s.inner.GetByID(ctx, shipmentID)
}

func (s *Service) List(ctx context.Context) ([]*shipdomain.Shipment, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.List")
	defer span.End()
	result, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list shipments")
	}
	span.SetAttributes(attribute.Int("shipment.count", len(result)))
	return result, nil
}

func (s *Service) ListAssigned(ctx context.Context) ([]*shipdomain.Shipment, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.ListAssigned")
	defer span.End()
	result, err := s.inner.ListAssigned(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list assigned shipments")
	}
	span.SetAttributes(attribute.Int("shipment.count", len(result)))
	return result, nil
}

func (s *Service) ListForDriver(ctx context.Context, driverID string) ([]*shipdomain.Shipment, error) {
	ctx, span := s.tracer.Start(ctx, "ShipmentService.ListForDriver", trace.WithAttributes(attribute.String("driver.id", driverID)))
	defer span.End()
	result, err := s.inner.ListForDriver(ctx, driverID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list driver shipments", slog.String("driver_id", driverID))
	}
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

type serviceMetrics struct {
	created     metric.Int64Counter
	transitions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("shipments.service.created", metric.WithDescription("Number of shipments created"))
	transitions, _ := m.Int64Counter("shipments.service.transitions", metric.WithDescription("Number of lifecycle transitions"))
	return serviceMetrics{created: created, transitions: transitions}
}

func (m serviceMetrics) recordCreated(ctx context.Context, tier shipdomain.ServiceType) {
	if m.created != nil {
		m.created.Add(ctx, 1, metric.WithAttributes(attribute.String("service_type", string(tier))))
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, to shipdomain.Status) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(to))))
	}
}

var _ shipports.Service = (*Service)(nil)
