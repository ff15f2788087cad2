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

	"github.com/Apurer/courier-api/internal/domains/payments/domain"
	"github.com/Apurer/courier-api/internal/domains/payments/ports"
)

const tracerName = "github.com/Apurer/courier-api/internal/domains/payments/adapters/observability/service"

// Service decorates the payment service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
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

func New(inner ports.Service, opts ...Option) ports.Service {
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

func (s *Service) CreateGatewayIntent(ctx context.Context, amount float64, currency, userID string) (*domain.GatewayIntent, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.CreateGatewayIntent", trace.WithAttributes(
		attribute.Float64("payment.amount", amount),
		attribute.String("payment.currency", currency),
	))
	defer span.End()
	intent, err := s.inner.CreateGatewayIntent(ctx, amount, currency, userID)
	if err != nil {
		s.metrics.recordFailure(ctx, "gateway")
		return nil, s.handleError(ctx, span, err, "failed to create payment intent", slog.Float64("amount", amount))
	}
	span.SetAttributes(attribute.String("payment.customer", intent.Customer))
	s.metrics.recordInitiated(ctx, "gateway")
	s.logger.LogAttrs(ctx, slog.LevelInfo, "payment intent created",
		slog.String("customer", intent.Customer), slog.Float64("amount", amount))
	return intent, nil
}

func (s *Service) CreateRedirectPayment(ctx context.Context, shipmentID string) (*domain.RedirectPayment, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.CreateRedirectPayment", trace.WithAttributes(attribute.String("shipment.id", shipmentID)))
	defer span.End()
	payment, err := s.inner.CreateRedirectPayment(ctx, shipmentID)
	if err != nil {
		s.metrics.recordFailure(ctx, "payfast")
		return nil, s.handleError(ctx, span, err, "failed to build redirect payment", slog.String("shipment_id", shipmentID))
	}
	s.metrics.recordInitiated(ctx, "payfast")
	return payment, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

type serviceMetrics struct {
	initiated metric.Int64Counter
	failed    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	initiated, _ := m.Int64Counter("payments.service.initiated", metric.WithDescription("Number of payments handed to a provider"))
	failed, _ := m.Int64Counter("payments.service.failed", metric.WithDescription("Number of payment initiations that failed"))
	return serviceMetrics{initiated: initiated, failed: failed}
}

func (m serviceMetrics) recordInitiated(ctx context.Context, provider string) {
	if m.initiated != nil {
		m.initiated.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context, provider string) {
	if m.failed != nil {
		m.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
	}
}

var _ ports.Service = (*Service)(nil)
