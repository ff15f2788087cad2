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

	orderdomain "github.com/Apurer/courier-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/courier-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/courier-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	created metric.Int64Counter
	revenue metric.Float64Counter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		if m == nil {
			return
		}
		s.created, _ = m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders booked"))
		s.revenue, _ = m.Float64Counter("orders.service.booked_amount", metric.WithDescription("Total amount of booked orders"))
	}
}

// New wraps the core order service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	s := &Service{inner: inner}
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

func (s *Service) Create(ctx context.Context, draft orderdomain.Draft) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Create", trace.WithAttributes(
		attribute.String("order.delivery_type", string(draft.DeliveryType)),
		attribute.Float64("order.weight", draft.Weight),
	))
	defer span.End()
	order, err := s.inner.Create(ctx, draft)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order")
	}
	span.SetAttributes(attribute.String("order.id", order.ID))
	attrs := metric.WithAttributes(attribute.String("delivery_type", string(order.DeliveryType)))
	if s.created != nil {
		s.created.Add(ctx, 1, attrs)
	}
	if s.revenue != nil {
		s.revenue.Add(ctx, order.TotalAmount, attrs)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "order created",
		slog.String("order_id", order.ID), slog.Float64("total_amount", order.TotalAmount))
	return order, nil
}

func (s *Service) Get(ctx context.Context, id string) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()
	order, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order_id", id))
	}
	return order, nil
}

func (s *Service) List(ctx context.Context) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.List")
	defer span.End()
	orders, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(orders)))
	return orders, nil
}

func (s *Service) ListByPhone(ctx context.Context, phone string) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListByPhone")
	defer span.End()
	orders, err := s.inner.ListByPhone(ctx, phone)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders by phone")
	}
	return orders, nil
}

func (s *Service) ListWithTracking(ctx context.Context) ([]orderdomain.Tracking, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListWithTracking")
	defer span.End()
	tracked, err := s.inner.ListWithTracking(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders with tracking")
	}
	return tracked, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status orderdomain.Status) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateStatus", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.String("order.status", string(status)),
	))
	defer span.End()
	order, err := s.inner.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.String("order_id", id))
	}
	return order, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.String("order_id", id))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "order deleted", slog.String("order_id", id))
	return nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.LogAttrs(ctx, slog.LevelError, msg, append(attrs, slog.String("error", err.Error()))...)
	return err
}

var _ orderports.Service = (*Service)(nil)
