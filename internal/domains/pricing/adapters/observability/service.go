package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	pricingdomain "github.com/Apurer/courier-api/internal/domains/pricing/domain"
	pricingports "github.com/Apurer/courier-api/internal/domains/pricing/ports"
)

const tracerName = "github.com/Apurer/courier-api/internal/domains/pricing/adapters/observability/service"

// Service decorates the pricing service with tracing, logging, and metrics.
type Service struct {
	inner   pricingports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	updates metric.Int64Counter
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
		if m != nil {
			s.updates, _ = m.Int64Counter("pricing.service.updates", metric.WithDescription("Number of tariff edits"))
		}
	}
}

// New wraps the core pricing service.
func New(inner pricingports.Service, opts ...Option) pricingports.Service {
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

func (s *Service) Get(ctx context.Context) (*pricingdomain.Config, error) {
	ctx, span := s.tracer.Start(ctx, "PricingService.Get")
	defer span.End()
	config, err := s.inner.Get(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load pricing")
	}
	return config, nil
}

func (s *Service) Update(ctx context.Context, patch pricingdomain.Patch) (*pricingdomain.Config, error) {
	ctx, span := s.tracer.Start(ctx, "PricingService.Update")
	defer span.End()
	config, err := s.inner.Update(ctx, patch)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update pricing")
	}
	if s.updates != nil {
		s.updates.Add(ctx, 1)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "pricing updated",
		slog.Float64("economy_base", config.Economy.BaseAmount),
		slog.Float64("express_base", config.Express.BaseAmount),
	)
	return config, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.LogAttrs(ctx, slog.LevelError, msg, slog.String("error", err.Error()))
	return err
}

var _ pricingports.Service = (*Service)(nil)
