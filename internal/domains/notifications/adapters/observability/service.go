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

	"github.com/Apurer/courier-api/internal/domains/notifications/domain"
	"github.com/Apurer/courier-api/internal/domains/notifications/ports"
)

const tracerName = "github.com/Apurer/courier-api/internal/domains/notifications/adapters/observability/service"

// Service decorates the notification service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	created metric.Int64Counter
	cleared metric.Int64Counter
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
		s.created, _ = m.Int64Counter("notifications.service.created", metric.WithDescription("Number of notifications created through the API"))
		s.cleared, _ = m.Int64Counter("notifications.service.cleared", metric.WithDescription("Number of notifications deleted in bulk"))
	}
}

func New(inner ports.Service, opts ...Option) ports.Service {
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

func (s *Service) Create(ctx context.Context, input ports.CreateInput) (*domain.Notification, error) {
	ctx, span := s.tracer.Start(ctx, "NotificationService.Create", trace.WithAttributes(attribute.String("notification.type", string(input.Type))))
	defer span.End()
	n, err := s.inner.Create(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create notification")
	}
	if s.created != nil {
		s.created.Add(ctx, 1, metric.WithAttributes(attribute.String("type", string(n.Type))))
	}
	return n, nil
}

func (s *Service) List(ctx context.Context, filter ports.Filter) ([]*domain.Notification, error) {
	ctx, span := s.tracer.Start(ctx, "NotificationService.List", trace.WithAttributes(attribute.String("notification.target", filter.TargetID)))
	defer span.End()
	list, err := s.inner.List(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list notifications")
	}
	span.SetAttributes(attribute.Int("notification.count", len(list)))
	return list, nil
}

func (s *Service) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	ctx, span := s.tracer.Start(ctx, "NotificationService.MarkRead", trace.WithAttributes(attribute.String("notification.id", id)))
	defer span.End()
	n, err := s.inner.MarkRead(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to mark notification read", slog.String("notification_id", id))
	}
	return n, nil
}

func (s *Service) ClearAll(ctx context.Context, filter ports.Filter) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "NotificationService.ClearAll")
	defer span.End()
	deleted, err := s.inner.ClearAll(ctx, filter)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to clear notifications")
	}
	if s.cleared != nil {
		s.cleared.Add(ctx, deleted)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "notifications cleared",
		slog.Int64("deleted", deleted), slog.String("target_id", filter.TargetID))
	return deleted, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

var _ ports.Service = (*Service)(nil)
