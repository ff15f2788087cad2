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

	driverdomain "github.com/Apurer/courier-api/internal/domains/drivers/domain"
	driverports "github.com/Apurer/courier-api/internal/domains/drivers/ports"
)

const tracerName = "github.com/Apurer/courier-api/internal/domains/drivers/adapters/observability/service"

// Service decorates the driver service with tracing, logging, and metrics.
type Service struct {
	inner   driverports.Service
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

// New wraps the core driver service.
func New(inner driverports.Service, opts ...Option) driverports.Service {
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

func (s *Service) StartRegistration(ctx context.Context, input driverdomain.RegistrationInput) error {
	ctx, span := s.tracer.Start(ctx, "DriverService.StartRegistration", trace.WithAttributes(
		attribute.String("driver.vehicle_type", string(input.VehicleType)),
	))
	defer span.End()
	if err := s.inner.StartRegistration(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to start driver registration", slog.String("email", input.Email))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "driver verification code sent", slog.String("email", input.Email))
	return nil
}

func (s *Service) VerifyRegistration(ctx context.Context, email, code string) (*driverdomain.Driver, error) {
	ctx, span := s.tracer.Start(ctx, "DriverService.VerifyRegistration")
	defer span.End()
	driver, err := s.inner.VerifyRegistration(ctx, email, code)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "driver verification failed", slog.String("email", email))
	}
	span.SetAttributes(attribute.String("driver.id", driver.ID))
	s.metrics.add(ctx, s.metrics.registered)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "driver registered", slog.String("driver_id", driver.ID))
	return driver, nil
}

func (s *Service) Login(ctx context.Context, emailOrPhone, password string) (*driverports.LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "DriverService.Login")
	defer span.End()
	result, err := s.inner.Login(ctx, emailOrPhone, password)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "driver login failed")
	}
	span.SetAttributes(attribute.String("driver.id", result.Driver.ID))
	s.metrics.add(ctx, s.metrics.logins)
	return result, nil
}

func (s *Service) SetStatus(ctx context.Context, driverID string, status driverdomain.Status) (*driverdomain.Driver, error) {
	ctx, span := s.tracer.Start(ctx, "DriverService.SetStatus", trace.WithAttributes(
		attribute.String("driver.id", driverID),
		attribute.String("driver.status", string(status)),
	))
	defer span.End()
	driver, err := s.inner.SetStatus(ctx, driverID, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update driver status", slog.String("driver_id", driverID))
	}
	if s.metrics.decisions != nil {
		s.metrics.decisions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(status))))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "driver status updated",
		slog.String("driver_id", driverID), slog.String("status", string(status)))
	return driver, nil
}

func (s *Service) Get(ctx context.Context, driverID string) (*driverdomain.Driver, error) {
	ctx, span := s.tracer.Start(ctx, "DriverService.Get", trace.WithAttributes(attribute.String("driver.id", driverID)))
	defer span.End()
	driver, err := s.inner.Get(ctx, driverID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load driver", slog.String("driver_id", driverID))
	}
	return driver, nil
}

func (s *Service) Exists(ctx context.Context, driverID string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "DriverService.Exists", trace.WithAttributes(attribute.String("driver.id", driverID)))
	defer span.End()
	ok, err := s.inner.Exists(ctx, driverID)
	if err != nil {
		return false, s.handleError(ctx, span, err, "failed to check driver", slog.String("driver_id", driverID))
	}
	return ok, nil
}

func (s *Service) List(ctx context.Context, filter driverports.Filter) ([]*driverdomain.Driver, error) {
	ctx, span := s.tracer.Start(ctx, "DriverService.List", trace.WithAttributes(
		attribute.String("driver.status", string(filter.Status)),
		attribute.String("driver.vehicle_type", string(filter.VehicleType)),
	))
	defer span.End()
	drivers, err := s.inner.List(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list drivers")
	}
	span.SetAttributes(attribute.Int("driver.count", len(drivers)))
	return drivers, nil
}

func (s *Service) UpdatePushToken(ctx context.Context, driverID, token string) error {
	ctx, span := s.tracer.Start(ctx, "DriverService.UpdatePushToken", trace.WithAttributes(attribute.String("driver.id", driverID)))
	defer span.End()
	if err := s.inner.UpdatePushToken(ctx, driverID, token); err != nil {
		return s.handleError(ctx, span, err, "failed to update push token", slog.String("driver_id", driverID))
	}
	return nil
}

func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	ctx, span := s.tracer.Start(ctx, "DriverService.RequestPasswordReset", trace.WithAttributes(attribute.String("driver.email", email)))
	defer span.End()
	if err := s.inner.RequestPasswordReset(ctx, email); err != nil {
		return s.handleError(ctx, span, err, "failed to send driver reset code", slog.String("email", email))
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	ctx, span := s.tracer.Start(ctx, "DriverService.ResetPassword", trace.WithAttributes(attribute.String("driver.email", email)))
	defer span.End()
	if err := s.inner.ResetPassword(ctx, email, code, newPassword); err != nil {
		return s.handleError(ctx, span, err, "driver password reset failed", slog.String("email", email))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "driver password reset", slog.String("email", email))
	return nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

type serviceMetrics struct {
	registered metric.Int64Counter
	logins     metric.Int64Counter
	decisions  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("drivers.service.registered", metric.WithDescription("Number of verified driver registrations"))
	logins, _ := m.Int64Counter("drivers.service.logins", metric.WithDescription("Number of successful driver logins"))
	decisions, _ := m.Int64Counter("drivers.service.status_decisions", metric.WithDescription("Number of approval decisions by status"))
	return serviceMetrics{registered: registered, logins: logins, decisions: decisions}
}

func (serviceMetrics) add(ctx context.Context, counter metric.Int64Counter) {
	if counter != nil {
		counter.Add(ctx, 1)
	}
}

var _ driverports.Service = (*Service)(nil)
