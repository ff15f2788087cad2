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

	userdomain "github.com/Apurer/courier-api/internal/domains/users/domain"
	userports "github.com/Apurer/courier-api/internal/domains/users/ports"
)

const tracerName = "github.com/Apurer/courier-api/internal/domains/users/adapters/observability/service"

// Service decorates the user service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
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

// New wraps the core user service.
func New(inner userports.Service, opts ...Option) userports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Register(ctx context.Context, input userports.RegisterInput) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Register", trace.WithAttributes(attribute.String("user.email", input.Email)))
	defer span.End()
	result, err := s.inner.Register(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register user", slog.String("email", input.Email))
	}
	s.metrics.recordRegistered(ctx)
	s.logInfo(ctx, "user registered", slog.String("user_id", result.ID))
	return result, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*userports.LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Login", trace.WithAttributes(attribute.String("user.email", email)))
	defer span.End()
	result, err := s.inner.Login(ctx, email, password)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "login failed", slog.String("email", email))
	}
	s.metrics.recordLogin(ctx)
	return result, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Logout")
	defer span.End()
	if err := s.inner.Logout(ctx, token); err != nil {
		return s.handleError(ctx, span, err, "logout failed")
	}
	return nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (*userdomain.Principal, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Authenticate")
	defer span.End()
	principal, err := s.inner.Authenticate(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.recordRejected(ctx)
		return nil, err
	}
	span.SetAttributes(attribute.String("auth.subject", principal.Subject), attribute.String("auth.role", string(principal.Role)))
	return principal, nil
}

func (s *Service) IssueSession(ctx context.Context, subject string, role userdomain.Role) (string, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.IssueSession", trace.WithAttributes(
		attribute.String("auth.subject", subject),
		attribute.String("auth.role", string(role)),
	))
	defer span.End()
	token, err := s.inner.IssueSession(ctx, subject, role)
	if err != nil {
		return "", s.handleError(ctx, span, err, "failed to issue session", slog.String("subject", subject))
	}
	return token, nil
}

func (s *Service) GetByPhone(ctx context.Context, phone string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetByPhone")
	defer span.End()
	return s.inner.GetByPhone(ctx, phone)
}

func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.EnsureAdmin", trace.WithAttributes(attribute.String("user.email", email)))
	defer span.End()
	admin, err := s.inner.EnsureAdmin(ctx, email, password)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to seed administrator", slog.String("email", email))
	}
	s.logInfo(ctx, "administrator account ready", slog.String("user_id", admin.ID))
	return admin, nil
}

func (s *Service) Get(ctx context.Context, id string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Get", trace.WithAttributes(attribute.String("user.id", id)))
	defer span.End()
	return s.inner.Get(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id string, update userdomain.ProfileUpdate) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.UpdateProfile", trace.WithAttributes(attribute.String("user.id", id)))
	defer span.End()
	user, err := s.inner.UpdateProfile(ctx, id, update)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update profile", slog.String("user_id", id))
	}
	s.logInfo(ctx, "profile updated", slog.String("user_id", id))
	return user, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.ListCustomers")
	defer span.End()
	users, err := s.inner.ListCustomers(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list customers")
	}
	span.SetAttributes(attribute.Int("user.count", len(users)))
	return users, nil
}

func (s *Service) RevokeSessions(ctx context.Context, subject string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.RevokeSessions", trace.WithAttributes(attribute.String("auth.subject", subject)))
	defer span.End()
	if err := s.inner.RevokeSessions(ctx, subject); err != nil {
		return s.handleError(ctx, span, err, "failed to revoke sessions", slog.String("subject", subject))
	}
	s.logInfo(ctx, "sessions revoked", slog.String("subject", subject))
	return nil
}

func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.RequestPasswordReset", trace.WithAttributes(attribute.String("user.email", email)))
	defer span.End()
	if err := s.inner.RequestPasswordReset(ctx, email); err != nil {
		return s.handleError(ctx, span, err, "failed to send reset code", slog.String("email", email))
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.ResetPassword", trace.WithAttributes(attribute.String("user.email", email)))
	defer span.End()
	if err := s.inner.ResetPassword(ctx, email, code, newPassword); err != nil {
		return s.handleError(ctx, span, err, "password reset failed", slog.String("email", email))
	}
	s.logInfo(ctx, "password reset", slog.String("email", email))
	return nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

type serviceMetrics struct {
	registered metric.Int64Counter
	logins     metric.Int64Counter
	rejected   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("users.service.registered", metric.WithDescription("Number of customer accounts registered"))
	logins, _ := m.Int64Counter("users.service.logins", metric.WithDescription("Number of successful logins"))
	rejected, _ := m.Int64Counter("users.service.auth_rejected", metric.WithDescription("Number of rejected bearer tokens"))
	return serviceMetrics{registered: registered, logins: logins, rejected: rejected}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.registered != nil {
		m.registered.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context) {
	if m.rejected != nil {
		m.rejected.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ userports.Service = (*Service)(nil)
