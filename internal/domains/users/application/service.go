package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	notifdomain "github.com/Apurer/courier-api/internal/domains/notifications/domain"
	notifports "github.com/Apurer/courier-api/internal/domains/notifications/ports"
	"github.com/Apurer/courier-api/internal/domains/users/domain"
	"github.com/Apurer/courier-api/internal/domains/users/ports"
	"github.com/Apurer/courier-api/internal/shared/verification"
)

// DefaultSessionTTL bounds how long an issued bearer token stays valid.
const DefaultSessionTTL = 24 * time.Hour

// ErrMailerUnavailable is returned by RequestPasswordReset when no mailer is wired.
var ErrMailerUnavailable = errors.New("password reset mail is not configured")

// Service exposes account and session use cases.
type Service struct {
	repo       ports.Repository
	sessions   ports.SessionStore
	sessionTTL time.Duration
	mailer     ports.Mailer
	resetCodes verification.Store
	newCode    func() (string, error)
	emitter    notifports.Emitter
	now        func() time.Time
}

type Option func(*Service)

// WithSessionTTL overrides DefaultSessionTTL.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithMailer enables password reset codes.
func WithMailer(mailer ports.Mailer) Option {
	return func(s *Service) { s.mailer = mailer }
}

// WithResetCodes replaces the in-process reset code store.
func WithResetCodes(store verification.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.resetCodes = store
		}
	}
}

// WithCodeGenerator replaces the random six digit reset code source.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Service) {
		if gen != nil {
			s.newCode = gen
		}
	}
}

// WithEmitter sends in-app notices for profile and password changes.
func WithEmitter(emitter notifports.Emitter) Option {
	return func(s *Service) { s.emitter = emitter }
}

func NewService(repo ports.Repository, sessions ports.SessionStore, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		sessions:   sessions,
		sessionTTL: DefaultSessionTTL,
		resetCodes: verification.NewMemoryStore(),
		newCode:    verification.NewCode,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	user, err := domain.NewUser(uuid.NewString(), input.Name, input.Email, input.Phone, input.Password, domain.RoleCustomer)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	token, err := s.IssueSession(ctx, user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &ports.LoginResult{Token: token, User: user}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a bearer token into the principal it was issued to.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, mapError(ports.ErrSessionNotFound)
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, mapError(err)
	}
	if session.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, token)
		return nil, mapError(ports.ErrSessionNotFound)
	}
	return &domain.Principal{Subject: session.Subject, Role: session.Role}, nil
}

// IssueSession stores a fresh token for subject. Drivers authenticate through
// their own context and obtain tokens here.
func (s *Service) IssueSession(ctx context.Context, subject string, role domain.Role) (string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", errors.New("session subject is required")
	}
	session := domain.Session{
		Token:     uuid.NewString(),
		Subject:   subject,
		Role:      role,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return "", err
	}
	return session.Token, nil
}

func (s *Service) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ports.ErrNotFound
	}
	return s.repo.GetByPhone(ctx, phone)
}

// EnsureAdmin creates the administrator account when it does not exist yet.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	existing, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	admin, err := domain.NewUser(uuid.NewString(), "Administrator", email, "", password, domain.RoleAdmin)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, admin)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ports.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile applies the non-blank fields of update to the account.
func (s *Service) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.ApplyProfile(update)
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.notify(ctx, user.ID, "Profile Updated", "Your profile details have been updated.")
	return user, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.ListByRole(ctx, domain.RoleCustomer)
}

func (s *Service) RevokeSessions(ctx context.Context, subject string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil
	}
	return s.sessions.DeleteBySubject(ctx, subject)
}

// RequestPasswordReset emails a short-lived reset code to a registered account.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return mapError(domain.ErrInvalidEmail)
	}
	if s.mailer == nil {
		return ErrMailerUnavailable
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	code, err := s.newCode()
	if err != nil {
		return err
	}
	err = s.resetCodes.Save(ctx, verification.PurposeUserPasswordReset, verification.Code{
		Email:     user.Email,
		Value:     code,
		ExpiresAt: s.now().Add(verification.DefaultTTL),
	})
	if err != nil {
		return err
	}
	body := fmt.Sprintf("Your password reset code is: %s. It will expire in %d minutes.", code, int(verification.DefaultTTL.Minutes()))
	if err := s.mailer.Send(ctx, user.Email, "Password Reset Code", body); err != nil {
		return fmt.Errorf("send reset code: %w", err)
	}
	return nil
}

// ResetPassword consumes the emailed code, stores the new password and
// revokes every open session of the account.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = domain.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(code) == "" {
		return fmt.Errorf("%w: email and verification code are required", ErrInvalidInput)
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return mapError(err)
	}
	if err := verification.Consume(ctx, s.resetCodes, verification.PurposeUserPasswordReset, email, code, s.now()); err != nil {
		return mapError(err)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	if err := s.sessions.DeleteBySubject(ctx, user.ID); err != nil {
		return err
	}
	s.notify(ctx, user.ID, "Password Reset", "Your password was reset. Please log in again.")
	return nil
}

func (s *Service) notify(ctx context.Context, targetID, title, message string) {
	if s.emitter == nil {
		return
	}
	s.emitter.Notify(ctx, targetID, title, message, notifdomain.CategorySecurity)
}

var _ ports.Service = (*Service)(nil)
