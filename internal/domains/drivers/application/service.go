package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Apurer/courier-api/internal/domains/drivers/domain"
	"github.com/Apurer/courier-api/internal/domains/drivers/ports"
	notifdomain "github.com/Apurer/courier-api/internal/domains/notifications/domain"
	notifports "github.com/Apurer/courier-api/internal/domains/notifications/ports"
	"github.com/Apurer/courier-api/internal/shared/sequence"
	"github.com/Apurer/courier-api/internal/shared/verification"
)

const (
	// IDPrefix prefixes every generated driver identifier.
	IDPrefix = "DRV"
	// CodeTTL bounds how long an emailed verification code is accepted.
	CodeTTL = 15 * time.Minute
)

// Service implements driver onboarding, login and administration.
type Service struct {
	repo          ports.Repository
	registrations ports.RegistrationStore
	mailer        ports.Mailer
	sessions      ports.SessionIssuer
	revoke        ports.SessionRevoker
	resetCodes    verification.Store
	emitter       notifports.Emitter
	logger        *slog.Logger
	now           func() time.Time
	newCode       func() (string, error)
	idAttempts    int
}

type Option func(*Service)

// WithEmitter attaches the notification emitter for best-effort driver notices.
func WithEmitter(emitter notifports.Emitter) Option {
	return func(s *Service) { s.emitter = emitter }
}

// WithSessionRevoker drops a driver's tokens on rejection and password reset.
func WithSessionRevoker(revoke ports.SessionRevoker) Option {
	return func(s *Service) { s.revoke = revoke }
}

// WithResetCodes replaces the in-process password reset code store.
func WithResetCodes(store verification.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.resetCodes = store
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCodeGenerator replaces the random six digit verification code source.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Service) {
		if gen != nil {
			s.newCode = gen
		}
	}
}

func WithIDAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.idAttempts = n
		}
	}
}

func NewService(repo ports.Repository, registrations ports.RegistrationStore, mailer ports.Mailer, sessions ports.SessionIssuer, opts ...Option) *Service {
	s := &Service{
		repo:          repo,
		registrations: registrations,
		mailer:        mailer,
		sessions:      sessions,
		logger:        slog.New(slog.DiscardHandler),
		now:           time.Now,
		resetCodes:    verification.NewMemoryStore(),
		newCode:       verification.NewCode,
		idAttempts:    sequence.DefaultAttempts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// StartRegistration validates the sign-up, parks it in the registration
// store and emails a verification code.
func (s *Service) StartRegistration(ctx context.Context, input domain.RegistrationInput) error {
	code, err := s.newCode()
	if err != nil {
		return err
	}
	reg, err := domain.NewRegistration(input, code, s.now().Add(CodeTTL))
	if err != nil {
		return mapError(err)
	}
	exists, err := s.repo.ExistsByEmailOrVehicle(ctx, reg.Email, reg.VehicleNumber)
	if err != nil {
		return err
	}
	if exists {
		return mapError(ports.ErrAlreadyRegistered)
	}
	if err := s.registrations.Save(ctx, reg); err != nil {
		return err
	}
	body := fmt.Sprintf("Your driver verification code is: %s. It will expire in %d minutes.", code, int(CodeTTL.Minutes()))
	if err := s.mailer.Send(ctx, reg.Email, "Driver Verification Code", body); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	return nil
}

// VerifyRegistration checks the emailed code and creates the pending driver.
func (s *Service) VerifyRegistration(ctx context.Context, email, code string) (*domain.Driver, error) {
	email = domain.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, mapError(ports.ErrInvalidCode)
	}
	reg, err := s.registrations.Get(ctx, email)
	if err != nil {
		return nil, mapError(err)
	}
	now := s.now()
	if reg.Expired(now) {
		_ = s.registrations.Delete(ctx, email)
		return nil, mapError(ports.ErrCodeExpired)
	}
	if reg.Code != code {
		return nil, mapError(ports.ErrInvalidCode)
	}

	var saved *domain.Driver
	_, err = sequence.Generate(ctx, IDPrefix, s.repo.LatestDriverID, func(ctx context.Context, id string) error {
		out, err := s.repo.Create(ctx, reg.ToDriver(id, now))
		if errors.Is(err, ports.ErrDuplicateID) {
			return sequence.ErrDuplicate
		}
		if err != nil {
			return err
		}
		saved = out
		return nil
	}, s.idAttempts)
	if errors.Is(err, sequence.ErrExhausted) {
		return nil, fmt.Errorf("%w: %w", ports.ErrDuplicateID, err)
	}
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.registrations.Delete(ctx, email); err != nil {
		s.logger.WarnContext(ctx, "failed to clear pending registration",
			slog.String("email", email), slog.String("error", err.Error()))
	}

	s.notify(ctx, saved.ID, "Driver Registration Successful",
		fmt.Sprintf("Welcome %s! Your driver account has been registered and is pending approval.", saved.Username),
		notifdomain.CategoryRegistration)
	return saved, nil
}

// Login accepts the email or phone number. Only approved drivers get a session.
func (s *Service) Login(ctx context.Context, emailOrPhone, password string) (*ports.LoginResult, error) {
	login := strings.TrimSpace(emailOrPhone)
	if login == "" || password == "" {
		return nil, ErrAuthentication
	}
	if strings.Contains(login, "@") {
		login = domain.NormalizeEmail(login)
	}
	driver, err := s.repo.GetByLogin(ctx, login)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, ErrAuthentication
	}
	if err != nil {
		return nil, err
	}
	if !driver.CheckPassword(password) {
		return nil, ErrAuthentication
	}
	if !driver.Approved() {
		return nil, ErrNotApproved
	}
	token, err := s.sessions(ctx, driver.ID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, driver.ID, "Login Successful", "You have logged in to your driver account.", notifdomain.CategoryLogin)
	return &ports.LoginResult{Token: token, Driver: driver}, nil
}

// SetStatus records an administrator decision and notifies the driver.
func (s *Service) SetStatus(ctx context.Context, driverID string, status domain.Status) (*domain.Driver, error) {
	driverID = strings.TrimSpace(driverID)
	if driverID == "" || !status.Decision() {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	driver, err := s.repo.SetStatus(ctx, driverID, status, s.now())
	if err != nil {
		return nil, err
	}
	title, message := "Account Rejected", "Your driver account has been rejected. Please contact support."
	if status == domain.StatusApproved {
		title, message = "Account Approved", "Your driver account has been approved. You can now log in and accept deliveries."
	}
	if status == domain.StatusRejected {
		s.revokeSessions(ctx, driver.ID)
	}
	s.notify(ctx, driver.ID, title, message, notifdomain.CategoryStatusUpdate)
	return driver, nil
}

func (s *Service) Get(ctx context.Context, driverID string) (*domain.Driver, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(driverID))
}

func (s *Service) Exists(ctx context.Context, driverID string) (bool, error) {
	_, err := s.repo.GetByID(ctx, strings.TrimSpace(driverID))
	if errors.Is(err, ports.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *Service) List(ctx context.Context, filter ports.Filter) ([]*domain.Driver, error) {
	if filter.VehicleType != "" {
		if !filter.VehicleType.Valid() {
			return nil, mapError(domain.ErrInvalidVehicleType)
		}
		// Vehicle listings back dispatch, so only approved drivers qualify.
		filter.Status = domain.StatusApproved
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) UpdatePushToken(ctx context.Context, driverID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: push token is required", ErrInvalidInput)
	}
	return s.repo.SetPushToken(ctx, strings.TrimSpace(driverID), token, s.now())
}

// RequestPasswordReset emails a reset code to a registered driver.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return mapError(domain.ErrInvalidEmail)
	}
	driver, err := s.repo.GetByLogin(ctx, email)
	if err != nil {
		return err
	}
	code, err := s.newCode()
	if err != nil {
		return err
	}
	err = s.resetCodes.Save(ctx, verification.PurposeDriverPasswordReset, verification.Code{
		Email:     driver.Email,
		Value:     code,
		ExpiresAt: s.now().Add(CodeTTL),
	})
	if err != nil {
		return err
	}
	body := fmt.Sprintf("Your password reset code is: %s. It will expire in %d minutes.", code, int(CodeTTL.Minutes()))
	if err := s.mailer.Send(ctx, driver.Email, "Driver Password Reset Code", body); err != nil {
		return fmt.Errorf("send reset code: %w", err)
	}
	return nil
}

// ResetPassword consumes the emailed code, stores the new password and signs
// the driver out everywhere.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = domain.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(code) == "" || newPassword == "" {
		return fmt.Errorf("%w: email, verification code, and new password are required", ErrInvalidInput)
	}
	hash, err := domain.HashPassword(newPassword)
	if err != nil {
		return mapError(err)
	}
	if err := verification.Consume(ctx, s.resetCodes, verification.PurposeDriverPasswordReset, email, code, s.now()); err != nil {
		return mapError(err)
	}
	driver, err := s.repo.GetByLogin(ctx, email)
	if err != nil {
		return err
	}
	if err := s.repo.SetPasswordHash(ctx, driver.ID, hash, s.now()); err != nil {
		return err
	}
	s.revokeSessions(ctx, driver.ID)
	s.notify(ctx, driver.ID, "Password Reset Successful", "Your password has been successfully reset.", notifdomain.CategorySecurity)
	return nil
}

func (s *Service) revokeSessions(ctx context.Context, driverID string) {
	if s.revoke == nil {
		return
	}
	if err := s.revoke(ctx, driverID); err != nil {
		s.logger.WarnContext(ctx, "failed to revoke driver sessions",
			slog.String("driver_id", driverID), slog.String("error", err.Error()))
	}
}

func (s *Service) notify(ctx context.Context, driverID, title, message string, category notifdomain.Category) {
	if s.emitter == nil {
		return
	}
	s.emitter.Notify(ctx, driverID, title, message, category)
}

var _ ports.Service = (*Service)(nil)
