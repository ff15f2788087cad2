package ports

import (
	"context"

	"github.com/Apurer/courier-api/internal/domains/drivers/domain"
)

// SessionIssuer mints a bearer token for an authenticated driver.
type SessionIssuer func(ctx context.Context, driverID string) (string, error)

// SessionRevoker drops every bearer token issued to a driver.
type SessionRevoker func(ctx context.Context, driverID string) error

// LoginResult is returned on a successful driver login.
type LoginResult struct {
	Token  string
	Driver *domain.Driver
}

// Service exposes driver onboarding and administration.
type Service interface {
	StartRegistration(ctx context.Context, input domain.RegistrationInput) error
	VerifyRegistration(ctx context.Context, email, code string) (*domain.Driver, error)
	Login(ctx context.Context, emailOrPhone, password string) (*LoginResult, error)
	SetStatus(ctx context.Context, driverID string, status domain.Status) (*domain.Driver, error)
	Get(ctx context.Context, driverID string) (*domain.Driver, error)
	Exists(ctx context.Context, driverID string) (bool, error)
	List(ctx context.Context, filter Filter) ([]*domain.Driver, error)
	UpdatePushToken(ctx context.Context, driverID, token string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}
