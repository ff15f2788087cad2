package ports

import (
	"context"
	"errors"

	"github.com/Apurer/courier-api/internal/domains/drivers/domain"
)

var (
	ErrRegistrationNotFound = errors.New("registration data not found, please register again")
	ErrCodeExpired          = errors.New("verification code expired")
	ErrInvalidCode          = errors.New("invalid verification code")
)

// RegistrationStore keeps pending sign-ups keyed by email until verified.
type RegistrationStore interface {
	// Save replaces any pending registration for the same email.
	Save(ctx context.Context, registration *domain.Registration) error
	Get(ctx context.Context, email string) (*domain.Registration, error)
	Delete(ctx context.Context, email string) error
}

// Mailer delivers plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
