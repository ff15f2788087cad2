package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/courier-api/internal/domains/drivers/domain"
	"github.com/Apurer/courier-api/internal/domains/drivers/ports"
	"github.com/Apurer/courier-api/internal/shared/verification"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid driver input")
	// ErrAuthentication wraps unknown accounts and wrong passwords.
	ErrAuthentication = errors.New("invalid credentials")
	// ErrNotApproved is returned when a pending or rejected driver logs in.
	ErrNotApproved = errors.New("account not approved yet")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyUsername) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrEmptyPhone) ||
		errors.Is(err, domain.ErrWeakPassword) ||
		errors.Is(err, domain.ErrInvalidVehicleType) ||
		errors.Is(err, domain.ErrEmptyVehicleNumber) ||
		errors.Is(err, domain.ErrEmptyIDProof) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, ports.ErrAlreadyRegistered) ||
		errors.Is(err, ports.ErrRegistrationNotFound) ||
		errors.Is(err, ports.ErrCodeExpired) ||
		errors.Is(err, ports.ErrInvalidCode) ||
		errors.Is(err, verification.ErrCodeNotFound) ||
		errors.Is(err, verification.ErrCodeExpired) ||
		errors.Is(err, verification.ErrInvalidCode) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
