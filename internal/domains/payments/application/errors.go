package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/courier-api/internal/domains/payments/domain"
)

// ErrInvalidInput signals a malformed payment request.
var ErrInvalidInput = errors.New("invalid payment input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidAmount) || errors.Is(err, domain.ErrMissingShipmentID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
