package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid shipment input")
	// ErrMissingIdentifiers is returned when an assignment lacks either id.
	ErrMissingIdentifiers = errors.New("shipmentId and driverId are required")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMissingParties) ||
		errors.Is(err, domain.ErrMissingSender) ||
		errors.Is(err, domain.ErrMissingReceiver) ||
		errors.Is(err, domain.ErrInvalidServiceType) ||
		errors.Is(err, domain.ErrInvalidPaymentMethod) ||
		errors.Is(err, domain.ErrInvalidWeight) ||
		errors.Is(err, domain.ErrInvalidCost) ||
		errors.Is(err, domain.ErrInvalidETA) ||
		errors.Is(err, domain.ErrEmptyDriver) ||
		errors.Is(err, ErrMissingIdentifiers) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
