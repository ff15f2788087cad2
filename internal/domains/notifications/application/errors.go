package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/courier-api/internal/domains/notifications/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid notification input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyTitle) || errors.Is(err, domain.ErrEmptyMessage) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
