package ports

import (
	"context"
	"errors"
)

// ErrDriverUnavailable is returned when the driver is missing or not approved.
var ErrDriverUnavailable = errors.New("approved driver not found")

// Driver is the slice of a driver account the shipment lifecycle needs.
type Driver struct {
	ID        string
	Username  string
	PushToken string
}

// DriverDirectory resolves driver references owned by the drivers context.
type DriverDirectory interface {
	// FindApproved returns the driver only when its status is approved.
	FindApproved(ctx context.Context, driverID string) (*Driver, error)
	// Names maps driver ids to display names; unknown ids are omitted.
	Names(ctx context.Context, driverIDs []string) (map[string]string, error)
}
