// Package directory resolves shipment driver references against the drivers context.
package directory

import (
	"context"
	"errors"

	driverdomain "github.com/Apurer/courier-api/internal/domains/drivers/domain"
	driverports "github.com/Apurer/courier-api/internal/domains/drivers/ports"
	"github.com/Apurer/courier-api/internal/domains/shipments/ports"
)

var _ ports.DriverDirectory = (*Drivers)(nil)

// DriverReader is the subset of the driver repository the directory reads.
type DriverReader interface {
	GetByID(ctx context.Context, id string) (*driverdomain.Driver, error)
	Names(ctx context.Context, ids []string) (map[string]string, error)
}

// Drivers adapts the driver store to the shipments DriverDirectory port.
type Drivers struct {
	reader DriverReader
}

func NewDrivers(reader DriverReader) *Drivers {
	return &Drivers{reader: reader}
}

// FindApproved returns ErrDriverUnavailable for unknown, pending or rejected drivers.
func (d *Drivers) FindApproved(ctx context.Context, driverID string) (*ports.Driver, error) {
	driver, err := d.reader.GetByID(ctx, driverID)
	if errors.Is(err, driverports.ErrNotFound) {
		return nil, ports.ErrDriverUnavailable
	}
	if err != nil {
		return nil, err
	}
	if !driver.Approved() {
		return nil, ports.ErrDriverUnavailable
	}
	return &ports.Driver{ID: driver.ID, Username: driver.Username, PushToken: driver.PushToken}, nil
}

func (d *Drivers) Names(ctx context.Context, driverIDs []string) (map[string]string, error) {
	return d.reader.Names(ctx, driverIDs)
}
