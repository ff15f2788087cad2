package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/courier-api/internal/domains/drivers/domain"
)

var (
	ErrNotFound    = errors.New("driver not found")
	ErrDuplicateID = errors.New("driver id already exists")
	// ErrAlreadyRegistered reports an existing driver with the same email or vehicle number.
	ErrAlreadyRegistered = errors.New("driver already exists with this email or vehicle number")
)

// Filter narrows driver listings. Zero values match everything.
type Filter struct {
	Status      domain.Status
	VehicleType domain.VehicleType
}

// Repository persists driver accounts.
type Repository interface {
	// Create reports ErrDuplicateID when the id is taken and
	// ErrAlreadyRegistered when the email or vehicle number is.
	Create(ctx context.Context, driver *domain.Driver) (*domain.Driver, error)
	GetByID(ctx context.Context, id string) (*domain.Driver, error)
	// GetByLogin matches the email or the phone number.
	GetByLogin(ctx context.Context, emailOrPhone string) (*domain.Driver, error)
	ExistsByEmailOrVehicle(ctx context.Context, email, vehicleNumber string) (bool, error)
	List(ctx context.Context, filter Filter) ([]*domain.Driver, error)
	LatestDriverID(ctx context.Context) (string, error)
	SetStatus(ctx context.Context, id string, status domain.Status, at time.Time) (*domain.Driver, error)
	SetPushToken(ctx context.Context, id, token string, at time.Time) error
	SetPasswordHash(ctx context.Context, id, hash string, at time.Time) error
	// Names maps ids to usernames; unknown ids are omitted.
	Names(ctx context.Context, ids []string) (map[string]string, error)
}
