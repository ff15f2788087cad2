package ports

import (
	"context"
	"errors"

	"github.com/Apurer/courier-api/internal/domains/pricing/domain"
)

// ErrNotConfigured is returned by Repository.Get before the tariff is first saved.
var ErrNotConfigured = errors.New("pricing not configured")

// Repository stores the single tariff document.
type Repository interface {
	Get(ctx context.Context) (*domain.Config, error)
	Save(ctx context.Context, config domain.Config) error
}

// Service reads and edits the tariff.
type Service interface {
	// Get returns the stored tariff, saving the defaults on first use.
	Get(ctx context.Context) (*domain.Config, error)
	Update(ctx context.Context, patch domain.Patch) (*domain.Config, error)
}
