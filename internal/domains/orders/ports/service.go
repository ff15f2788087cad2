package ports

import (
	"context"

	"github.com/Apurer/courier-api/internal/domains/orders/domain"
)

// Service exposes order booking and tracking.
type Service interface {
	Create(ctx context.Context, draft domain.Draft) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	ListByPhone(ctx context.Context, phone string) ([]*domain.Order, error)
	ListWithTracking(ctx context.Context) ([]domain.Tracking, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}
