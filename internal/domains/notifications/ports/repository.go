package ports

import (
	"context"
	"errors"

	"github.com/Apurer/courier-api/internal/domains/notifications/domain"
)

var ErrNotFound = errors.New("notification not found")

// Filter narrows notification listings. An empty TargetID matches all.
type Filter struct {
	TargetID string
}

// Repository persists notifications.
type Repository interface {
	Save(ctx context.Context, notification *domain.Notification) error
	List(ctx context.Context, filter Filter) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id string) (*domain.Notification, error)
	// DeleteAll removes notifications matching filter and reports how many went.
	DeleteAll(ctx context.Context, filter Filter) (int64, error)
}
