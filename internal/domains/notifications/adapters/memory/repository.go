package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/courier-api/internal/domains/notifications/domain"
	"github.com/Apurer/courier-api/internal/domains/notifications/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory notification store.
type Repository struct {
	mu            sync.RWMutex
	notifications map[string]*domain.Notification
}

func NewRepository() *Repository {
	return &Repository{notifications: map[string]*domain.Notification{}}
}

func (r *Repository) Save(_ context.Context, notification *domain.Notification) error {
	if notification == nil {
		return errors.New("notification is nil")
	}
	clone := *notification
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications[clone.ID] = &clone
	return nil
}

func (r *Repository) List(_ context.Context, filter ports.Filter) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Notification, 0, len(r.notifications))
	for _, n := range r.notifications {
		if filter.TargetID != "" && n.TargetID != filter.TargetID {
			continue
		}
		clone := *n
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *Repository) MarkRead(_ context.Context, id string) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	n.MarkRead()
	clone := *n
	return &clone, nil
}

func (r *Repository) DeleteAll(_ context.Context, filter ports.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, n := range r.notifications {
		if filter.TargetID != "" && n.TargetID != filter.TargetID {
			continue
		}
		delete(r.notifications, id)
		removed++
	}
	return removed, nil
}
