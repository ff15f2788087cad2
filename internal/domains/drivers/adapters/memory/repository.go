package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/courier-api/internal/domains/drivers/domain"
	"github.com/Apurer/courier-api/internal/domains/drivers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory driver store.
type Repository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver
	latest  string
}

func NewRepository() *Repository {
	return &Repository{drivers: map[string]*domain.Driver{}}
}

func (r *Repository) Create(_ context.Context, driver *domain.Driver) (*domain.Driver, error) {
	if driver == nil {
		return nil, errors.New("driver is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drivers[driver.ID]; ok {
		return nil, ports.ErrDuplicateID
	}
	for _, existing := range r.drivers {
		if existing.Email == driver.Email || existing.VehicleNumber == driver.VehicleNumber {
			return nil, ports.ErrAlreadyRegistered
		}
	}
	clone := *driver
	r.drivers[clone.ID] = &clone
	r.latest = clone.ID
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	driver, ok := r.drivers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *driver
	return &clone, nil
}

func (r *Repository) GetByLogin(_ context.Context, emailOrPhone string) (*domain.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, driver := range r.sorted() {
		if driver.Email == emailOrPhone || driver.Phone == emailOrPhone {
			clone := *driver
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) ExistsByEmailOrVehicle(_ context.Context, email, vehicleNumber string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, driver := range r.drivers {
		if driver.Email == email || driver.VehicleNumber == vehicleNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repository) List(_ context.Context, filter ports.Filter) ([]*domain.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Driver, 0, len(r.drivers))
	for _, driver := range r.sorted() {
		if filter.Status != "" && driver.Status != filter.Status {
			continue
		}
		if filter.VehicleType != "" && driver.VehicleType != filter.VehicleType {
			continue
		}
		clone := *driver
		out = append(out, &clone)
	}
	return out, nil
}

func (r *Repository) LatestDriverID(context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest, nil
}

func (r *Repository) SetStatus(_ context.Context, id string, status domain.Status, at time.Time) (*domain.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	driver.Status = status
	driver.UpdatedAt = at
	clone := *driver
	return &clone, nil
}

func (r *Repository) SetPushToken(_ context.Context, id, token string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[id]
	if !ok {
		return ports.ErrNotFound
	}
	driver.PushToken = token
	driver.UpdatedAt = at
	return nil
}

func (r *Repository) SetPasswordHash(_ context.Context, id, hash string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[id]
	if !ok {
		return ports.ErrNotFound
	}
	driver.PasswordHash = hash
	driver.UpdatedAt = at
	return nil
}

func (r *Repository) Names(_ context.Context, ids []string) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if driver, ok := r.drivers[id]; ok {
			names[id] = driver.Username
		}
	}
	return names, nil
}

// sorted returns drivers newest first; callers hold the lock.
func (r *Repository) sorted() []*domain.Driver {
	list := make([]*domain.Driver, 0, len(r.drivers))
	for _, driver := range r.drivers {
		list = append(list, driver)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list
}
