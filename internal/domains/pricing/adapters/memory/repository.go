package memory

import (
	"context"
	"sync"

	"github.com/Apurer/courier-api/internal/domains/pricing/domain"
	"github.com/Apurer/courier-api/internal/domains/pricing/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps the tariff in process memory.
type Repository struct {
	mu     sync.RWMutex
	config *domain.Config
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) Get(context.Context) (*domain.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.config == nil {
		return nil, ports.ErrNotConfigured
	}
	clone := *r.config
	return &clone, nil
}

func (r *Repository) Save(_ context.Context, config domain.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = &config
	return nil
}
