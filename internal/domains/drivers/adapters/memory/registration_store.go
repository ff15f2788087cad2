package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/courier-api/internal/domains/drivers/domain"
	"github.com/Apurer/courier-api/internal/domains/drivers/ports"
)

var _ ports.RegistrationStore = (*RegistrationStore)(nil)

// RegistrationStore keeps pending sign-ups in process memory. Expiry is
// enforced by the service on read.
type RegistrationStore struct {
	mu      sync.Mutex
	pending map[string]domain.Registration
}

func NewRegistrationStore() *RegistrationStore {
	return &RegistrationStore{pending: map[string]domain.Registration{}}
}

func (s *RegistrationStore) Save(_ context.Context, registration *domain.Registration) error {
	if registration == nil {
		return errors.New("registration is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[registration.Email] = *registration
	return nil
}

func (s *RegistrationStore) Get(_ context.Context, email string) (*domain.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.pending[email]
	if !ok {
		return nil, ports.ErrRegistrationNotFound
	}
	return &reg, nil
}

func (s *RegistrationStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, email)
	return nil
}
