package verification

import (
	"context"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps codes in process. Expired entries linger until read.
type MemoryStore struct {
	mu    sync.Mutex
	codes map[string]Code
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{codes: map[string]Code{}}
}

func (s *MemoryStore) Save(_ context.Context, purpose Purpose, code Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[key(purpose, code.Email)] = code
	return nil
}

func (s *MemoryStore) Get(_ context.Context, purpose Purpose, email string) (*Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.codes[key(purpose, email)]
	if !ok {
		return nil, ErrCodeNotFound
	}
	return &code, nil
}

func (s *MemoryStore) Delete(_ context.Context, purpose Purpose, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, key(purpose, email))
	return nil
}

func key(purpose Purpose, email string) string {
	return "verification:" + string(purpose) + ":" + email
}
