package memory

import (
	"context"
	"sync"

	"github.com/Apurer/courier-api/internal/domains/users/domain"
	"github.com/Apurer/courier-api/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory SessionStore keyed by token.
type SessionStore struct {
	sessions sync.Map
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Save(_ context.Context, session domain.Session) error {
	s.sessions.Store(session.Token, session)
	return nil
}

func (s *SessionStore) Get(_ context.Context, token string) (*domain.Session, error) {
	value, ok := s.sessions.Load(token)
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	session := value.(domain.Session)
	return &session, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.sessions.Delete(token)
	return nil
}

func (s *SessionStore) DeleteBySubject(_ context.Context, subject string) error {
	s.sessions.Range(func(key, value any) bool {
		if value.(domain.Session).Subject == subject {
			s.sessions.Delete(key)
		}
		return true
	})
	return nil
}
