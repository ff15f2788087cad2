package ports

import (
	"context"
	"errors"

	"github.com/Apurer/courier-api/internal/domains/users/domain"
)

// ErrSessionNotFound is returned for unknown or expired tokens.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore abstracts bearer-token persistence.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
	// DeleteBySubject drops every token issued to subject.
	DeleteBySubject(ctx context.Context, subject string) error
}
