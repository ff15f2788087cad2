package ports

import (
	"context"
	"errors"

	"github.com/Apurer/courier-api/internal/domains/users/domain"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Repository persists user accounts.
type Repository interface {
	// Create inserts a new account and reports ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	// Update overwrites the stored account and reports ErrNotFound when missing.
	Update(ctx context.Context, user *domain.User) error
	// ListByRole returns accounts of role ordered by name.
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
}
