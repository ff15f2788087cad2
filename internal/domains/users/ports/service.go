package ports

import (
	"context"

	"github.com/Apurer/courier-api/internal/domains/users/domain"
)

// RegisterInput carries a customer sign-up request.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string
	User  *domain.User
}

// Mailer delivers password reset codes.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Service exposes account and session use cases to adapters.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
	IssueSession(ctx context.Context, subject string, role domain.Role) (string, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	EnsureAdmin(ctx context.Context, email, password string) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
	ListCustomers(ctx context.Context) ([]*domain.User, error)
	// RevokeSessions signs subject out of every device.
	RevokeSessions(ctx context.Context, subject string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}
