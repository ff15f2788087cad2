package ports

import (
	"context"

	"github.com/Apurer/courier-api/internal/domains/notifications/domain"
)

// CreateInput carries an explicit notification creation request.
type CreateInput struct {
	TargetID string
	Title    string
	Message  string
	Type     domain.Category
}

// Service exposes notification use cases where the notification itself is the
// primary operation; failures propagate to the caller.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*domain.Notification, error)
	List(ctx context.Context, filter Filter) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id string) (*domain.Notification, error)
	ClearAll(ctx context.Context, filter Filter) (int64, error)
}

// Recipient identifies who a side-effect notification is addressed to.
type Recipient struct {
	ID        string
	PushToken string
}

// Emitter is used by other workflows to inform users as a side effect.
// None of its methods report failure.
type Emitter interface {
	Notify(ctx context.Context, targetID, title, message string, category domain.Category) *domain.Notification
	PushIfAvailable(ctx context.Context, recipient Recipient, title, body string, data map[string]string)
	EmitRealtime(event string, payload any)
}
