package mapper

import (
	"time"

	"github.com/Apurer/courier-api/internal/domains/notifications/domain"
	"github.com/Apurer/courier-api/internal/domains/notifications/ports"
)

type CreateNotificationRequest struct {
	UserID  string `json:"userId"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Notification mirrors the stored document; userId is null for broadcasts.
type Notification struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"userId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

type ClearResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

func ToCreateInput(req CreateNotificationRequest) ports.CreateInput {
	return ports.CreateInput{
		TargetID: req.UserID,
		Title:    req.Title,
		Message:  req.Message,
		Type:     domain.Category(req.Type),
	}
}

func FromDomainNotification(n *domain.Notification) Notification {
	if n == nil {
		return Notification{}
	}
	out := Notification{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.TargetID != "" {
		target := n.TargetID
		out.UserID = &target
	}
	return out
}

func FromDomainNotifications(list []*domain.Notification) []Notification {
	out := make([]Notification, 0, len(list))
	for _, n := range list {
		out = append(out, FromDomainNotification(n))
	}
	return out
}
