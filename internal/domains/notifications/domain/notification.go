package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category tags what kind of event a notification describes.
type Category string

const (
	CategoryGeneral          Category = "general"
	CategoryRegistration     Category = "registration"
	CategoryLogin            Category = "login"
	CategoryStatusUpdate     Category = "status_update"
	CategoryShipmentAssigned Category = "shipment_assigned"
	CategoryOrder            Category = "order"
	CategoryPayment          Category = "payment"
	CategorySecurity         Category = "security"
)

var (
	ErrEmptyTitle   = errors.New("notification title is required")
	ErrEmptyMessage = errors.New("notification message is required")
)

// Notification is an in-app message addressed to a user or driver. Only the
// read flag changes after creation.
type Notification struct {
	ID        string    `json:"id" bson:"_id"`
	TargetID  string    `json:"targetId,omitempty" bson:"targetId,omitempty"`
	Title     string    `json:"title" bson:"title"`
	Message   string    `json:"message" bson:"message"`
	Type      Category  `json:"type" bson:"type"`
	IsRead    bool      `json:"isRead" bson:"isRead"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// New validates and builds an unread notification. An empty category becomes general.
func New(targetID, title, message string, category Category, now time.Time) (*Notification, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}
	if category == "" {
		category = CategoryGeneral
	}
	return &Notification{
		ID:        uuid.NewString(),
		TargetID:  strings.TrimSpace(targetID),
		Title:     title,
		Message:   message,
		Type:      category,
		CreatedAt: now.UTC(),
	}, nil
}

// MarkRead flips the read flag.
func (n *Notification) MarkRead() {
	n.IsRead = true
}
