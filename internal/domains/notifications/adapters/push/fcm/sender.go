// Package fcm delivers push notifications through Firebase Cloud Messaging.
package fcm

import (
	"context"
	"errors"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/Apurer/courier-api/internal/domains/notifications/ports"
)

var _ ports.PushSender = (*Sender)(nil)

// Client is the subset of the FCM messaging client used here.
type Client interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Sender sends push messages to individual device tokens.
type Sender struct {
	client Client
}

// New initialises a Firebase app from a service-account credentials file.
// The returned sender is shared for the life of the process.
func New(ctx context.Context, credentialsFile string) (*Sender, error) {
	credentialsFile = strings.TrimSpace(credentialsFile)
	if credentialsFile == "" {
		return nil, errors.New("firebase credentials file is required")
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &Sender{client: client}, nil
}

// NewWithClient wraps an existing messaging client.
func NewWithClient(client Client) *Sender {
	return &Sender{client: client}
}

func (s *Sender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if s == nil || s.client == nil {
		return errors.New("fcm sender not configured")
	}
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
	_, err := s.client.Send(ctx, message)
	return err
}
