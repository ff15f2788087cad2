package ports

import "context"

// PushSender delivers a push message to a device token.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// Broadcaster fans an event out to every connected real-time client.
// Delivery is fire-and-forget.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// NoopPushSender is used when push delivery is not configured.
var NoopPushSender PushSender = noopPushSender{}

type noopPushSender struct{}

func (noopPushSender) Send(context.Context, string, string, string, map[string]string) error {
	return nil
}

// NoopBroadcaster drops every event.
var NoopBroadcaster Broadcaster = noopBroadcaster{}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(string, any) {}
