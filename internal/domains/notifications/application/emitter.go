package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Apurer/courier-api/internal/domains/notifications/domain"
	"github.com/Apurer/courier-api/internal/domains/notifications/ports"
)

// Emitter records notifications and mirrors them to push and real-time
// channels on behalf of other workflows. It never fails its caller.
type Emitter struct {
	repo        ports.Repository
	push        ports.PushSender
	broadcaster ports.Broadcaster
	logger      *slog.Logger
	now         func() time.Time
}

type EmitterOption func(*Emitter)

func WithPushSender(push ports.PushSender) EmitterOption {
	return func(e *Emitter) {
		if push != nil {
			e.push = push
		}
	}
}

func WithBroadcaster(b ports.Broadcaster) EmitterOption {
	return func(e *Emitter) {
		if b != nil {
			e.broadcaster = b
		}
	}
}

func WithEmitterLogger(logger *slog.Logger) EmitterOption {
	return func(e *Emitter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithClock(now func() time.Time) EmitterOption {
	return func(e *Emitter) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEmitter(repo ports.Repository, opts ...EmitterOption) *Emitter {
	e := &Emitter{
		repo:        repo,
		push:        ports.NoopPushSender,
		broadcaster: ports.NoopBroadcaster,
		logger:      slog.New(slog.DiscardHandler),
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Notify persists a notification and returns it, or nil when it could not be stored.
func (e *Emitter) Notify(ctx context.Context, targetID, title, message string, category domain.Category) *domain.Notification {
	notification, err := domain.New(targetID, title, message, category, e.now())
	if err != nil {
		e.logger.LogAttrs(ctx, slog.LevelWarn, "notification rejected",
			slog.String("target", targetID), slog.String("error", err.Error()))
		return nil
	}
	if e.repo == nil {
		return nil
	}
	if err := e.repo.Save(ctx, notification); err != nil {
		e.logger.LogAttrs(ctx, slog.LevelError, "failed to store notification",
			slog.String("target", targetID), slog.String("type", string(category)), slog.String("error", err.Error()))
		return nil
	}
	return notification
}

// PushIfAvailable sends a push message when the recipient has a registered token.
func (e *Emitter) PushIfAvailable(ctx context.Context, recipient ports.Recipient, title, body string, data map[string]string) {
	token := strings.TrimSpace(recipient.PushToken)
	if token == "" {
		return
	}
	if err := e.push.Send(ctx, token, title, body, data); err != nil {
		e.logger.LogAttrs(ctx, slog.LevelWarn, "push delivery failed",
			slog.String("recipient", recipient.ID), slog.String("error", err.Error()))
	}
}

// EmitRealtime broadcasts event to all connected clients.
func (e *Emitter) EmitRealtime(event string, payload any) {
	e.broadcaster.Broadcast(event, payload)
}

var _ ports.Emitter = (*Emitter)(nil)
