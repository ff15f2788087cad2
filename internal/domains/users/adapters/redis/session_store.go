// Package redis keeps bearer sessions in Redis with a native key TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/courier-api/internal/domains/users/domain"
	"github.com/Apurer/courier-api/internal/domains/users/ports"
)

const (
	keyPrefix     = "session:"
	subjectPrefix = "session-subject:"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore stores one key per token; Redis expires them. A set per
// subject indexes its tokens so they can be revoked together.
type SessionStore struct {
	client goredis.UniversalClient
	now    func() time.Time
}

func NewSessionStore(client goredis.UniversalClient) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

type sessionPayload struct {
	Subject   string    `json:"subject"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	if strings.TrimSpace(session.Token) == "" || strings.TrimSpace(session.Subject) == "" {
		return errors.New("token and subject are required")
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	payload, err := json.Marshal(sessionPayload{
		Subject:   session.Subject,
		Role:      string(session.Role),
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return err
	}
	index := subjectPrefix + session.Subject
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, keyPrefix+session.Token, payload, ttl)
		pipe.SAdd(ctx, index, session.Token)
		// Tokens share one TTL, so the newest one bounds the index.
		pipe.Expire(ctx, index, ttl)
		return nil
	})
	return err
}

func (s *SessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ports.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var payload sessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return &domain.Session{
		Token:     token,
		Subject:   payload.Subject,
		Role:      domain.Role(payload.Role),
		ExpiresAt: payload.ExpiresAt,
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	session, err := s.Get(ctx, token)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, keyPrefix+token)
		pipe.SRem(ctx, subjectPrefix+session.Subject, token)
		return nil
	})
	return err
}

func (s *SessionStore) DeleteBySubject(ctx context.Context, subject string) error {
	index := subjectPrefix + subject
	tokens, err := s.client.SMembers(ctx, index).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, keyPrefix+token)
	}
	keys = append(keys, index)
	return s.client.Del(ctx, keys...).Err()
}
