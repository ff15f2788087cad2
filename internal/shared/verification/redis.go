package verification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps codes as keys that Redis expires at the code deadline.
type RedisStore struct {
	client goredis.UniversalClient
	now    func() time.Time
}

func NewRedisStore(client goredis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

type codePayload struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *RedisStore) Save(ctx context.Context, purpose Purpose, code Code) error {
	if code.Email == "" {
		return errors.New("verification email is required")
	}
	ttl := code.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("verification code already expired")
	}
	payload, err := json.Marshal(codePayload{Value: code.Value, ExpiresAt: code.ExpiresAt})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(purpose, code.Email), payload, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, purpose Purpose, email string) (*Code, error) {
	raw, err := s.client.Get(ctx, key(purpose, email)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	var p codePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &Code{Email: email, Value: p.Value, ExpiresAt: p.ExpiresAt}, nil
}

func (s *RedisStore) Delete(ctx context.Context, purpose Purpose, email string) error {
	return s.client.Del(ctx, key(purpose, email)).Err()
}
