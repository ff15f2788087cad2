// Package redis parks pending driver registrations in Redis until the
// verification code expires.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/courier-api/internal/domains/drivers/domain"
	"github.com/Apurer/courier-api/internal/domains/drivers/ports"
)

const keyPrefix = "driver-registration:"

var _ ports.RegistrationStore = (*RegistrationStore)(nil)

type RegistrationStore struct {
	client goredis.UniversalClient
	now    func() time.Time
}

func NewRegistrationStore(client goredis.UniversalClient) *RegistrationStore {
	return &RegistrationStore{client: client, now: time.Now}
}

type registrationPayload struct {
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	PasswordHash  string    `json:"passwordHash"`
	VehicleType   string    `json:"vehicleType"`
	VehicleNumber string    `json:"vehicleNumber"`
	IDProof       string    `json:"idProof"`
	Code          string    `json:"code"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

func (s *RegistrationStore) Save(ctx context.Context, reg *domain.Registration) error {
	if reg == nil || reg.Email == "" {
		return errors.New("registration email is required")
	}
	ttl := reg.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("registration already expired")
	}
	payload, err := json.Marshal(registrationPayload{
		Username:      reg.Username,
		Email:         reg.Email,
		Phone:         reg.Phone,
		PasswordHash:  reg.PasswordHash,
		VehicleType:   string(reg.VehicleType),
		VehicleNumber: reg.VehicleNumber,
		IDProof:       reg.IDProof,
		Code:          reg.Code,
		ExpiresAt:     reg.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+reg.Email, payload, ttl).Err()
}

func (s *RegistrationStore) Get(ctx context.Context, email string) (*domain.Registration, error) {
	raw, err := s.client.Get(ctx, keyPrefix+email).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ports.ErrRegistrationNotFound
	}
	if err != nil {
		return nil, err
	}
	var p registrationPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &domain.Registration{
		Username:      p.Username,
		Email:         p.Email,
		Phone:         p.Phone,
		PasswordHash:  p.PasswordHash,
		VehicleType:   domain.VehicleType(p.VehicleType),
		VehicleNumber: p.VehicleNumber,
		IDProof:       p.IDProof,
		Code:          p.Code,
		ExpiresAt:     p.ExpiresAt,
	}, nil
}

func (s *RegistrationStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, keyPrefix+email).Err()
}
