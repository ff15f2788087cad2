package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/courier-api/internal/domains/drivers/domain"
	"github.com/Apurer/courier-api/internal/domains/drivers/ports"
)

func newTestStore(t *testing.T) (*RegistrationStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRegistrationStore(client), mr
}

func TestRegistrationStore_SaveReplacesAndDeletes(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	reg := &domain.Registration{
		Username:      "sipho",
		Email:         "sipho@example.com",
		VehicleType:   domain.VehicleCar,
		VehicleNumber: "ND123",
		Code:          "111111",
		ExpiresAt:     time.Now().Add(15 * time.Minute),
	}
	require.NoError(t, store.Save(ctx, reg))
	reg.Code = "222222"
	require.NoError(t, store.Save(ctx, reg))

	got, err := store.Get(ctx, "sipho@example.com")
	require.NoError(t, err)
	require.Equal(t, "222222", got.Code)
	require.Equal(t, domain.VehicleCar, got.VehicleType)

	require.NoError(t, store.Delete(ctx, "sipho@example.com"))
	_, err = store.Get(ctx, "sipho@example.com")
	require.ErrorIs(t, err, ports.ErrRegistrationNotFound)
}

func TestRegistrationStore_ExpiresWithCode(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.Registration{Email: "a@b.co", ExpiresAt: time.Now().Add(15 * time.Minute)}))

	mr.FastForward(16 * time.Minute)

	_, err := store.Get(ctx, "a@b.co")
	require.ErrorIs(t, err, ports.ErrRegistrationNotFound)
}

func TestRegistrationStore_RejectsExpired(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.Save(context.Background(), &domain.Registration{Email: "a@b.co", ExpiresAt: time.Now().Add(-time.Second)})
	require.Error(t, err)
}
