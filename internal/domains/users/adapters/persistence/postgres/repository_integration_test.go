//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/courier-api/internal/domains/users/domain"
	"github.com/Apurer/courier-api/internal/domains/users/ports"
	"github.com/Apurer/courier-api/internal/platform/postgres/pgtest"
)

func TestRepository_CreateAndLookup(t *testing.T) {
	db := pgtest.Start(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser("u-1", "Alice", "alice@example.com", "0821112222", "secret1", "")
	require.NoError(t, err)

	saved, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", saved.Email)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", byEmail.ID)
	assert.True(t, byEmail.CheckPassword("secret1"))

	byPhone, err := repo.GetByPhone(ctx, "0821112222")
	require.NoError(t, err)
	assert.Equal(t, "Alice", byPhone.Name)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_DuplicateEmail(t *testing.T) {
	db := pgtest.Start(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first, err := domain.NewUser("u-1", "Alice", "alice@example.com", "", "secret1", "")
	require.NoError(t, err)
	_, err = repo.Create(ctx, first)
	require.NoError(t, err)

	second, err := domain.NewUser("u-2", "Other", "alice@example.com", "", "secret2", "")
	require.NoError(t, err)
	_, err = repo.Create(ctx, second)
	assert.ErrorIs(t, err, ports.ErrEmailTaken)
}

func TestSessionStore_LifecycleAndPurge(t *testing.T) {
	db := pgtest.Start(t)
	_ = NewRepository(db)
	store := NewSessionStore(db)
	ctx := context.Background()

	live := domain.Session{Token: "live", Subject: "u-1", Role: domain.RoleCustomer, ExpiresAt: time.Now().Add(time.Hour)}
	stale := domain.Session{Token: "stale", Subject: "u-2", Role: domain.RoleAdmin, ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, store.Save(ctx, live))
	require.NoError(t, store.Save(ctx, stale))

	got, err := store.Get(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.Subject)

	_, err = store.Get(ctx, "stale")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	require.NoError(t, store.Delete(ctx, "live"))
	_, err = store.Get(ctx, "live")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}
