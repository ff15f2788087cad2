//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/courier-api/internal/domains/drivers/domain"
	"github.com/Apurer/courier-api/internal/domains/drivers/ports"
	"github.com/Apurer/courier-api/internal/platform/postgres/pgtest"
)

func newDriver(id, email, plate string) *domain.Driver {
	now := time.Now().UTC()
	return &domain.Driver{
		ID: id, Username: "driver-" + id, Email: email, Phone: "08" + id,
		PasswordHash: "hash", VehicleType: domain.VehicleVan, VehicleNumber: plate,
		IDProof: "id.png", Status: domain.StatusPending, CreatedAt: now, UpdatedAt: now,
	}
}

func TestRepository_CreateAndUniqueness(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, newDriver("DRV001", "a@example.com", "ND1"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newDriver("DRV001", "b@example.com", "ND2"))
	assert.ErrorIs(t, err, ports.ErrDuplicateID)

	_, err = repo.Create(ctx, newDriver("DRV002", "a@example.com", "ND3"))
	assert.ErrorIs(t, err, ports.ErrAlreadyRegistered)

	exists, err := repo.ExistsByEmailOrVehicle(ctx, "nobody@example.com", "ND1")
	require.NoError(t, err)
	assert.True(t, exists)

	latest, err := repo.LatestDriverID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "DRV001", latest)

	got, err := repo.GetByLogin(ctx, "08DRV001")
	require.NoError(t, err)
	assert.Equal(t, "DRV001", got.ID)
}

func TestRepository_StatusTokenAndNames(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()
	_, err := repo.Create(ctx, newDriver("DRV001", "a@example.com", "ND1"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newDriver("DRV002", "b@example.com", "ND2"))
	require.NoError(t, err)

	approved, err := repo.SetStatus(ctx, "DRV002", domain.StatusApproved, time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)

	_, err = repo.SetStatus(ctx, "DRV404", domain.StatusApproved, time.Now())
	assert.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, repo.SetPushToken(ctx, "DRV002", "fcm-token", time.Now()))
	assert.ErrorIs(t, repo.SetPushToken(ctx, "DRV404", "x", time.Now()), ports.ErrNotFound)

	list, err := repo.List(ctx, ports.Filter{Status: domain.StatusApproved, VehicleType: domain.VehicleVan})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "fcm-token", list[0].PushToken)

	names, err := repo.Names(ctx, []string{"DRV001", "DRV404"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"DRV001": "driver-DRV001"}, names)
}
