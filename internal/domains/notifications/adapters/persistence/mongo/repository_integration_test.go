//go:build integration

package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Apurer/courier-api/internal/domains/notifications/domain"
	"github.com/Apurer/courier-api/internal/domains/notifications/ports"
	platformmongo "github.com/Apurer/courier-api/internal/platform/mongo"
)

func startMongo(t *testing.T) *Repository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	uri, err := container.PortEndpoint(ctx, "27017/tcp", "mongodb")
	require.NoError(t, err)
	db, disconnect, err := platformmongo.Connect(ctx, uri, "courier_test")
	require.NoError(t, err)
	t.Cleanup(disconnect)

	repo, err := NewRepository(ctx, db)
	require.NoError(t, err)
	return repo
}

func TestRepository_Lifecycle(t *testing.T) {
	repo := startMongo(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	first, err := domain.New("DRV001", "Shipment assigned", "SHP001 is yours", domain.CategoryShipmentAssigned, base)
	require.NoError(t, err)
	second, err := domain.New("DRV001", "Shipment assigned", "SHP002 is yours", domain.CategoryShipmentAssigned, base.Add(time.Minute))
	require.NoError(t, err)
	broadcast, err := domain.New("", "Maintenance", "Tonight 22:00", "", base)
	require.NoError(t, err)
	for _, n := range []*domain.Notification{first, second, broadcast} {
		require.NoError(t, repo.Save(ctx, n))
	}

	list, err := repo.List(ctx, ports.Filter{TargetID: "DRV001"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, base.Add(time.Minute), list[0].CreatedAt.UTC())

	all, err := repo.List(ctx, ports.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	read, err := repo.MarkRead(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	_, err = repo.MarkRead(ctx, "missing")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	deleted, err := repo.DeleteAll(ctx, ports.Filter{TargetID: "DRV001"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	remaining, err := repo.List(ctx, ports.Filter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, broadcast.ID, remaining[0].ID)
}
