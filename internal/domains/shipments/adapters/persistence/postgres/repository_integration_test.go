//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
	"github.com/Apurer/courier-api/internal/domains/shipments/ports"
	"github.com/Apurer/courier-api/internal/platform/postgres/pgtest"
)

func newShipment(t *testing.T, id string) *domain.Shipment {
	t.Helper()
	s, err := domain.Normalize(domain.LegacyDraft{
		SenderName: "Ayanda", ReceiverName: "Pieter", ReceiverPhone: "0830000000",
		Start: "Durban", End: "Johannesburg", Cost: 120,
	}, time.Now().UTC())
	require.NoError(t, err)
	s.ShipmentID = id
	s.Orders = []string{"ORD001"}
	return s
}

func TestRepository_CreateGetAndLatest(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	latest, err := repo.LatestShipmentID(ctx)
	require.NoError(t, err)
	assert.Empty(t, latest)

	_, err = repo.Create(ctx, newShipment(t, "SHP001"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newShipment(t, "SHP002"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newShipment(t, "SHP002"))
	assert.ErrorIs(t, err, ports.ErrDuplicateID)

	latest, err = repo.LatestShipmentID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "SHP002", latest)

	got, err := repo.GetByID(ctx, "SHP001")
	require.NoError(t, err)
	assert.Equal(t, "Durban", got.Sender.Address.City)
	assert.Equal(t, []string{"ORD001"}, got.Orders)
	assert.Equal(t, domain.PaymentCOD, got.Payment.Method)
}

func TestRepository_ConditionalTransitions(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()
	_, err := repo.Create(ctx, newShipment(t, "SHP001"))
	require.NoError(t, err)
	now := time.Now().UTC()

	_, err = repo.MarkDelivered(ctx, "SHP001", now)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	assigned, err := repo.Assign(ctx, "SHP001", "DRV001", "thabo", now)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipping, assigned.Status)
	assert.Equal(t, "thabo", assigned.DriverName)

	_, err = repo.Assign(ctx, "SHP001", "DRV002", "other", now)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	delivered, err := repo.MarkDelivered(ctx, "SHP001", now)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)

	_, err = repo.MarkDelivered(ctx, "SHP001", now)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ConcurrentAssignSingleWinner(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()
	_, err := repo.Create(ctx, newShipment(t, "SHP001"))
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Assign(ctx, "SHP001", "DRV001", "thabo", time.Now()); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestRepository_UpdateListAndDelete(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()
	_, err := repo.Create(ctx, newShipment(t, "SHP001"))
	require.NoError(t, err)

	notes, cost := "fragile", 150.0
	updated, err := repo.Update(ctx, "SHP001", domain.Patch{Notes: &notes, Cost: &cost}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "fragile", updated.Notes)
	assert.Equal(t, 150.0, updated.Cost)

	_, err = repo.Assign(ctx, "SHP001", "DRV001", domain.UnassignedDriverName, time.Now())
	require.NoError(t, err)

	unnamed, err := repo.ListUnnamedAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, unnamed, 1)
	require.NoError(t, repo.SetDriverName(ctx, "SHP001", "thabo"))

	assigned, err := repo.List(ctx, ports.ListFilter{DriverID: "DRV001"})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "thabo", assigned[0].DriverName)

	require.NoError(t, repo.Delete(ctx, "SHP001"))
	assert.ErrorIs(t, repo.Delete(ctx, "SHP001"), ports.ErrNotFound)
}

func TestIdempotencyStore_Conflict(t *testing.T) {
	db := pgtest.Start(t)
	_ = NewRepository(db)
	store := NewIdempotencyStore(db)
	ctx := context.Background()

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", ShipmentID: "SHP001"})
	require.NoError(t, err)
	assert.Equal(t, "SHP001", saved.ShipmentID)

	_, err = store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", ShipmentID: "SHP001"})
	require.NoError(t, err)

	existing, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h2", ShipmentID: "SHP002"})
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	assert.Equal(t, "SHP001", existing.ShipmentID)
}
