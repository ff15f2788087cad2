//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/courier-api/internal/domains/orders/domain"
	"github.com/Apurer/courier-api/internal/domains/orders/ports"
	"github.com/Apurer/courier-api/internal/platform/postgres/pgtest"
)

func newOrder(t *testing.T, id, sender, receiver string, at time.Time) *domain.Order {
	t.Helper()
	o, err := domain.NewOrder(domain.Draft{
		SenderName: "S", SenderPhone: sender, ReceiverName: "R", ReceiverPhone: receiver,
		DeliveryAddress: "1 Main Rd", Weight: 2, DeliveryType: domain.DeliveryExpress,
	}, at)
	require.NoError(t, err)
	o.ID = id
	return o
}

func TestRepository_Lifecycle(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	_, err := repo.Create(ctx, newOrder(t, "ORD001", "082", "083", base))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder(t, "ORD002", "084", "082", base.Add(time.Minute)))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder(t, "ORD002", "085", "086", base))
	assert.ErrorIs(t, err, ports.ErrDuplicateID)

	latest, err := repo.LatestOrderID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ORD002", latest)

	byPhone, err := repo.ListByPhone(ctx, "082")
	require.NoError(t, err)
	require.Len(t, byPhone, 2)
	assert.Equal(t, "ORD002", byPhone[0].ID)

	got, err := repo.GetByID(ctx, "ORD001")
	require.NoError(t, err)
	assert.Equal(t, 315.0, got.TotalAmount)

	updated, err := repo.UpdateStatus(ctx, "ORD001", domain.StatusShipped, time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, updated.Status)
	_, err = repo.UpdateStatus(ctx, "ORD404", domain.StatusShipped, time.Now())
	assert.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "ORD001"))
	assert.ErrorIs(t, repo.Delete(ctx, "ORD001"), ports.ErrNotFound)
}
