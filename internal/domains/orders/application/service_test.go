package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	notifdomain "github.com/Apurer/courier-api/internal/domains/notifications/domain"
	notifports "github.com/Apurer/courier-api/internal/domains/notifications/ports"
	"github.com/Apurer/courier-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/courier-api/internal/domains/orders/domain"
	"github.com/Apurer/courier-api/internal/domains/orders/ports"
)

type recordingEmitter struct {
	notifports.Emitter
	targets  []string
	messages []string
}

func (e *recordingEmitter) Notify(_ context.Context, targetID, _, message string, _ notifdomain.Category) *notifdomain.Notification {
	e.targets = append(e.targets, targetID)
	e.messages = append(e.messages, message)
	return nil
}

type staticLinks map[string]ports.ShipmentRef

func (l staticLinks) ByOrder(context.Context, []string) (map[string]ports.ShipmentRef, error) {
	return l, nil
}

func draft(sender string) domain.Draft {
	return domain.Draft{
		SenderName: "Thandi", SenderPhone: sender, ReceiverName: "Pieter", ReceiverPhone: "0830000000",
		DeliveryAddress: "12 Long St", Weight: 0.8, DeliveryType: domain.DeliveryEconomy,
	}
}

func TestService_CreateAssignsSequentialIDsAndNotifies(t *testing.T) {
	emitter := &recordingEmitter{}
	lookup := func(_ context.Context, phone string) (string, error) {
		if phone == "0821234567" {
			return "user-1", nil
		}
		return "", nil
	}
	svc := NewService(memory.NewRepository(), WithEmitter(emitter), WithCustomerLookup(lookup))
	ctx := context.Background()

	first, err := svc.Create(ctx, draft("0821234567"))
	require.NoError(t, err)
	require.Equal(t, "ORD001", first.ID)
	require.Equal(t, 79.0, first.TotalAmount)

	second, err := svc.Create(ctx, draft("0729999999"))
	require.NoError(t, err)
	require.Equal(t, "ORD002", second.ID)

	require.Equal(t, []string{"user-1", ""}, emitter.targets)
	require.Equal(t, "Order ORD001 has been placed successfully.", emitter.messages[0])
}

func TestService_CreateSurvivesLookupFailure(t *testing.T) {
	emitter := &recordingEmitter{}
	lookup := func(context.Context, string) (string, error) { return "", errors.New("users offline") }
	svc := NewService(memory.NewRepository(), WithEmitter(emitter), WithCustomerLookup(lookup))

	_, err := svc.Create(context.Background(), draft("082"))
	require.NoError(t, err)
	require.Equal(t, []string{""}, emitter.targets)
}

func TestService_CreateValidates(t *testing.T) {
	svc := NewService(memory.NewRepository())
	_, err := svc.Create(context.Background(), domain.Draft{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ListWithTracking(t *testing.T) {
	svc := NewService(memory.NewRepository(), WithShipmentLinks(staticLinks{
		"ORD001": {ShipmentID: "SHP001", Status: "Shipping", DriverName: "Sipho"},
	}))
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		_, err := svc.Create(ctx, draft("082"))
		require.NoError(t, err)
	}

	tracked, err := svc.ListWithTracking(ctx)
	require.NoError(t, err)
	require.Len(t, tracked, 2)
	require.Equal(t, "ORD002", tracked[0].Order.ID)
	require.Equal(t, domain.UnassignedLabel, tracked[0].ShipmentStatus)
	require.Equal(t, domain.UnassignedLabel, tracked[0].DriverName)
	require.Equal(t, "SHP001", tracked[1].ShipmentID)
	require.Equal(t, "Sipho", tracked[1].DriverName)
}

func TestService_StatusPhoneAndDelete(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()
	created, err := svc.Create(ctx, draft("082"))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, created.ID, " Shipped ")
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, updated.Status)

	_, err = svc.UpdateStatus(ctx, created.ID, "lost")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.UpdateStatus(ctx, "ORD404", domain.StatusDelivered)
	require.ErrorIs(t, err, ports.ErrNotFound)

	byReceiver, err := svc.ListByPhone(ctx, "0830000000")
	require.NoError(t, err)
	require.Len(t, byReceiver, 1)
	_, err = svc.ListByPhone(ctx, " ")
	require.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.ErrorIs(t, svc.Delete(ctx, created.ID), ports.ErrNotFound)
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
