package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
	"github.com/Apurer/courier-api/internal/domains/shipments/ports"
)

func TestService_SyncDriverNames(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.directory.drivers["DRV003"] = ports.Driver{ID: "DRV003"}
	h.directory.drivers["DRV004"] = ports.Driver{ID: "DRV004"}

	named := h.create(t)
	_, err := h.svc.Assign(ctx, named.ShipmentID, "DRV001")
	require.NoError(t, err)
	unnamed := h.create(t)
	_, err = h.svc.Assign(ctx, unnamed.ShipmentID, "DRV003")
	require.NoError(t, err)
	orphan := h.create(t)
	_, err = h.svc.Assign(ctx, orphan.ShipmentID, "DRV004")
	require.NoError(t, err)

	stored, err := h.repo.GetByID(ctx, unnamed.ShipmentID)
	require.NoError(t, err)
	require.Equal(t, domain.UnassignedDriverName, stored.DriverName)

	h.directory.names["DRV003"] = "sizwe"
	report, err := h.svc.SyncDriverNames(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, report.Scanned)
	require.Equal(t, 1, report.Updated)
	require.Equal(t, []string{orphan.ShipmentID}, report.Missing)

	stored, err = h.repo.GetByID(ctx, unnamed.ShipmentID)
	require.NoError(t, err)
	require.Equal(t, "sizwe", stored.DriverName)

	report, err = h.svc.SyncDriverNames(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Scanned)
	require.Zero(t, report.Updated)
}
