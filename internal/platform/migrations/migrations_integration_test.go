//go:build integration

package migrations

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/courier-api/internal/platform/postgres/pgtest"
)

func TestRunCreatesEveryTable(t *testing.T) {
	db := pgtest.Start(t)

	require.NoError(t, Run(db))
	require.NoError(t, Run(db))

	for _, table := range []string{"users", "user_sessions", "drivers", "shipments", "shipment_idempotency_keys", "orders", "pricing", "notifications"} {
		require.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestRunNilDB(t *testing.T) {
	require.NoError(t, Run(nil))
}
