// Package migrations applies the relational schema of every bounded context.
package migrations

import (
	"fmt"

	"gorm.io/gorm"

	driverpostgres "github.com/Apurer/courier-api/internal/domains/drivers/adapters/persistence/postgres"
	notifpostgres "github.com/Apurer/courier-api/internal/domains/notifications/adapters/persistence/postgres"
	orderpostgres "github.com/Apurer/courier-api/internal/domains/orders/adapters/persistence/postgres"
	pricingpostgres "github.com/Apurer/courier-api/internal/domains/pricing/adapters/persistence/postgres"
	shipmentpostgres "github.com/Apurer/courier-api/internal/domains/shipments/adapters/persistence/postgres"
	userpostgres "github.com/Apurer/courier-api/internal/domains/users/adapters/persistence/postgres"
)

// Set names a context and the models it owns.
type Set struct {
	Context string
	Models  []any
}

// Sets lists the schema in dependency-free order.
func Sets() []Set {
	return []Set{
		{Context: "users", Models: userpostgres.Models()},
		{Context: "drivers", Models: driverpostgres.Models()},
		{Context: "shipments", Models: shipmentpostgres.Models()},
		{Context: "orders", Models: orderpostgres.Models()},
		{Context: "pricing", Models: pricingpostgres.Models()},
		{Context: "notifications", Models: notifpostgres.Models()},
	}
}

// Run auto-migrates every context. A nil db is a no-op.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	for _, set := range Sets() {
		if err := db.AutoMigrate(set.Models...); err != nil {
			return fmt.Errorf("migrate %s: %w", set.Context, err)
		}
	}
	return nil
}
