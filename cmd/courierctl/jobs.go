package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Apurer/courier-api/internal/app/api"
	driverpostgres "github.com/Apurer/courier-api/internal/domains/drivers/adapters/persistence/postgres"
	"github.com/Apurer/courier-api/internal/domains/shipments/adapters/directory"
	shipmentpostgres "github.com/Apurer/courier-api/internal/domains/shipments/adapters/persistence/postgres"
	shipmentapp "github.com/Apurer/courier-api/internal/domains/shipments/application"
	userpostgres "github.com/Apurer/courier-api/internal/domains/users/adapters/persistence/postgres"
	"github.com/Apurer/courier-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/courier-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/courier-api/internal/platform/postgres"
)

var errNoDatabase = errors.New("no database configured: set DATABASE_URL or pass --database-url")

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the courier tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd, func(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
				if err := migrations.Run(db); err != nil {
					return err
				}
				for _, set := range migrations.Sets() {
					logger.Info("schema migrated", slog.String("context", set.Context), slog.Int("models", len(set.Models)))
				}
				return nil
			})
		},
	}
}

func purgeSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-sessions",
		Short: "Delete expired user sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd, func(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
				purged, err := userpostgres.NewSessionStore(db).PurgeExpired(ctx)
				if err != nil {
					return fmt.Errorf("purge sessions: %w", err)
				}
				logger.Info("session purge completed", slog.Int64("purged", purged))
				fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired sessions\n", purged)
				return nil
			})
		},
	}
}

func syncDriverNamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-driver-names",
		Short: "Fill in driver names on assigned shipments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd, func(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
				drivers := directory.NewDrivers(driverpostgres.NewRepository(db))
				service := shipmentapp.NewService(shipmentpostgres.NewRepository(db), drivers, shipmentapp.WithLogger(logger))
				report, err := service.SyncDriverNames(ctx)
				if err != nil {
					return fmt.Errorf("sync driver names: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "scanned %d shipments, updated %d\n", report.Scanned, report.Updated)
				if len(report.Missing) > 0 {
					fmt.Fprintf(out, "drivers not found: %s\n", strings.Join(report.Missing, ", "))
				}
				return nil
			})
		},
	}
}

// withDatabase loads config, opens PostgreSQL and runs job under the --timeout deadline.
func withDatabase(cmd *cobra.Command, job func(ctx context.Context, db *gorm.DB, logger *slog.Logger) error) error {
	cfg, err := api.LoadConfig()
	if err != nil {
		return err
	}
	logger := platformobservability.NewLogger(cfg.LogLevel)
	dsn := cfg.DatabaseURL
	if flag, _ := cmd.Flags().GetString("database-url"); flag != "" {
		dsn = flag
	}
	if strings.TrimSpace(dsn) == "" {
		return errNoDatabase
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	db, err := platformpostgres.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	started := time.Now()
	if err := job(ctx, db, logger); err != nil {
		return err
	}
	logger.Info("job finished", slog.String("command", cmd.Name()), slog.Duration("elapsed", time.Since(started)))
	return nil
}
