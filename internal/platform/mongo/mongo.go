// Package mongo dials the document store backing notifications.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultDatabase is used when no database name is configured.
const DefaultDatabase = "courier"

// Connect opens a client and pings the primary.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, func(), error) {
	if strings.TrimSpace(uri) == "" {
		return nil, nil, fmt.Errorf("mongo URI is empty")
	}
	if strings.TrimSpace(database) == "" {
		database = DefaultDatabase
	}
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}
	disconnect := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(shutdownCtx)
	}
	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		disconnect()
		return nil, nil, err
	}
	return client.Database(database), disconnect, nil
}

// ConnectOptional logs and returns nil when mongo is not configured or unreachable.
func ConnectOptional(ctx context.Context, uri, database string, logger *slog.Logger) (*mongo.Database, func()) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if strings.TrimSpace(uri) == "" {
		return nil, func() {}
	}
	db, cleanup, err := Connect(ctx, uri, database)
	if err != nil {
		logger.Warn("failed to connect to mongo", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("mongo connection established", slog.String("database", db.Name()))
	return db, cleanup
}
