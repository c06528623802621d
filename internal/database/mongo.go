package database

import (
	"context"
	"fmt"

	"goa.design/clue/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"palaksingh/internal/config"
)

// OpenMongo connects to the database named by cfg and verifies the
// connection with a ping.
func OpenMongo(ctx context.Context, cfg *config.DatabaseConfig) (*mongo.Database, error) {
	log.Print(ctx, log.KV{K: "svc", V: "db"}, log.KV{K: "msg", V: "connecting to MongoDB"}, log.KV{K: "db", V: cfg.Name})

	opts := options.Client().
		ApplyURI(cfg.URL).
		SetMaxPoolSize(maxOpenConns).
		SetMaxConnIdleTime(connMaxIdleTime)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping failed: %w", err)
	}
	return client.Database(cfg.Name), nil
}
