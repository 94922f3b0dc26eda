package database

import (
	"context"
	"fmt"

	"github.com/quickblog-api/internal/config"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient pairs a connected client with the configured database
type MongoClient struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongo connects to MongoDB and verifies the connection with a ping
func NewMongo(ctx context.Context, cfg *config.MongoConfig, log zerolog.Logger) (*MongoClient, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Info().
		Str("component", "database").
		Str("database", cfg.Database).
		Msg("MongoDB connection established")

	return &MongoClient{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// Database returns the configured database handle
func (m *MongoClient) Database() *mongo.Database {
	return m.db
}

// Close disconnects the client
func (m *MongoClient) Close(ctx context.Context) error {
	if m == nil || m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}
