package blobstore

import (
	"context"
	"fmt"

	"github.com/quickblog-api/internal/config"
	"github.com/quickblog-api/internal/database"
	"github.com/rs/zerolog"
)

// Open connects the store selected by cfg.Store.Driver. The returned close
// function releases the underlying connection and is never nil.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (BlobStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn().Msg("Using in-memory store; posts are lost on restart")
		return NewMemoryStore(), noop, nil

	case config.DriverPostgres:
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			return nil, noop, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("run migrations: %w", err)
		}
		return NewPostgresStore(db, cfg.Store.Name), db.Close, nil

	case config.DriverMongo:
		client, err := database.NewMongo(ctx, &cfg.Mongo, log)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() error { return client.Close(context.Background()) }
		return NewMongoStore(client.Database(), cfg.Store.Name), closeFn, nil

	case config.DriverFirestore:
		client, err := database.NewFirestore(ctx, &cfg.Firestore)
		if err != nil {
			return nil, noop, err
		}
		store, err := NewFirestoreStore(client, cfg.Store.Name)
		if err != nil {
			client.Close()
			return nil, noop, err
		}
		log.Info().Str("project", cfg.Firestore.ProjectID).Msg("Firestore client ready")
		return store, client.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
