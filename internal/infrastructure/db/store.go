// Package db selects and opens the record store backing the repositories.
package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vetpharmacy/inventory-api/internal/core/ports"
	"github.com/vetpharmacy/inventory-api/internal/infrastructure/db/mongo"
	"github.com/vetpharmacy/inventory-api/internal/infrastructure/db/postgres"
	"github.com/vetpharmacy/inventory-api/internal/pkg/config"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store bundles the repositories of one driver.
type Store struct {
	Driver     string
	Categories ports.CategoryRepository
	Products   ports.ProductRepository
	Users      ports.UserRepository
	// Pinger checks the underlying database for readiness probes.
	Pinger Pinger

	close func(ctx context.Context) error
}

// Close releases the underlying connections.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the store selected by cfg.StoreDriver and prepares its
// schema: goose migrations for PostgreSQL, indexes for MongoDB.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg.Postgres, log)
	case config.DriverMongo:
		return openMongo(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig, log zerolog.Logger) (*Store, error) {
	if cfg.Migrate {
		if err := postgres.Migrate(ctx, cfg.URL, log); err != nil {
			return nil, err
		}
	}
	pg, err := postgres.Connect(ctx, cfg.URL)
	if err != nil {
		return nil, err
	}
	return &Store{
		Driver:     config.DriverPostgres,
		Categories: postgres.NewCategoryRepository(pg),
		Products:   postgres.NewProductRepository(pg),
		Users:      postgres.NewUserRepository(pg),
		Pinger:     pg,
		close: func(context.Context) error {
			pg.Close()
			return nil
		},
	}, nil
}

func openMongo(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	client, database, err := mongo.Connect(ctx, mongo.Config{URI: cfg.URI, Database: cfg.Database})
	if err != nil {
		return nil, err
	}
	if err := mongo.EnsureIndexes(ctx, database); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &Store{
		Driver:     config.DriverMongo,
		Categories: mongo.NewCategoryRepository(database),
		Products:   mongo.NewProductRepository(database),
		Users:      mongo.NewUserRepository(database),
		Pinger:     mongo.Pinger{Client: client},
		close:      client.Disconnect,
	}, nil
}
