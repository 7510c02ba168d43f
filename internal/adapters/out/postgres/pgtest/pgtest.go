// Package pgtest starts a disposable PostgreSQL container with the order desk
// schema for integration suites.
package pgtest

import (
	"context"
	"fmt"
	"time"

	postgres_adapter "brokerage/internal/adapters/out/postgres"
	"brokerage/internal/adapters/out/postgres/catalogrepo"
	"brokerage/internal/core/domain/model/kernel"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// Database bundles a running container with a migrated connection.
type Database struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
	DSN       string
}

// Start runs postgres:15-alpine, connects through GORM and applies the schema.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("start container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("connection string: %w", err)
	}

	db, err := postgres_adapter.Connect(ctx, dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := postgres_adapter.Migrate(ctx, db); err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Database{Container: container, DB: db, DSN: dsn}, nil
}

// Truncate empties every table, cascading through the foreign keys.
func (d *Database) Truncate() error {
	return d.DB.Exec("TRUNCATE TABLE order_observations, order_line_items, orders, assets, clients CASCADE").Error
}

// Terminate closes the connection pool and stops the container.
func (d *Database) Terminate(ctx context.Context) error {
	if sqlDB, err := d.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return d.Container.Terminate(ctx)
}

// SeedClient inserts a client row and returns its id.
func (d *Database) SeedClient(name string) (kernel.UUID, error) {
	id := kernel.NewUUID()
	err := d.DB.Create(&catalogrepo.ClientDTO{ID: id.Raw(), Name: name}).Error
	return id, err
}

// SeedAsset inserts an asset row and returns its id.
func (d *Database) SeedAsset(ticker, name string) (kernel.UUID, error) {
	id := kernel.NewUUID()
	err := d.DB.Create(&catalogrepo.AssetDTO{ID: id.Raw(), Ticker: ticker, Name: name}).Error
	return id, err
}
