package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"brokerage/internal/adapters/out/postgres/catalogrepo"
	"brokerage/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// ChangesChannel is the NOTIFY channel written by the orders trigger.
const ChangesChannel = "order_changes"

var (
	//go:embed schema/constraints.sql
	constraintsSQL string

	//go:embed schema/notify.sql
	notifySQL string
)

// Migrate creates or updates the schema: tables, cascading foreign keys, catalog
// references and the change notification trigger. It is safe to run repeatedly.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	if err := db.AutoMigrate(
		&catalogrepo.ClientDTO{},
		&catalogrepo.AssetDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.LineItemDTO{},
		&orderrepo.ObservationDTO{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := db.Exec(constraintsSQL).Error; err != nil {
		return fmt.Errorf("apply constraints: %w", err)
	}

	if err := db.Exec(notifySQL).Error; err != nil {
		return fmt.Errorf("install notify trigger: %w", err)
	}

	return nil
}
