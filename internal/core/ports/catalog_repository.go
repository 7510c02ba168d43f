package ports

import (
	"context"

	"brokerage/internal/core/domain/model/catalog"
	"brokerage/internal/core/domain/model/kernel"
)

// CatalogRepository reads the client and asset reference catalogs.
// Lookups of missing records fail with ObjectNotFoundError.
type CatalogRepository interface {
	GetClient(ctx context.Context, id kernel.UUID) (catalog.Client, error)

	// GetAssetByTicker matches the normalized ticker exactly.
	GetAssetByTicker(ctx context.Context, ticker string) (catalog.Asset, error)
}
