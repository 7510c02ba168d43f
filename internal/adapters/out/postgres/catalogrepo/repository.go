package catalogrepo

import (
	"context"
	"errors"

	"brokerage/internal/core/domain/model/catalog"
	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCatalogRepository implements CatalogRepository using GORM.
type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) GetClient(ctx context.Context, id kernel.UUID) (catalog.Client, error) {
	if err := id.Validate(); err != nil {
		return catalog.Client{}, err
	}

	var dto ClientDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Raw()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Client{}, errs.NewObjectNotFoundError("client", id.String())
		}
		return catalog.Client{}, errs.NewDependencyError("select client", err)
	}

	return clientToDomain(dto)
}

// GetAssetByTicker looks the ticker up after normalizing it.
func (r *GormCatalogRepository) GetAssetByTicker(ctx context.Context, ticker string) (catalog.Asset, error) {
	ticker = catalog.NormalizeTicker(ticker)
	if ticker == "" {
		return catalog.Asset{}, errs.NewValueIsRequiredError("ticker")
	}

	var dto AssetDTO
	if err := r.db.WithContext(ctx).First(&dto, "ticker = ?", ticker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Asset{}, errs.NewObjectNotFoundError("asset", ticker)
		}
		return catalog.Asset{}, errs.NewDependencyError("select asset", err)
	}

	return assetToDomain(dto)
}
