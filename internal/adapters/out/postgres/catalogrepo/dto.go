// Package catalogrepo reads the clients and assets reference tables.
package catalogrepo

import (
	"brokerage/internal/core/domain/model/catalog"
	"brokerage/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type ClientDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(255);not null"`
}

func (ClientDTO) TableName() string {
	return "clients"
}

type AssetDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Ticker string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	Name   string    `gorm:"type:varchar(255);not null;default:''"`
}

func (AssetDTO) TableName() string {
	return "assets"
}

func clientToDomain(dto ClientDTO) (catalog.Client, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return catalog.Client{}, err
	}
	return catalog.NewClient(id, dto.Name)
}

func assetToDomain(dto AssetDTO) (catalog.Asset, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return catalog.Asset{}, err
	}
	return catalog.NewAsset(id, dto.Ticker, dto.Name)
}
