package repository

import (
	"go-catalog-import/internal/model"

	"gorm.io/gorm"
)

type AssetRepository interface {
	Create(asset *model.Asset) error
}

type assetRepo struct {
	db *gorm.DB
}

func NewAssetRepo(db *gorm.DB) AssetRepository {
	return &assetRepo{db}
}

func (r *assetRepo) Create(asset *model.Asset) error {
	return r.db.Create(asset).Error
}
