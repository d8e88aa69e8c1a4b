package repository

import (
	"errors"

	"go-catalog-import/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested product or variant does not exist.
var ErrNotFound = errors.New("record not found")

// CatalogStats for the admin overview endpoint
type CatalogStats struct {
	TotalProducts    int64 `json:"total_products"`
	TotalVariants    int64 `json:"total_variants"`
	TotalFacets      int64 `json:"total_facets"`
	TotalFacetValues int64 `json:"total_facet_values"`
}

// CatalogRepository is the narrow surface the import and facet engines consume.
type CatalogRepository interface {
	CreateProduct(product *model.Product) error
	CreateVariant(variant *model.ProductVariant) error

	// FindVariantBySKU returns (nil, nil) when no non-deleted variant carries
	// the SKU. Soft-deleted variants are excluded, so their SKU is reusable.
	FindVariantBySKU(sku string) (*model.ProductVariant, error)

	FindProductWithVariants(id uuid.UUID) (*model.Product, error)
	FindProductWithFacetValues(id uuid.UUID) (*model.Product, error)
	FindFirstVariant(productID uuid.UUID) (*model.ProductVariant, error)
	FindVariantWithFacetValues(id uuid.UUID) (*model.ProductVariant, error)
	FindAllProducts(offset, limit int) ([]model.Product, int64, error)

	ReplaceProductFacetValues(id uuid.UUID, values []model.FacetValue) error
	ReplaceVariantFacetValues(id uuid.UUID, values []model.FacetValue) error

	UpdateProductAssets(id uuid.UUID, assetIDs []uuid.UUID, featuredAssetID uuid.UUID) error

	GetCatalogStats() (*CatalogStats, error)
}

type catalogRepo struct {
	db *gorm.DB
}

func NewCatalogRepo(db *gorm.DB) CatalogRepository {
	return &catalogRepo{db}
}

func (r *catalogRepo) CreateProduct(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *catalogRepo) CreateVariant(variant *model.ProductVariant) error {
	return r.db.Create(variant).Error
}

func (r *catalogRepo) FindVariantBySKU(sku string) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	// gorm excludes soft-deleted rows by default (DeletedAt IS NULL)
	err := r.db.First(&variant, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *catalogRepo) FindProductWithVariants(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Variants").First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *catalogRepo) FindProductWithFacetValues(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("FacetValues").First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *catalogRepo) FindFirstVariant(productID uuid.UUID) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	err := r.db.Where("product_id = ?", productID).Order("created_at ASC").First(&variant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *catalogRepo) FindVariantWithFacetValues(id uuid.UUID) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	err := r.db.Preload("FacetValues").First(&variant, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *catalogRepo) FindAllProducts(offset, limit int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	if err := r.db.Model(&model.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Preload("Variants").Preload("FacetValues").
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *catalogRepo) ReplaceProductFacetValues(id uuid.UUID, values []model.FacetValue) error {
	product := model.Product{BaseModel: model.BaseModel{ID: id}}
	return r.db.Model(&product).Association("FacetValues").Replace(values)
}

func (r *catalogRepo) ReplaceVariantFacetValues(id uuid.UUID, values []model.FacetValue) error {
	variant := model.ProductVariant{BaseModel: model.BaseModel{ID: id}}
	return r.db.Model(&variant).Association("FacetValues").Replace(values)
}

func (r *catalogRepo) UpdateProductAssets(id uuid.UUID, assetIDs []uuid.UUID, featuredAssetID uuid.UUID) error {
	var assets []model.Asset
	if err := r.db.Find(&assets, "id IN ?", assetIDs).Error; err != nil {
		return err
	}
	product := model.Product{BaseModel: model.BaseModel{ID: id}}
	if err := r.db.Model(&product).Association("Assets").Replace(assets); err != nil {
		return err
	}
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Update("featured_asset_id", featuredAssetID).Error
}

func (r *catalogRepo) GetCatalogStats() (*CatalogStats, error) {
	var stats CatalogStats
	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.ProductVariant{}).Count(&stats.TotalVariants).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Facet{}).Count(&stats.TotalFacets).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.FacetValue{}).Count(&stats.TotalFacetValues).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
