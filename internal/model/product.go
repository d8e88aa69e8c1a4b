package model

import "github.com/google/uuid"

// Product is the sellable parent entity. Technical attributes from the vendor
// CSVs live in CustomFields; facet values derived from them are assigned both
// here and on the variant (dual assignment).
type Product struct {
	BaseModel
	Name         string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Slug         string  `gorm:"type:varchar(255);uniqueIndex" json:"slug"`
	Description  string  `gorm:"type:text" json:"description"`
	Enabled      bool    `gorm:"default:true" json:"enabled"`
	CustomFields JSONMap `gorm:"type:jsonb" json:"custom_fields,omitempty"`

	FeaturedAssetID *uuid.UUID `gorm:"type:uuid" json:"featured_asset_id,omitempty"`
	FeaturedAsset   *Asset     `gorm:"foreignKey:FeaturedAssetID" json:"featured_asset,omitempty"`

	// Relations
	Variants    []ProductVariant `json:"variants,omitempty"`
	FacetValues []FacetValue     `gorm:"many2many:product_facet_values;" json:"facet_values,omitempty"`
	Assets      []Asset          `gorm:"many2many:product_assets;" json:"assets,omitempty"`
}
