package model

import "github.com/google/uuid"

// ProductVariant is the purchasable unit of a Product. Price is stored in
// minor currency units (cents).
//
// SKU carries a plain index, not a unique one: uniqueness among non-deleted
// variants is enforced by the import engine's duplicate check so that a
// soft-deleted variant's SKU stays reusable.
type ProductVariant struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;index;not null" json:"product_id" validate:"uuid_required"`
	SKU       string    `gorm:"type:varchar(100);index;not null" json:"sku" validate:"required"`
	Name      string    `gorm:"type:varchar(255)" json:"name"`

	Price          int64 `gorm:"default:0" json:"price"`
	StockOnHand    int   `gorm:"default:0" json:"stock_on_hand"`
	TrackInventory bool  `gorm:"default:false" json:"track_inventory"`
	Enabled        bool  `gorm:"default:true" json:"enabled"`

	FacetValues []FacetValue `gorm:"many2many:variant_facet_values;" json:"facet_values,omitempty"`
}
