package model

import "github.com/google/uuid"

// Facet is a classification axis (e.g. "Voltage") derived from a technical
// attribute name. Code is unique: the duplicate-key conflict on concurrent
// creation is what the facet engine recovers from by re-fetching.
type Facet struct {
	BaseModel
	Code string `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`

	Values []FacetValue `json:"values,omitempty"`
}

// FacetValue is a normalized value within a Facet (e.g. "24v" / "24V").
// Code is unique per facet.
type FacetValue struct {
	BaseModel
	FacetID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_facet_value_code" json:"facet_id"`
	Code    string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_facet_value_code" json:"code"`
	Name    string    `gorm:"type:varchar(255);not null" json:"name"`
}
