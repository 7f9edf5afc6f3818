package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Measurement units a produce listing may be sold in.
const (
	UnitBags   = "bags"
	UnitTonnes = "tonnes"
	UnitUnits  = "units"
)

// ValidMeasurementUnit reports whether unit is one of the allowed values.
func ValidMeasurementUnit(unit string) bool {
	switch unit {
	case UnitBags, UnitTonnes, UnitUnits:
		return true
	}
	return false
}

// Produce is a listing of farm produce offered under a category.
// Owner and category are the identity anchors used by permission checks.
type Produce struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:150;not null" json:"produce_name"`
	Slug        string          `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"produce_category,omitempty"`
	Stock       uint            `gorm:"not null;default:0" json:"stock"`
	Unit        string          `gorm:"size:25;not null;default:'bags'" json:"measurement_unit"`
	PriceTag    decimal.Decimal `gorm:"type:decimal(10,2);default:0.00" json:"price_tag"`
	OwnerID     uint            `gorm:"not null;index" json:"owner_id"`
	Owner       *User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	ImageS3Key  *string         `json:"image_s3_key,omitempty"`
	ImageURL    *string         `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for image
	Description *string         `gorm:"type:text" json:"product_description"`
	CreatedAt   time.Time       `json:"date_created"`
	UpdatedAt   time.Time       `json:"date_modified"`
}

// TableName specifies the table name for the Produce model
func (Produce) TableName() string {
	return "produce"
}
