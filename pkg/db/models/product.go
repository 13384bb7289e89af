package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing.
//
// PhotoKey holds the randomized storage key produced at upload time, not the
// original filename. CreatedAt is set once on insert and never updated.
type Product struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string          `gorm:"column:name;not null"`
	PhotoKey   *string         `gorm:"column:photo_key"`
	Year       *int            `gorm:"column:year"`
	Country    *string         `gorm:"column:country"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null;default:0.00"`
	Stock      int             `gorm:"column:stock;not null;default:0"`
	CategoryID uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	Category   Category        `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// String returns the display form of the product.
func (p Product) String() string {
	return p.Name
}
