package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// CartItem is one line of a user's basket. Deleting the user or the product
// removes the line with it.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Product   Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Quantity  int       `gorm:"column:quantity;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// String returns the display form "<product name> <quantity>". The Product
// association must be loaded.
func (c CartItem) String() string {
	return c.Product.Name + " " + strconv.Itoa(c.Quantity)
}
