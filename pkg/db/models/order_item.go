package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem snapshots one product within an order. Price is the unit price
// frozen at checkout, so later product repricing never alters order history.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	Order     Order           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Product   Product         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Quantity  int             `gorm:"column:quantity;not null;default:0"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null;default:0.00"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// LineTotal multiplies the frozen unit price by the quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// String returns "<user> - <product> - <quantity> - <line total>". The Order
// (with its User) and Product associations must be loaded.
func (i OrderItem) String() string {
	return fmt.Sprintf("%s - %s - %d - %s", i.Order.User, i.Product.Name, i.Quantity, i.LineTotal().StringFixed(2))
}
