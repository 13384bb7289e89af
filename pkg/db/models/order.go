package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/egorvolkov/storefront-backend/pkg/enums"
)

// Order is a purchase record. The products belonging to an order live solely
// in its OrderItem rows; nothing else stores that relation.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'new'"`
	RejectionReason *string           `gorm:"column:rejection_reason"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	User            User              `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// StatusLabel resolves the human-readable label for the current status.
func (o Order) StatusLabel() (string, error) {
	return o.Status.Label()
}

// String returns the display form "<date> - <user> - <item count>". User and
// Items must be loaded.
func (o Order) String() string {
	return fmt.Sprintf("%s - %s - %d", o.CreatedAt.Format("2006-01-02 15:04:05"), o.User, len(o.Items))
}
