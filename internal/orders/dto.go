package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/egorvolkov/storefront-backend/pkg/db/models"
	"github.com/egorvolkov/storefront-backend/pkg/enums"
)

// ItemDTO is the transport shape for one order line. Price is the unit price
// frozen at checkout.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	Display     string          `json:"display"`
}

// OrderDTO is the transport shape for an order with its lines.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"user_id"`
	UserName        string            `json:"user_name"`
	Status          enums.OrderStatus `json:"status"`
	StatusLabel     string            `json:"status_label"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`
	Items           []ItemDTO         `json:"items"`
	Total           decimal.Decimal   `json:"total"`
	Display         string            `json:"display"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// UpdateStatusRequest moves an order to a new status. A rejection reason is
// required when canceling.
type UpdateStatusRequest struct {
	Status          string  `json:"status" validate:"required"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

func FromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}

	label, err := order.StatusLabel()
	if err != nil {
		label = string(order.Status)
	}

	dto := &OrderDTO{
		ID:              order.ID,
		UserID:          order.UserID,
		UserName:        order.User.String(),
		Status:          order.Status,
		StatusLabel:     label,
		RejectionReason: order.RejectionReason,
		Items:           make([]ItemDTO, 0, len(order.Items)),
		Total:           decimal.Zero,
		Display:         order.String(),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}

	for i := range order.Items {
		item := order.Items[i]
		// The item display needs the owning user, which lives on the
		// parent row.
		item.Order = models.Order{User: order.User}
		line := ItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			Price:       item.Price,
			LineTotal:   item.LineTotal(),
			Display:     item.String(),
		}
		dto.Items = append(dto.Items, line)
		dto.Total = dto.Total.Add(line.LineTotal)
	}
	return dto
}
