package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/egorvolkov/storefront-backend/pkg/db/models"
)

// ItemDTO is the transport shape for one basket line.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
	Display     string          `json:"display"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AddItemRequest is the payload for putting a product into the basket.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
}

// UpdateItemRequest overwrites the quantity of an existing line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// CartDTO aggregates the basket lines with their combined total.
type CartDTO struct {
	Items []ItemDTO       `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func ItemFromModel(item *models.CartItem) *ItemDTO {
	if item == nil {
		return nil
	}
	qty := decimal.NewFromInt(int64(item.Quantity))
	return &ItemDTO{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductName: item.Product.Name,
		UnitPrice:   item.Product.Price,
		Quantity:    item.Quantity,
		LineTotal:   item.Product.Price.Mul(qty),
		Display:     item.String(),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func CartFromModels(items []models.CartItem) *CartDTO {
	dto := &CartDTO{Items: make([]ItemDTO, 0, len(items)), Total: decimal.Zero}
	for i := range items {
		line := ItemFromModel(&items[i])
		dto.Items = append(dto.Items, *line)
		dto.Total = dto.Total.Add(line.LineTotal)
	}
	return dto
}
