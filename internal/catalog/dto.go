package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/egorvolkov/storefront-backend/pkg/db/models"
)

// CategoryDTO is the transport shape for a category.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCategoryDTO holds the data needed to persist a new category.
type CreateCategoryDTO struct {
	Name string `json:"name" validate:"required"`
}

// ProductDTO is the transport shape for a product listing.
type ProductDTO struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	PhotoKey     *string         `json:"photo_key,omitempty"`
	PhotoName    *string         `json:"photo_name,omitempty"`
	Year         *int            `json:"year,omitempty"`
	Country      *string         `json:"country,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateProductDTO holds the data needed to persist a new product.
type CreateProductDTO struct {
	Name       string          `json:"name" validate:"required"`
	Year       *int            `json:"year,omitempty"`
	Country    *string         `json:"country,omitempty"`
	Price      decimal.Decimal `json:"price" validate:"required"`
	Stock      int             `json:"stock" validate:"gte=0"`
	CategoryID uuid.UUID       `json:"category_id" validate:"required"`
}

// UpdateProductDTO carries partial product updates. Nil fields are left untouched.
type UpdateProductDTO struct {
	Name    *string          `json:"name,omitempty"`
	Year    *int             `json:"year,omitempty"`
	Country *string          `json:"country,omitempty"`
	Price   *decimal.Decimal `json:"price,omitempty"`
	Stock   *int             `json:"stock,omitempty"`
}

func CategoryFromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ProductFromModel(p *models.Product, photoName *string) *ProductDTO {
	if p == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:         p.ID,
		Name:       p.Name,
		PhotoKey:   p.PhotoKey,
		PhotoName:  photoName,
		Year:       p.Year,
		Country:    p.Country,
		Price:      p.Price,
		Stock:      p.Stock,
		CategoryID: p.CategoryID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Category.Name != "" {
		dto.CategoryName = p.Category.Name
	}
	return dto
}

func (c CreateProductDTO) ToModel() *models.Product {
	return &models.Product{
		Name:       c.Name,
		Year:       c.Year,
		Country:    c.Country,
		Price:      c.Price,
		Stock:      c.Stock,
		CategoryID: c.CategoryID,
	}
}
