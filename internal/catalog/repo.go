package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/egorvolkov/storefront-backend/pkg/db/models"
	"github.com/egorvolkov/storefront-backend/pkg/pagination"
)

// Repository exposes catalog persistence operations for categories and products.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateCategory inserts a new category.
func (r *Repository) CreateCategory(ctx context.Context, dto CreateCategoryDTO) (*models.Category, error) {
	category := &models.Category{Name: dto.Name}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// FindCategoryByID loads one category.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// RenameCategory sets a new name on an existing category.
func (r *Repository) RenameCategory(ctx context.Context, id uuid.UUID, name string) (*models.Category, error) {
	res := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindCategoryByID(ctx, id)
}

// ProductPhotoKeysByCategory returns the stored photo keys of every product in
// the category. Used to clean up media files around a cascade delete.
func (r *Repository) ProductPhotoKeysByCategory(ctx context.Context, categoryID uuid.UUID) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ? AND photo_key IS NOT NULL", categoryID).
		Pluck("photo_key", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// DeleteCategory removes a category. Its products go with it.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateProduct inserts a new product.
func (r *Repository) CreateProduct(ctx context.Context, dto CreateProductDTO) (*models.Product, error) {
	product := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindProductByID loads one product with its category preloaded.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts pages through products newest-first, optionally scoped to a category.
func (r *Repository) ListProducts(ctx context.Context, categoryID *uuid.UUID, params pagination.Params) ([]models.Product, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Preload("Category").
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var out []models.Product
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProduct applies the non-nil fields of the DTO.
func (r *Repository) UpdateProduct(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*models.Product, error) {
	updates := map[string]any{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Year != nil {
		updates["year"] = *dto.Year
	}
	if dto.Country != nil {
		updates["country"] = *dto.Country
	}
	if dto.Price != nil {
		updates["price"] = *dto.Price
	}
	if dto.Stock != nil {
		updates["stock"] = *dto.Stock
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindProductByID(ctx, id)
}

// SetProductPhotoKey overwrites the stored photo key. Pass nil to clear it.
func (r *Repository) SetProductPhotoKey(ctx context.Context, id uuid.UUID, key *string) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).UpdateColumn("photo_key", key)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteProduct removes a product along with dependent cart and order lines.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
