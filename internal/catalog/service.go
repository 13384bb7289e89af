package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/egorvolkov/storefront-backend/pkg/db/models"
	pkgerrors "github.com/egorvolkov/storefront-backend/pkg/errors"
	"github.com/egorvolkov/storefront-backend/pkg/pagination"
	"github.com/egorvolkov/storefront-backend/pkg/storage"
)

// Service defines the behavior needed by the catalog controllers.
type Service interface {
	CreateCategory(ctx context.Context, dto CreateCategoryDTO) (*CategoryDTO, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	RenameCategory(ctx context.Context, id uuid.UUID, name string) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, categoryID *uuid.UUID, params pagination.Params) ([]ProductDTO, string, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	AttachPhoto(ctx context.Context, productID uuid.UUID, filename string, r io.Reader) (*ProductDTO, error)
	PhotoPath(ctx context.Context, productID uuid.UUID) (string, error)
}

type repository interface {
	CreateCategory(ctx context.Context, dto CreateCategoryDTO) (*models.Category, error)
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	RenameCategory(ctx context.Context, id uuid.UUID, name string) (*models.Category, error)
	ProductPhotoKeysByCategory(ctx context.Context, categoryID uuid.UUID) ([]string, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, dto CreateProductDTO) (*models.Product, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, categoryID *uuid.UUID, params pagination.Params) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*models.Product, error)
	SetProductPhotoKey(ctx context.Context, id uuid.UUID, key *string) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type mediaStore interface {
	Save(key string, r io.Reader) (int64, error)
	Remove(key string) error
	Path(key string) string
}

type service struct {
	repo  repository
	media mediaStore
}

// ServiceParams bundles the dependencies required to build a catalog service.
type ServiceParams struct {
	Repo  repository
	Media mediaStore
}

// NewService constructs a catalog service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	if params.Media == nil {
		return nil, fmt.Errorf("media store is required")
	}
	return &service{repo: params.Repo, media: params.Media}, nil
}

func (s *service) CreateCategory(ctx context.Context, dto CreateCategoryDTO) (*CategoryDTO, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if dto.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	category, err := s.repo.CreateCategory(ctx, dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return CategoryFromModel(category), nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	return CategoryFromModel(category), nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		out = append(out, *CategoryFromModel(&categories[i]))
	}
	return out, nil
}

func (s *service) RenameCategory(ctx context.Context, id uuid.UUID, name string) (*CategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	category, err := s.repo.RenameCategory(ctx, id, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rename category")
	}
	return CategoryFromModel(category), nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	photoKeys, err := s.repo.ProductPhotoKeysByCategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "collect category photos")
	}

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}

	// Rows are gone via the cascade; stray files are the worst case here.
	for _, key := range photoKeys {
		_ = s.media.Remove(key)
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, dto CreateProductDTO) (*ProductDTO, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if dto.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if dto.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if dto.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}
	if _, err := s.repo.FindCategoryByID(ctx, dto.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category")
	}

	product, err := s.repo.CreateProduct(ctx, dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return s.toProductDTO(product), nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return s.toProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, categoryID *uuid.UUID, params pagination.Params) ([]ProductDTO, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	products, err := s.repo.ListProducts(ctx, categoryID, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	nextCursor := ""
	if len(products) > limit {
		products = products[:limit]
		last := products[len(products)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *s.toProductDTO(&products[i]))
	}
	return out, nextCursor, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*ProductDTO, error) {
	if dto.Price != nil && dto.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if dto.Stock != nil && *dto.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}
	product, err := s.repo.UpdateProduct(ctx, id, dto)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return s.toProductDTO(product), nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	if product.PhotoKey != nil {
		// Best effort; the row is already gone.
		_ = s.media.Remove(*product.PhotoKey)
	}
	return nil
}

func (s *service) AttachPhoto(ctx context.Context, productID uuid.UUID, filename string, r io.Reader) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	key, err := storage.NewObjectKey(filename)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid photo filename")
	}
	if _, err := s.media.Save(key, r); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store photo")
	}

	if err := s.repo.SetProductPhotoKey(ctx, productID, &key); err != nil {
		_ = s.media.Remove(key)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "attach photo")
	}
	if product.PhotoKey != nil {
		_ = s.media.Remove(*product.PhotoKey)
	}

	product.PhotoKey = &key
	return s.toProductDTO(product), nil
}

func (s *service) PhotoPath(ctx context.Context, productID uuid.UUID) (string, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if product.PhotoKey == nil {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "product has no photo")
	}
	return s.media.Path(*product.PhotoKey), nil
}

func (s *service) toProductDTO(product *models.Product) *ProductDTO {
	var photoName *string
	if product.PhotoKey != nil {
		if name, err := storage.OriginalName(*product.PhotoKey); err == nil {
			photoName = &name
		}
	}
	return ProductFromModel(product, photoName)
}
