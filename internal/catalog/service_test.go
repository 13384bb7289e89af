package catalog

import (
	"context"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/egorvolkov/storefront-backend/pkg/db/models"
	pkgerrors "github.com/egorvolkov/storefront-backend/pkg/errors"
	"github.com/egorvolkov/storefront-backend/pkg/pagination"
)

type stubRepo struct {
	categories map[uuid.UUID]*models.Category
	products   map[uuid.UUID]*models.Product
	photoKeys  map[uuid.UUID]*string
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		categories: map[uuid.UUID]*models.Category{},
		products:   map[uuid.UUID]*models.Product{},
		photoKeys:  map[uuid.UUID]*string{},
	}
}

func (s *stubRepo) CreateCategory(ctx context.Context, dto CreateCategoryDTO) (*models.Category, error) {
	category := &models.Category{ID: uuid.New(), Name: dto.Name}
	s.categories[category.ID] = category
	return category, nil
}

func (s *stubRepo) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if category, ok := s.categories[id]; ok {
		return category, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubRepo) RenameCategory(ctx context.Context, id uuid.UUID, name string) (*models.Category, error) {
	category, ok := s.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	category.Name = name
	return category, nil
}

func (s *stubRepo) ProductPhotoKeysByCategory(ctx context.Context, categoryID uuid.UUID) ([]string, error) {
	keys := []string{}
	for _, p := range s.products {
		if p.CategoryID == categoryID && p.PhotoKey != nil {
			keys = append(keys, *p.PhotoKey)
		}
	}
	return keys, nil
}

func (s *stubRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.categories[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.categories, id)
	for pid, p := range s.products {
		if p.CategoryID == id {
			delete(s.products, pid)
		}
	}
	return nil
}

func (s *stubRepo) CreateProduct(ctx context.Context, dto CreateProductDTO) (*models.Product, error) {
	product := dto.ToModel()
	product.ID = uuid.New()
	s.products[product.ID] = product
	return product, nil
}

func (s *stubRepo) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.products[id]; ok {
		copied := *product
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ListProducts(ctx context.Context, categoryID *uuid.UUID, params pagination.Params) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range s.products {
		if categoryID == nil || p.CategoryID == *categoryID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubRepo) UpdateProduct(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if dto.Name != nil {
		product.Name = *dto.Name
	}
	if dto.Price != nil {
		product.Price = *dto.Price
	}
	if dto.Stock != nil {
		product.Stock = *dto.Stock
	}
	return product, nil
}

func (s *stubRepo) SetProductPhotoKey(ctx context.Context, id uuid.UUID, key *string) error {
	product, ok := s.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	product.PhotoKey = key
	s.photoKeys[id] = key
	return nil
}

func (s *stubRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.products, id)
	return nil
}

type stubMedia struct {
	saved   map[string]string
	removed []string
}

func newStubMedia() *stubMedia {
	return &stubMedia{saved: map[string]string{}}
}

func (s *stubMedia) Save(key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	s.saved[key] = string(data)
	return int64(len(data)), nil
}

func (s *stubMedia) Remove(key string) error {
	delete(s.saved, key)
	s.removed = append(s.removed, key)
	return nil
}

func (s *stubMedia) Path(key string) string {
	return "/media/" + key
}

func buildCatalogService(t *testing.T) (Service, *stubRepo, *stubMedia) {
	t.Helper()
	repo := newStubRepo()
	media := newStubMedia()
	svc, err := NewService(ServiceParams{Repo: repo, Media: media})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo, media
}

func seedStubProduct(t *testing.T, repo *stubRepo) *models.Product {
	t.Helper()
	category := &models.Category{ID: uuid.New(), Name: "Chairs"}
	repo.categories[category.ID] = category
	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Oak Chair",
		Price:      decimal.RequireFromString("9.99"),
		Stock:      3,
		CategoryID: category.ID,
	}
	repo.products[product.ID] = product
	return product
}

func TestServiceCreateProductValidatesCategory(t *testing.T) {
	svc, _, _ := buildCatalogService(t)

	_, err := svc.CreateProduct(context.Background(), CreateProductDTO{
		Name:       "Orphan",
		Price:      decimal.RequireFromString("1.00"),
		CategoryID: uuid.New(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceCreateProductRejectsNegativePrice(t *testing.T) {
	svc, repo, _ := buildCatalogService(t)
	product := seedStubProduct(t, repo)

	_, err := svc.CreateProduct(context.Background(), CreateProductDTO{
		Name:       "Cheap",
		Price:      decimal.RequireFromString("-0.01"),
		CategoryID: product.CategoryID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceAttachPhotoGeneratesPrefixedKey(t *testing.T) {
	svc, repo, media := buildCatalogService(t)
	product := seedStubProduct(t, repo)

	dto, err := svc.AttachPhoto(context.Background(), product.ID, "chair.png", strings.NewReader("fake image"))
	if err != nil {
		t.Fatalf("attach photo: %v", err)
	}

	if dto.PhotoKey == nil {
		t.Fatal("expected photo key to be set")
	}
	keyPattern := regexp.MustCompile(`^[A-Za-z0-9]{5}_chair\.png$`)
	if !keyPattern.MatchString(*dto.PhotoKey) {
		t.Fatalf("photo key %q does not match the expected shape", *dto.PhotoKey)
	}
	if dto.PhotoName == nil || *dto.PhotoName != "chair.png" {
		t.Fatalf("expected original photo name, got %v", dto.PhotoName)
	}
	if _, ok := media.saved[*dto.PhotoKey]; !ok {
		t.Fatal("photo bytes were not stored")
	}
}

func TestServiceAttachPhotoReplacesOldFile(t *testing.T) {
	svc, repo, media := buildCatalogService(t)
	product := seedStubProduct(t, repo)

	first, err := svc.AttachPhoto(context.Background(), product.ID, "old.jpg", strings.NewReader("v1"))
	if err != nil {
		t.Fatalf("attach first photo: %v", err)
	}
	second, err := svc.AttachPhoto(context.Background(), product.ID, "new.jpg", strings.NewReader("v2"))
	if err != nil {
		t.Fatalf("attach second photo: %v", err)
	}

	if *first.PhotoKey == *second.PhotoKey {
		t.Fatal("expected a fresh key for the replacement photo")
	}
	if _, ok := media.saved[*first.PhotoKey]; ok {
		t.Fatal("old photo file should have been removed")
	}
	if len(media.removed) == 0 || media.removed[len(media.removed)-1] != *first.PhotoKey {
		t.Fatalf("expected removal of %q, removed %v", *first.PhotoKey, media.removed)
	}
}

func TestServiceAttachPhotoRejectsExtension(t *testing.T) {
	svc, repo, _ := buildCatalogService(t)
	product := seedStubProduct(t, repo)

	_, err := svc.AttachPhoto(context.Background(), product.ID, "malware.exe", strings.NewReader("nope"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceDeleteProductRemovesPhoto(t *testing.T) {
	svc, repo, media := buildCatalogService(t)
	product := seedStubProduct(t, repo)

	dto, err := svc.AttachPhoto(context.Background(), product.ID, "chair.png", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("attach photo: %v", err)
	}

	if err := svc.DeleteProduct(context.Background(), product.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if _, ok := media.saved[*dto.PhotoKey]; ok {
		t.Fatal("photo file should be removed with the product")
	}
}

func TestServiceRenameCategory(t *testing.T) {
	svc, repo, _ := buildCatalogService(t)
	product := seedStubProduct(t, repo)

	dto, err := svc.RenameCategory(context.Background(), product.CategoryID, "Seating")
	if err != nil {
		t.Fatalf("rename category: %v", err)
	}
	if dto.Name != "Seating" {
		t.Fatalf("expected renamed category, got %q", dto.Name)
	}

	if _, err := svc.RenameCategory(context.Background(), product.CategoryID, "   "); pkgerrors.As(err) == nil {
		t.Fatal("expected validation error for blank name")
	}
	_, err = svc.RenameCategory(context.Background(), uuid.New(), "Ghost")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for missing category, got %v", err)
	}
}

func TestServiceDeleteCategoryRemovesProductPhotos(t *testing.T) {
	svc, repo, media := buildCatalogService(t)
	product := seedStubProduct(t, repo)

	dto, err := svc.AttachPhoto(context.Background(), product.ID, "chair.png", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("attach photo: %v", err)
	}

	if err := svc.DeleteCategory(context.Background(), product.CategoryID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if _, ok := media.saved[*dto.PhotoKey]; ok {
		t.Fatal("category delete should remove product photo files")
	}
}

func TestServicePhotoPath(t *testing.T) {
	svc, repo, _ := buildCatalogService(t)
	product := seedStubProduct(t, repo)

	_, err := svc.PhotoPath(context.Background(), product.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found before upload, got %v", err)
	}

	dto, err := svc.AttachPhoto(context.Background(), product.ID, "chair.png", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("attach photo: %v", err)
	}

	path, err := svc.PhotoPath(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("photo path: %v", err)
	}
	if path != "/media/"+*dto.PhotoKey {
		t.Fatalf("unexpected photo path %q", path)
	}
}
