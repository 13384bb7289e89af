package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/egorvolkov/storefront-backend/pkg/db/models"
	pkgerrors "github.com/egorvolkov/storefront-backend/pkg/errors"
)

type stubCartRepo struct {
	items map[uuid.UUID]*models.CartItem
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{items: map[uuid.UUID]*models.CartItem{}}
}

func (s *stubCartRepo) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	for _, item := range s.items {
		if item.UserID == userID && item.ProductID == productID {
			item.Quantity += quantity
			return item, nil
		}
	}
	item := &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	s.items[item.ID] = item
	return item, nil
}

func (s *stubCartRepo) FindItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	if item, ok := s.items[itemID]; ok && item.UserID == userID {
		return item, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) ListItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	out := []models.CartItem{}
	for _, item := range s.items {
		if item.UserID == userID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *stubCartRepo) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	item, err := s.FindItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	item.Quantity = quantity
	return item, nil
}

func (s *stubCartRepo) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if _, err := s.FindItem(ctx, userID, itemID); err != nil {
		return err
	}
	delete(s.items, itemID)
	return nil
}

func (s *stubCartRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	for id, item := range s.items {
		if item.UserID == userID {
			delete(s.items, id)
		}
	}
	return nil
}

type stubProductFinder struct {
	products map[uuid.UUID]*models.Product
}

func (s stubProductFinder) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.products[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func buildCartService(t *testing.T, products ...*models.Product) (Service, *stubCartRepo) {
	t.Helper()
	repo := newStubCartRepo()
	finder := stubProductFinder{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		finder.products[p.ID] = p
	}
	svc, err := NewService(ServiceParams{Repo: repo, Products: finder})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo
}

func stockProduct(stock int) *models.Product {
	return &models.Product{
		ID:    uuid.New(),
		Name:  "Chair",
		Price: decimal.RequireFromString("10.00"),
		Stock: stock,
	}
}

func TestCartAddItemUnknownProduct(t *testing.T) {
	svc, _ := buildCartService(t)

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{
		ProductID: uuid.New(),
		Quantity:  1,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCartAddItemRejectsZeroQuantity(t *testing.T) {
	product := stockProduct(5)
	svc, _ := buildCartService(t, product)

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{
		ProductID: product.ID,
		Quantity:  0,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCartAddItemRejectsOverStock(t *testing.T) {
	product := stockProduct(2)
	svc, _ := buildCartService(t, product)

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{
		ProductID: product.ID,
		Quantity:  3,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCartTotalsAcrossLines(t *testing.T) {
	chair := stockProduct(5)
	lamp := &models.Product{
		ID:    uuid.New(),
		Name:  "Lamp",
		Price: decimal.RequireFromString("7.50"),
		Stock: 5,
	}
	svc, repo := buildCartService(t, chair, lamp)
	userID := uuid.New()

	if _, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: chair.ID, Quantity: 2}); err != nil {
		t.Fatalf("add chair: %v", err)
	}
	if _, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: lamp.ID, Quantity: 1}); err != nil {
		t.Fatalf("add lamp: %v", err)
	}

	// The repo stubs do not preload products, so hydrate them by hand the
	// way ListItems would.
	for _, item := range repo.items {
		if item.ProductID == chair.ID {
			item.Product = *chair
		} else {
			item.Product = *lamp
		}
	}

	cart, err := svc.GetCart(context.Background(), userID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Items))
	}
	if !cart.Total.Equal(decimal.RequireFromString("27.50")) {
		t.Fatalf("expected total 27.50, got %s", cart.Total)
	}
}
