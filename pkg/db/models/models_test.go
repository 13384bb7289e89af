package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestUserString(t *testing.T) {
	user := User{FirstName: "Ivan", LastName: "Petrov"}
	if got := user.String(); got != "Ivan Petrov" {
		t.Fatalf("User display = %q, want %q", got, "Ivan Petrov")
	}
}

func TestCartItemString(t *testing.T) {
	item := CartItem{
		Product:  Product{Name: "Chair"},
		Quantity: 2,
	}
	if got := item.String(); got != "Chair 2" {
		t.Fatalf("CartItem display = %q", got)
	}
}

func TestOrderString(t *testing.T) {
	created := time.Date(2024, 5, 10, 12, 30, 0, 0, time.UTC)
	order := Order{
		CreatedAt: created,
		User:      User{FirstName: "Ivan", LastName: "Petrov"},
		Items:     []OrderItem{{}, {}, {}},
	}
	want := "2024-05-10 12:30:00 - Ivan Petrov - 3"
	if got := order.String(); got != want {
		t.Fatalf("Order display = %q, want %q", got, want)
	}
}

func TestOrderItemStringUsesFrozenPrice(t *testing.T) {
	item := OrderItem{
		Order:    Order{User: User{FirstName: "Ivan", LastName: "Petrov"}},
		Product:  Product{Name: "Chair", Price: decimal.RequireFromString("99.99")},
		Quantity: 3,
		Price:    decimal.RequireFromString("10.00"),
	}
	want := "Ivan Petrov - Chair - 3 - 30.00"
	if got := item.String(); got != want {
		t.Fatalf("OrderItem display = %q, want %q", got, want)
	}
}

func TestDisplayStringsAreIdempotent(t *testing.T) {
	item := OrderItem{
		Order:    Order{User: User{FirstName: "Anna", LastName: "Ivanova"}},
		Product:  Product{Name: "Lamp"},
		Quantity: 2,
		Price:    decimal.RequireFromString("7.50"),
	}
	first := item.String()
	second := item.String()
	if first != second {
		t.Fatalf("display string changed between calls: %q vs %q", first, second)
	}
}

func TestOrderStatusLabelLookup(t *testing.T) {
	order := Order{Status: "confirmed"}
	label, err := order.StatusLabel()
	if err != nil {
		t.Fatalf("StatusLabel returned error: %v", err)
	}
	if label != "Подтвержденные" {
		t.Fatalf("StatusLabel = %q", label)
	}

	order.Status = "unknown"
	if _, err := order.StatusLabel(); err == nil {
		t.Fatal("expected lookup failure for status written around validation")
	}
}
