package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCartTotals(t *testing.T) {
	cart := NewCart(uuid.New())
	cart.Items = []CartItem{
		{EquipmentID: uuid.New(), Name: "Compressor", UnitPrice: decimal.NewFromInt(125), Quantity: 2},
		{EquipmentID: uuid.New(), Name: "Hose kit", UnitPrice: decimal.NewFromInt(45), Quantity: 1},
	}

	if got, want := cart.Subtotal().String(), "295"; got != want {
		t.Fatalf("Subtotal() = %s, want %s", got, want)
	}
	if got, want := cart.Tax().String(), "53.1"; got != want {
		t.Fatalf("Tax() = %s, want %s", got, want)
	}
	if got, want := cart.Total().String(), "348.1"; got != want {
		t.Fatalf("Total() = %s, want %s", got, want)
	}
}

func TestCartTaxRounding(t *testing.T) {
	cart := NewCart(uuid.New())
	cart.Items = []CartItem{
		{EquipmentID: uuid.New(), UnitPrice: decimal.RequireFromString("33.33"), Quantity: 1},
	}

	// 33.33 * 0.18 = 5.9994, rounds to 6.00
	if got, want := cart.Tax().String(), "6"; got != want {
		t.Fatalf("Tax() = %s, want %s", got, want)
	}
	if got, want := cart.Total().String(), "39.33"; got != want {
		t.Fatalf("Total() = %s, want %s", got, want)
	}
}

func TestCartEmptyTotalsAreZero(t *testing.T) {
	cart := NewCart(uuid.New())

	if !cart.IsEmpty() {
		t.Fatal("new cart should be empty")
	}
	if !cart.Subtotal().IsZero() || !cart.Tax().IsZero() || !cart.Total().IsZero() {
		t.Fatalf("empty cart totals = %s/%s/%s, want all zero",
			cart.Subtotal(), cart.Tax(), cart.Total())
	}
}

func TestCartRemoveItem(t *testing.T) {
	keep := uuid.New()
	drop := uuid.New()
	cart := NewCart(uuid.New())
	cart.Items = []CartItem{
		{EquipmentID: keep, Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		{EquipmentID: drop, Quantity: 2, UnitPrice: decimal.NewFromInt(20)},
	}

	cart.RemoveItem(drop)
	if len(cart.Items) != 1 || cart.Items[0].EquipmentID != keep {
		t.Fatalf("RemoveItem left %d items", len(cart.Items))
	}

	// removing an absent item is a no-op
	cart.RemoveItem(drop)
	if len(cart.Items) != 1 {
		t.Fatalf("RemoveItem of absent item changed cart, %d items", len(cart.Items))
	}
}
