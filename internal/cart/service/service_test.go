package service

import (
	"context"
	"testing"

	"cotizador_backend/internal/cart/domain"
	"cotizador_backend/internal/cart/transport"
	"cotizador_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeCatalog struct {
	equipment map[uuid.UUID]*EquipmentInfo
}

func (f *fakeCatalog) GetEquipment(_ context.Context, id uuid.UUID) (*EquipmentInfo, error) {
	eq, ok := f.equipment[id]
	if !ok {
		return nil, apperr.NotFound("equipment not found")
	}
	return eq, nil
}

type fakeStore struct {
	carts map[uuid.UUID]*domain.Cart
	saves int
}

func (f *fakeStore) Get(_ context.Context, userID uuid.UUID) (*domain.Cart, error) {
	if c, ok := f.carts[userID]; ok {
		return c, nil
	}
	return domain.NewCart(userID), nil
}

func (f *fakeStore) Save(_ context.Context, cart *domain.Cart) error {
	f.saves++
	f.carts[cart.UserID] = cart
	return nil
}

func (f *fakeStore) Delete(_ context.Context, userID uuid.UUID) error {
	delete(f.carts, userID)
	return nil
}

func newTestService(equipment ...*EquipmentInfo) (*Service, *fakeStore) {
	catalog := &fakeCatalog{equipment: map[uuid.UUID]*EquipmentInfo{}}
	for _, eq := range equipment {
		catalog.equipment[eq.ID] = eq
	}
	store := &fakeStore{carts: map[uuid.UUID]*domain.Cart{}}
	return New(store, catalog), store
}

func activeEquipment(stock int) *EquipmentInfo {
	return &EquipmentInfo{
		ID:        uuid.New(),
		Name:      "Welder MIG-200",
		Code:      "WLD-200",
		UnitPrice: decimal.NewFromInt(850),
		Stock:     stock,
		IsActive:  true,
	}
}

func TestAddItemNewLine(t *testing.T) {
	eq := activeEquipment(10)
	svc, _ := newTestService(eq)
	userID := uuid.New()

	resp, err := svc.AddItem(context.Background(), userID, transport.AddItemRequest{
		EquipmentID: eq.ID, Quantity: 3,
	})
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Quantity != 3 {
		t.Fatalf("AddItem() items = %+v", resp.Items)
	}
	if got, want := resp.Subtotal.String(), "2550"; got != want {
		t.Fatalf("Subtotal = %s, want %s", got, want)
	}
}

func TestAddItemCumulativeStockCheck(t *testing.T) {
	eq := activeEquipment(5)
	svc, store := newTestService(eq)
	userID := uuid.New()

	if _, err := svc.AddItem(context.Background(), userID, transport.AddItemRequest{EquipmentID: eq.ID, Quantity: 3}); err != nil {
		t.Fatalf("first AddItem() error = %v", err)
	}

	// 3 already in the cart, requesting 3 more exceeds stock 5
	_, err := svc.AddItem(context.Background(), userID, transport.AddItemRequest{EquipmentID: eq.ID, Quantity: 3})
	if !apperr.HasCode(err, apperr.CodeInsufficientStock) {
		t.Fatalf("AddItem() error = %v, want INSUFFICIENT_STOCK", err)
	}

	// cart unchanged after the refused add
	cart := store.carts[userID]
	if cart.Items[0].Quantity != 3 {
		t.Fatalf("cart quantity = %d after refused add, want 3", cart.Items[0].Quantity)
	}
}

func TestAddItemMergesExistingLine(t *testing.T) {
	eq := activeEquipment(10)
	svc, _ := newTestService(eq)
	userID := uuid.New()

	for range 2 {
		if _, err := svc.AddItem(context.Background(), userID, transport.AddItemRequest{EquipmentID: eq.ID, Quantity: 2}); err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}
	}

	resp, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Quantity != 4 {
		t.Fatalf("items = %+v, want single merged line of 4", resp.Items)
	}
}

func TestAddItemInactiveEquipment(t *testing.T) {
	eq := activeEquipment(10)
	eq.IsActive = false
	svc, _ := newTestService(eq)

	_, err := svc.AddItem(context.Background(), uuid.New(), transport.AddItemRequest{EquipmentID: eq.ID, Quantity: 1})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("AddItem() error = %v, want not found", err)
	}
}

func TestUpdateItemZeroQuantityRemovesLine(t *testing.T) {
	eq := activeEquipment(10)
	svc, _ := newTestService(eq)
	userID := uuid.New()

	if _, err := svc.AddItem(context.Background(), userID, transport.AddItemRequest{EquipmentID: eq.ID, Quantity: 2}); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	resp, err := svc.UpdateItem(context.Background(), userID, eq.ID, 0)
	if err != nil {
		t.Fatalf("UpdateItem() error = %v", err)
	}
	if len(resp.Items) != 0 {
		t.Fatalf("items = %+v, want empty cart", resp.Items)
	}
}

func TestUpdateItemMissingLine(t *testing.T) {
	eq := activeEquipment(10)
	svc, _ := newTestService(eq)

	_, err := svc.UpdateItem(context.Background(), uuid.New(), eq.ID, 2)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("UpdateItem() error = %v, want not found", err)
	}
}

func TestUpdateItemStockCheck(t *testing.T) {
	eq := activeEquipment(4)
	svc, _ := newTestService(eq)
	userID := uuid.New()

	if _, err := svc.AddItem(context.Background(), userID, transport.AddItemRequest{EquipmentID: eq.ID, Quantity: 2}); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	_, err := svc.UpdateItem(context.Background(), userID, eq.ID, 5)
	if !apperr.HasCode(err, apperr.CodeInsufficientStock) {
		t.Fatalf("UpdateItem() error = %v, want INSUFFICIENT_STOCK", err)
	}
}

func TestClearEmptiesCart(t *testing.T) {
	eq := activeEquipment(10)
	svc, store := newTestService(eq)
	userID := uuid.New()

	if _, err := svc.AddItem(context.Background(), userID, transport.AddItemRequest{EquipmentID: eq.ID, Quantity: 1}); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if err := svc.Clear(context.Background(), userID); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok := store.carts[userID]; ok {
		t.Fatal("cart still present after Clear()")
	}
}
