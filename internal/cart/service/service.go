// Package service implements cart business logic.
package service

import (
	"context"

	"cotizador_backend/internal/cart/domain"
	"cotizador_backend/internal/cart/transport"
	"cotizador_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EquipmentInfo is the catalog view the cart needs to validate a line.
type EquipmentInfo struct {
	ID        uuid.UUID
	Name      string
	Code      string
	UnitPrice decimal.Decimal
	Stock     int
	IsActive  bool
}

// EquipmentReader resolves equipment from the catalog.
type EquipmentReader interface {
	GetEquipment(ctx context.Context, id uuid.UUID) (*EquipmentInfo, error)
}

// CartStore persists carts between requests.
type CartStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// Service provides cart operations. Stock is re-checked against the live
// catalog on every mutation; the cart never reserves inventory.
type Service struct {
	store   CartStore
	catalog EquipmentReader
}

// New creates a new cart service.
func New(store CartStore, catalog EquipmentReader) *Service {
	return &Service{store: store, catalog: catalog}
}

// Get returns the user's current cart.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*transport.CartResponse, error) {
	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildCartResponse(cart), nil
}

// GetCart returns the raw domain cart for quotation creation.
func (s *Service) GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	return s.store.Get(ctx, userID)
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.store.Delete(ctx, userID)
}

// AddItem adds equipment to the cart or tops up an existing line. The
// resulting cumulative quantity must fit the live stock.
func (s *Service) AddItem(ctx context.Context, userID uuid.UUID, req transport.AddItemRequest) (*transport.CartResponse, error) {
	eq, err := s.catalog.GetEquipment(ctx, req.EquipmentID)
	if err != nil {
		return nil, err
	}
	if !eq.IsActive {
		return nil, apperr.NotFound("equipment not found")
	}

	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(req.EquipmentID)
	desired := req.Quantity
	if idx >= 0 {
		desired += cart.Items[idx].Quantity
	}
	if desired > eq.Stock {
		return nil, insufficientStock(eq.Name, eq.Stock, desired)
	}

	if idx >= 0 {
		cart.Items[idx].Quantity = desired
		cart.Items[idx].Name = eq.Name
		cart.Items[idx].Code = eq.Code
		cart.Items[idx].UnitPrice = eq.UnitPrice
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			EquipmentID: eq.ID,
			Name:        eq.Name,
			Code:        eq.Code,
			UnitPrice:   eq.UnitPrice,
			Quantity:    desired,
		})
	}

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return buildCartResponse(cart), nil
}

// UpdateItem replaces the quantity of an existing cart line. A quantity
// of zero or below removes the line.
func (s *Service) UpdateItem(ctx context.Context, userID, equipmentID uuid.UUID, quantity int) (*transport.CartResponse, error) {
	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(equipmentID)
	if idx < 0 {
		return nil, apperr.NotFound("item not in cart")
	}

	if quantity <= 0 {
		cart.RemoveItem(equipmentID)
	} else {
		eq, err := s.catalog.GetEquipment(ctx, equipmentID)
		if err != nil {
			return nil, err
		}
		if quantity > eq.Stock {
			return nil, insufficientStock(eq.Name, eq.Stock, quantity)
		}
		cart.Items[idx].Quantity = quantity
		cart.Items[idx].Name = eq.Name
		cart.Items[idx].Code = eq.Code
		cart.Items[idx].UnitPrice = eq.UnitPrice
	}

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return buildCartResponse(cart), nil
}

func insufficientStock(name string, available, requested int) *apperr.Error {
	return apperr.Conflict("insufficient stock for "+name).
		WithCode(apperr.CodeInsufficientStock).
		WithDetails(map[string]int{"available": available, "requested": requested})
}

func buildCartResponse(cart *domain.Cart) *transport.CartResponse {
	items := make([]transport.CartItemResponse, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = transport.CartItemResponse{
			EquipmentID:  item.EquipmentID,
			Name:         item.Name,
			Code:         item.Code,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			LineSubtotal: item.LineSubtotal(),
		}
	}
	return &transport.CartResponse{
		Items:     items,
		Subtotal:  cart.Subtotal(),
		Tax:       cart.Tax(),
		Total:     cart.Total(),
		UpdatedAt: cart.UpdatedAt,
	}
}
