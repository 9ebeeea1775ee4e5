// Package transport defines the request and response shapes for the cart module.
package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds or tops up an equipment line in the cart.
type AddItemRequest struct {
	EquipmentID uuid.UUID `json:"equipmentId" validate:"required"`
	Quantity    int       `json:"quantity" validate:"required,gt=0"`
}

// UpdateItemRequest replaces the quantity of a cart line.
// A quantity of zero or below removes the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartItemResponse is a single line in the cart view.
type CartItemResponse struct {
	EquipmentID  uuid.UUID       `json:"equipmentId"`
	Name         string          `json:"name"`
	Code         string          `json:"code"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int             `json:"quantity"`
	LineSubtotal decimal.Decimal `json:"lineSubtotal"`
}

// CartResponse is the full cart view with computed totals.
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	Tax       decimal.Decimal    `json:"tax"`
	Total     decimal.Decimal    `json:"total"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
