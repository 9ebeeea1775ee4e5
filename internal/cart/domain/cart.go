// Package domain defines the shopping cart model.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxRate is the IVA rate applied to every quotation subtotal.
var TaxRate = decimal.NewFromFloat(0.18)

// CartItem is a single equipment line in a cart. Name, code and unit
// price are snapshotted at add time so the cart survives catalog edits.
type CartItem struct {
	EquipmentID uuid.UUID       `json:"equipmentId"`
	Name        string          `json:"name"`
	Code        string          `json:"code"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
}

// LineSubtotal returns quantity times unit price for the item.
func (i CartItem) LineSubtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the working set of items a user intends to quote.
type Cart struct {
	UserID    uuid.UUID  `json:"userId"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// NewCart returns an empty cart for the given user.
func NewCart(userID uuid.UUID) *Cart {
	return &Cart{UserID: userID, Items: []CartItem{}}
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItem returns the index of the item for the given equipment, or -1.
func (c *Cart) FindItem(equipmentID uuid.UUID) int {
	for i, item := range c.Items {
		if item.EquipmentID == equipmentID {
			return i
		}
	}
	return -1
}

// RemoveItem drops the item for the given equipment if present.
func (c *Cart) RemoveItem(equipmentID uuid.UUID) {
	idx := c.FindItem(equipmentID)
	if idx < 0 {
		return
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
}

// Subtotal sums the line subtotals of every item.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.Items {
		sum = sum.Add(item.LineSubtotal())
	}
	return sum
}

// Tax returns the IVA amount for the cart, rounded to cents.
func (c *Cart) Tax() decimal.Decimal {
	return c.Subtotal().Mul(TaxRate).Round(2)
}

// Total returns subtotal plus tax.
func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Add(c.Tax())
}
