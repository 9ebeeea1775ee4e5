package domain

import (
	"github.com/shopspring/decimal"
)

// TaxRate is the IVA rate applied to every quotation subtotal.
var TaxRate = decimal.NewFromFloat(0.18)

// Line is the quantity and unit price of one quoted item.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal returns quantity times unit price.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals holds the computed money fields of a quotation.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Calculate derives subtotal, tax and total from the given lines. Tax is
// rounded to cents before the total is formed, so total is always exactly
// subtotal plus tax.
func Calculate(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal())
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
