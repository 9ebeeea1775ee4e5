// Package transport defines the response shapes for the reports module.
package transport

import "github.com/shopspring/decimal"

// StateSummary aggregates quotations sharing one lifecycle state.
type StateSummary struct {
	State string          `json:"state"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// MonthSummary aggregates quotations created in one calendar month.
type MonthSummary struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// QuotationSummaryResponse is the full reporting view.
type QuotationSummaryResponse struct {
	ByState []StateSummary `json:"byState"`
	ByMonth []MonthSummary `json:"byMonth"`
}
