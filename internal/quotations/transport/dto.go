// Package transport defines the request and response shapes for the
// quotations module.
package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateQuotationRequest turns the caller's cart into a quotation.
// TargetCustomerID is required when a salesperson or admin quotes on a
// customer's behalf; VendorID lets an admin pin the assigned salesperson.
type CreateQuotationRequest struct {
	TargetCustomerID *uuid.UUID `json:"targetCustomerId"`
	VendorID         *uuid.UUID `json:"vendorId"`
	Notes            string     `json:"notes" validate:"max=2000"`
}

// TransitionRequest moves a quotation to a new lifecycle state.
type TransitionRequest struct {
	State string `json:"state" validate:"required,oneof=draft sent approved rejected"`
}

// ListQuotationsRequest captures the listing filters.
type ListQuotationsRequest struct {
	State    string `form:"state"`
	Number   string `form:"number"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// QuotationItemResponse is one quoted line.
type QuotationItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	EquipmentID   uuid.UUID       `json:"equipmentId"`
	EquipmentName string          `json:"equipmentName"`
	EquipmentCode string          `json:"equipmentCode"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	LineSubtotal  decimal.Decimal `json:"lineSubtotal"`
}

// QuotationResponse is the full quotation view.
type QuotationResponse struct {
	ID            uuid.UUID               `json:"id"`
	Number        string                  `json:"number"`
	CustomerID    uuid.UUID               `json:"customerId"`
	SalespersonID uuid.UUID               `json:"salespersonId"`
	CompanyName   string                  `json:"companyName"`
	ContactName   string                  `json:"contactName"`
	ContactEmail  string                  `json:"contactEmail"`
	ContactPhone  string                  `json:"contactPhone"`
	Subtotal      decimal.Decimal         `json:"subtotal"`
	Tax           decimal.Decimal         `json:"tax"`
	Total         decimal.Decimal         `json:"total"`
	State         string                  `json:"state"`
	Notes         string                  `json:"notes"`
	ExpiresAt     time.Time               `json:"expiresAt"`
	CreatedAt     time.Time               `json:"createdAt"`
	UpdatedAt     time.Time               `json:"updatedAt"`
	Items         []QuotationItemResponse `json:"items,omitempty"`
}

// QuotationListResponse is a paginated quotation listing. Items are
// returned without their lines.
type QuotationListResponse struct {
	Items      []QuotationResponse `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalPages int                 `json:"totalPages"`
}
