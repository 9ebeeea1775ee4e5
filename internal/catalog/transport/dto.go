// Package transport defines the request and response shapes for the catalog module.
package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateEquipmentRequest is the admin payload for adding equipment.
type CreateEquipmentRequest struct {
	CategoryID  *uuid.UUID      `json:"categoryId"`
	Name        string          `json:"name" validate:"required,min=2"`
	Code        string          `json:"code" validate:"required,min=2"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

// UpdateEquipmentRequest is the admin payload for partial equipment updates.
type UpdateEquipmentRequest struct {
	CategoryID  *uuid.UUID       `json:"categoryId"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	UnitPrice   *decimal.Decimal `json:"unitPrice"`
	Stock       *int             `json:"stock"`
	IsActive    *bool            `json:"isActive"`
}

// ListEquipmentRequest captures the catalog listing filters.
type ListEquipmentRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"categoryId"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
}

// EquipmentResponse is the public view of a catalog entry.
type EquipmentResponse struct {
	ID          uuid.UUID       `json:"id"`
	CategoryID  *uuid.UUID      `json:"categoryId"`
	Name        string          `json:"name"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// EquipmentListResponse is a paginated catalog listing.
type EquipmentListResponse struct {
	Items      []EquipmentResponse `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalPages int                 `json:"totalPages"`
}

// CreateCategoryRequest is the admin payload for adding a category.
type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2"`
	Description *string `json:"description"`
}

// CategoryResponse is the public view of a category.
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
