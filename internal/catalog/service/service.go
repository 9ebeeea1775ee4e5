// Package service implements catalog business logic.
package service

import (
	"context"
	"time"

	"cotizador_backend/internal/catalog/repository"
	"cotizador_backend/internal/catalog/transport"
	"cotizador_backend/platform/apperr"

	"github.com/google/uuid"
)

// Service provides business logic for the equipment catalog.
type Service struct {
	repo *repository.Repository
}

// New creates a new catalog service.
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// GetByID retrieves a single equipment entry.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.EquipmentResponse, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := buildEquipmentResponse(e)
	return &resp, nil
}

// List retrieves equipment with filtering and pagination.
func (s *Service) List(ctx context.Context, req transport.ListEquipmentRequest) (*transport.EquipmentListResponse, error) {
	params := repository.ListParams{
		Search:   req.Search,
		Page:     max(req.Page, 1),
		PageSize: clampPageSize(req.PageSize),
	}

	if req.CategoryID != "" {
		parsed, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, apperr.BadRequest("invalid categoryId format")
		}
		params.CategoryID = &parsed
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]transport.EquipmentResponse, len(result.Items))
	for i := range result.Items {
		items[i] = buildEquipmentResponse(&result.Items[i])
	}

	return &transport.EquipmentListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Create adds a new equipment entry.
func (s *Service) Create(ctx context.Context, req transport.CreateEquipmentRequest) (*transport.EquipmentResponse, error) {
	if req.UnitPrice.IsNegative() {
		return nil, apperr.Validation("unit price cannot be negative")
	}

	now := time.Now()
	e := &repository.Equipment{
		ID:          uuid.New(),
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		Stock:       req.Stock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	resp := buildEquipmentResponse(e)
	return &resp, nil
}

// Update applies a partial update to an equipment entry.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateEquipmentRequest) (*transport.EquipmentResponse, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		e.CategoryID = req.CategoryID
	}
	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, apperr.Validation("unit price cannot be negative")
		}
		e.UnitPrice = *req.UnitPrice
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, apperr.Validation("stock cannot be negative")
		}
		e.Stock = *req.Stock
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
	e.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	resp := buildEquipmentResponse(e)
	return &resp, nil
}

// Delete removes an equipment entry.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]transport.CategoryResponse, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]transport.CategoryResponse, len(cats))
	for i, c := range cats {
		items[i] = transport.CategoryResponse{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			CreatedAt:   c.CreatedAt,
		}
	}
	return items, nil
}

// CreateCategory adds a new category.
func (s *Service) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (*transport.CategoryResponse, error) {
	c := &repository.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return &transport.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}, nil
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, id)
}

func buildEquipmentResponse(e *repository.Equipment) transport.EquipmentResponse {
	return transport.EquipmentResponse{
		ID:          e.ID,
		CategoryID:  e.CategoryID,
		Name:        e.Name,
		Code:        e.Code,
		Description: e.Description,
		UnitPrice:   e.UnitPrice,
		Stock:       e.Stock,
		IsActive:    e.IsActive,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func clampPageSize(size int) int {
	if size < 1 || size > 100 {
		return 50
	}
	return size
}
