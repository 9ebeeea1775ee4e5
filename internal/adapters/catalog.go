// Package adapters wires modules together behind the narrow ports each
// consumer declares, so no module imports another module's internals.
package adapters

import (
	"context"

	cartservice "cotizador_backend/internal/cart/service"
	catalogrepo "cotizador_backend/internal/catalog/repository"
	quotationservice "cotizador_backend/internal/quotations/service"

	"github.com/google/uuid"
)

// CatalogReader exposes the catalog to the cart module.
type CatalogReader struct {
	repo *catalogrepo.Repository
}

// NewCatalogReader creates the cart-facing catalog adapter.
func NewCatalogReader(repo *catalogrepo.Repository) *CatalogReader {
	return &CatalogReader{repo: repo}
}

// GetEquipment implements cart/service.EquipmentReader.
func (a *CatalogReader) GetEquipment(ctx context.Context, id uuid.UUID) (*cartservice.EquipmentInfo, error) {
	e, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &cartservice.EquipmentInfo{
		ID:        e.ID,
		Name:      e.Name,
		Code:      e.Code,
		UnitPrice: e.UnitPrice,
		Stock:     e.Stock,
		IsActive:  e.IsActive,
	}, nil
}

// StockReader exposes live stock to the quotations module.
type StockReader struct {
	repo *catalogrepo.Repository
}

// NewStockReader creates the quotations-facing catalog adapter.
func NewStockReader(repo *catalogrepo.Repository) *StockReader {
	return &StockReader{repo: repo}
}

// GetStock implements quotations/service.StockReader.
func (a *StockReader) GetStock(ctx context.Context, id uuid.UUID) (*quotationservice.EquipmentStock, error) {
	e, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &quotationservice.EquipmentStock{
		ID:       e.ID,
		Name:     e.Name,
		Stock:    e.Stock,
		IsActive: e.IsActive,
	}, nil
}

// Compile-time interface checks.
var (
	_ cartservice.EquipmentReader  = (*CatalogReader)(nil)
	_ quotationservice.StockReader = (*StockReader)(nil)
)
