// Package service shapes quotation aggregations for the sales side.
package service

import (
	"context"

	"cotizador_backend/internal/reports/repository"
	"cotizador_backend/internal/reports/transport"
	"cotizador_backend/platform/httpkit"

	"github.com/google/uuid"
)

// Service provides reporting over quotations.
type Service struct {
	repo *repository.Repository
}

// New creates a new reports service.
func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// QuotationSummary returns per-state and per-month aggregates. A
// salesperson only sees their own quotations; an admin sees all.
func (s *Service) QuotationSummary(ctx context.Context, actorID uuid.UUID, role string) (*transport.QuotationSummaryResponse, error) {
	var scope *uuid.UUID
	if role == httpkit.RoleSalesperson {
		scope = &actorID
	}

	states, err := s.repo.ByState(ctx, scope)
	if err != nil {
		return nil, err
	}
	months, err := s.repo.ByMonth(ctx, scope)
	if err != nil {
		return nil, err
	}

	resp := &transport.QuotationSummaryResponse{
		ByState: make([]transport.StateSummary, len(states)),
		ByMonth: make([]transport.MonthSummary, len(months)),
	}
	for i, b := range states {
		resp.ByState[i] = transport.StateSummary{State: b.State, Count: b.Count, Total: b.Total}
	}
	for i, b := range months {
		resp.ByMonth[i] = transport.MonthSummary{Year: b.Year, Month: b.Month, Count: b.Count, Total: b.Total}
	}
	return resp, nil
}
