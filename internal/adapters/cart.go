package adapters

import (
	"context"

	cartdomain "cotizador_backend/internal/cart/domain"
	cartservice "cotizador_backend/internal/cart/service"
	quotationservice "cotizador_backend/internal/quotations/service"

	"github.com/google/uuid"
)

// CartAccess exposes the cart module to the quotations module.
type CartAccess struct {
	svc *cartservice.Service
}

// NewCartAccess creates the quotations-facing cart adapter.
func NewCartAccess(svc *cartservice.Service) *CartAccess {
	return &CartAccess{svc: svc}
}

// GetCart implements quotations/service.CartAccess.
func (a *CartAccess) GetCart(ctx context.Context, userID uuid.UUID) (*cartdomain.Cart, error) {
	return a.svc.GetCart(ctx, userID)
}

// Clear implements quotations/service.CartAccess.
func (a *CartAccess) Clear(ctx context.Context, userID uuid.UUID) error {
	return a.svc.Clear(ctx, userID)
}

var _ quotationservice.CartAccess = (*CartAccess)(nil)
