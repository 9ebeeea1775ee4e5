// Package cart provides the shopping cart domain module.
package cart

import (
	"cotizador_backend/internal/cart/handler"
	"cotizador_backend/internal/cart/service"
	"cotizador_backend/internal/cart/store"
	apphttp "cotizador_backend/internal/http"
	"cotizador_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

// Module represents the cart domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	store   *store.Store
}

// NewModule creates a new cart module with all dependencies wired.
func NewModule(client *redis.Client, cfg store.Config, catalog service.EquipmentReader, val *validator.Validator) *Module {
	st := store.New(client, cfg)
	svc := service.New(st, catalog)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		store:   st,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "cart"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
