// Package quotations provides the quotation lifecycle domain module.
package quotations

import (
	apphttp "cotizador_backend/internal/http"
	"cotizador_backend/internal/quotations/handler"
	"cotizador_backend/internal/quotations/repository"
	"cotizador_backend/internal/quotations/service"
	"cotizador_backend/platform/events"
	"cotizador_backend/platform/logger"
	"cotizador_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the quotations domain module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates a new quotations module with all dependencies wired.
// Cart, catalog and user access come in as narrow ports so the module
// never reaches into another module's internals.
func NewModule(
	pool *pgxpool.Pool,
	cart service.CartAccess,
	catalog service.StockReader,
	users service.UserDirectory,
	bus events.Bus,
	cfg service.Config,
	log *logger.Logger,
	val *validator.Validator,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cart, catalog, users, bus, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "quotations"
}

// Service returns the service layer for external use (sweeper worker).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
