// Package reports provides quotation reporting for the sales side.
package reports

import (
	apphttp "cotizador_backend/internal/http"
	"cotizador_backend/internal/reports/handler"
	"cotizador_backend/internal/reports/repository"
	"cotizador_backend/internal/reports/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the reports domain module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates a new reports module.
func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	return &Module{handler: handler.New(svc)}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "reports"
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
