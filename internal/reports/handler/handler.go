package handler

import (
	"cotizador_backend/internal/reports/service"
	"cotizador_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for reports.
type Handler struct {
	svc *service.Service
}

// New creates a new reports handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the reporting routes for the sales side.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports", httpkit.RequireRole(httpkit.RoleSalesperson, httpkit.RoleAdmin))
	reports.GET("/quotations", h.QuotationSummary)
}

func (h *Handler) QuotationSummary(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	resp, err := h.svc.QuotationSummary(c.Request.Context(), identity.UserID(), identity.Role())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
