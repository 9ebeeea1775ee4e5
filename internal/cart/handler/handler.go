package handler

import (
	"net/http"

	"cotizador_backend/internal/cart/service"
	"cotizador_backend/internal/cart/transport"
	"cotizador_backend/platform/apperr"
	"cotizador_backend/platform/httpkit"
	"cotizador_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for the cart.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new cart handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the cart routes. All of them require auth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cart", h.Get)
	rg.POST("/cart/items", h.AddItem)
	rg.PUT("/cart/items/:equipmentId", h.UpdateItem)
	rg.DELETE("/cart", h.Clear)
}

func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	resp, err := h.svc.Get(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) AddItem(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, apperr.CodeValidation, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, apperr.CodeValidation, err.Error())
		return
	}

	resp, err := h.svc.AddItem(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) UpdateItem(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	equipmentID, err := uuid.Parse(c.Param("equipmentId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid equipment id", apperr.CodeValidation, nil)
		return
	}

	var req transport.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, apperr.CodeValidation, nil)
		return
	}

	resp, err := h.svc.UpdateItem(c.Request.Context(), identity.UserID(), equipmentID, req.Quantity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Clear(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.svc.Clear(c.Request.Context(), identity.UserID()); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"cleared": true})
}
