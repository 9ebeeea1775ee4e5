package handler

import (
	"net/http"

	"cotizador_backend/internal/quotations/service"
	"cotizador_backend/internal/quotations/transport"
	"cotizador_backend/platform/apperr"
	"cotizador_backend/platform/httpkit"
	"cotizador_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid quotation id"
)

// qrSize is the pixel width of generated QR codes.
const qrSize = 256

// Handler handles HTTP requests for quotations.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new quotations handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the quotation routes. All of them require auth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/quotations", h.Create)
	rg.GET("/quotations", h.List)
	rg.GET("/quotations/:id", h.Get)
	rg.GET("/quotations/:id/qr", h.QRCode)
	rg.POST("/quotations/:id/transition", h.Transition)
	rg.DELETE("/quotations/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, apperr.CodeValidation, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, apperr.CodeValidation, err.Error())
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), identity.UserID(), identity.Role(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}

func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.ListQuotationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, apperr.CodeValidation, nil)
		return
	}

	resp, err := h.svc.List(c.Request.Context(), identity.UserID(), identity.Role(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, apperr.CodeValidation, nil)
		return
	}

	resp, err := h.svc.Get(c.Request.Context(), identity.UserID(), identity.Role(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// QRCode renders the quotation number as a PNG QR image, useful on
// printed copies to jump back to the live quotation.
func (h *Handler) QRCode(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, apperr.CodeValidation, nil)
		return
	}

	q, err := h.svc.Get(c.Request.Context(), identity.UserID(), identity.Role(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	png, err := qrcode.Encode(q.Number, qrcode.Medium, qrSize)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) Transition(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, apperr.CodeValidation, nil)
		return
	}

	var req transport.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, apperr.CodeValidation, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, apperr.CodeValidation, err.Error())
		return
	}

	resp, err := h.svc.Transition(c.Request.Context(), identity.UserID(), identity.Role(), id, req.State)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, apperr.CodeValidation, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), identity.UserID(), identity.Role(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"deleted": true})
}
