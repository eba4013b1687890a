package handlers

import (
	"net/http"

	"github.com/diewo77/invoice-builder/internal/models"
	"github.com/diewo77/invoice-builder/internal/services"
	"github.com/gin-gonic/gin"
)

type senderRequest struct {
	SenderCompanyName string `json:"senderCompanyName" validate:"required,max=255"`
	SenderFullName    string `json:"senderFullName" validate:"required,max=255"`
	SenderAddress     string `json:"senderAddress" validate:"required,max=500"`
	SenderTaxVatID    string `json:"senderTaxVatId" validate:"required,max=50"`
	BankDetails       string `json:"bankDetails" validate:"required,max=500"`
}

func (r senderRequest) profile() models.SenderProfile {
	return models.SenderProfile{
		SenderCompanyName: r.SenderCompanyName,
		SenderFullName:    r.SenderFullName,
		SenderAddress:     r.SenderAddress,
		SenderTaxVatID:    r.SenderTaxVatID,
		BankDetails:       r.BankDetails,
	}
}

type SenderHandler struct {
	svc *services.SenderService
}

func NewSenderHandler(svc *services.SenderService) *SenderHandler {
	return &SenderHandler{svc: svc}
}

func (h *SenderHandler) Create(c *gin.Context) {
	var req senderRequest
	if !bind(c, &req) {
		return
	}
	s, err := h.svc.Create(c.Request.Context(), req.profile())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *SenderHandler) List(c *gin.Context) {
	l, err := h.svc.List(c.Request.Context(), page(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newList(l, identity[models.Sender]))
}

func (h *SenderHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SenderHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req senderRequest
	if !bind(c, &req) {
		return
	}
	s, err := h.svc.Update(c.Request.Context(), id, req.profile())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SenderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
