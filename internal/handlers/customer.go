package handlers

import (
	"net/http"

	"github.com/diewo77/invoice-builder/internal/models"
	"github.com/diewo77/invoice-builder/internal/services"
	"github.com/gin-gonic/gin"
)

type customerRequest struct {
	CompanyName      string `json:"companyName" validate:"required,max=255"`
	CustomerName     string `json:"customerName" validate:"required,max=255"`
	CustomerAddress  string `json:"customerAddress" validate:"required,max=500"`
	PostalCode       string `json:"postalCode" validate:"required,max=20"`
	CustomerEmail    string `json:"customerEmail" validate:"required,email,max=255"`
	CustomerTaxVatID string `json:"customerTaxVatId" validate:"required,max=50"`
}

func (r customerRequest) profile() models.CustomerProfile {
	return models.CustomerProfile{
		CompanyName:      r.CompanyName,
		CustomerName:     r.CustomerName,
		CustomerAddress:  r.CustomerAddress,
		PostalCode:       r.PostalCode,
		CustomerEmail:    r.CustomerEmail,
		CustomerTaxVatID: r.CustomerTaxVatID,
	}
}

type CustomerHandler struct {
	svc *services.CustomerService
}

func NewCustomerHandler(svc *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerRequest
	if !bind(c, &req) {
		return
	}
	cust, err := h.svc.Create(c.Request.Context(), req.profile())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cust)
}

func (h *CustomerHandler) List(c *gin.Context) {
	l, err := h.svc.List(c.Request.Context(), page(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newList(l, identity[models.Customer]))
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cust, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req customerRequest
	if !bind(c, &req) {
		return
	}
	cust, err := h.svc.Update(c.Request.Context(), id, req.profile())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) Delete(c *gin.Context) {
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
