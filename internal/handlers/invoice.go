package handlers

import (
	"mime"
	"net/http"
	"time"

	"github.com/diewo77/invoice-builder/httpx"
	"github.com/diewo77/invoice-builder/internal/models"
	"github.com/diewo77/invoice-builder/internal/services"
	"github.com/diewo77/invoice-builder/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type lineItemRequest struct {
	ItemName  string          `json:"itemName" validate:"required,max=500"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"gt=0"`
	Total     decimal.Decimal `json:"total" validate:"gt=0"`
}

type createInvoiceRequest struct {
	InvoiceNumber string            `json:"invoiceNumber" validate:"required,max=50"`
	InvoiceDate   string            `json:"invoiceDate" validate:"required,date"`
	DueDate       string            `json:"dueDate" validate:"required,date"`
	Currency      string            `json:"currency" validate:"required,len=3"`
	Notes         string            `json:"notes" validate:"required,max=4000"`
	CustomerID    string            `json:"customerId" validate:"required,uuid"`
	SenderID      string            `json:"senderId" validate:"required,uuid"`
	Subtotal      decimal.Decimal   `json:"subtotal" validate:"gt=0"`
	TaxRate       decimal.Decimal   `json:"taxRate" validate:"gte=0"`
	TotalAmount   decimal.Decimal   `json:"totalAmount" validate:"gt=0"`
	LineItems     []lineItemRequest `json:"lineItems" validate:"min=1,dive"`
}

// updateInvoiceRequest carries the invoice number for parity with create; it is not changed.
type updateInvoiceRequest struct {
	InvoiceNumber   string          `json:"invoiceNumber" validate:"required,max=50"`
	InvoiceDate     string          `json:"invoiceDate" validate:"required,date"`
	DueDate         string          `json:"dueDate" validate:"required,date"`
	Currency        string          `json:"currency" validate:"required,len=3"`
	Notes           string          `json:"notes" validate:"max=4000"`
	CustomerID      string          `json:"customerId" validate:"required,uuid"`
	SenderID        string          `json:"senderId" validate:"required,uuid"`
	Subtotal        decimal.Decimal `json:"subtotal" validate:"gt=0"`
	TaxRate         decimal.Decimal `json:"taxRate" validate:"gte=0"`
	TotalAmount     decimal.Decimal `json:"totalAmount" validate:"gt=0"`
	ExpectedVersion *int64          `json:"expectedVersion" validate:"omitempty,gte=1"`
}

// invoiceFields are the scalars shared by create and update, still in wire form.
type invoiceFields struct {
	InvoiceDate, DueDate string
	Currency, Notes      string
	CustomerID, SenderID string
	Subtotal, TaxRate    decimal.Decimal
	TotalAmount          decimal.Decimal
}

func (r *createInvoiceRequest) fields() invoiceFields {
	return invoiceFields{r.InvoiceDate, r.DueDate, r.Currency, r.Notes, r.CustomerID, r.SenderID, r.Subtotal, r.TaxRate, r.TotalAmount}
}

func (r *updateInvoiceRequest) fields() invoiceFields {
	return invoiceFields{r.InvoiceDate, r.DueDate, r.Currency, r.Notes, r.CustomerID, r.SenderID, r.Subtotal, r.TaxRate, r.TotalAmount}
}

// details converts already validated fields; the date ordering is the only check left.
func (f invoiceFields) details() (models.InvoiceDetails, validation.Violations) {
	v := validation.Violations{}
	invoiceDate, _ := validation.ParseDate(f.InvoiceDate)
	dueDate, _ := validation.ParseDate(f.DueDate)
	validation.OnOrAfter("dueDate", dueDate, invoiceDate, v)
	return models.InvoiceDetails{
		InvoiceDate: invoiceDate,
		DueDate:     dueDate,
		Currency:    f.Currency,
		Notes:       f.Notes,
		CustomerID:  uuid.MustParse(f.CustomerID),
		SenderID:    uuid.MustParse(f.SenderID),
		Subtotal:    f.Subtotal,
		TaxRate:     f.TaxRate,
		TotalAmount: f.TotalAmount,
	}, v
}

// invoiceListItem is the summary row returned by List.
type invoiceListItem struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	InvoiceDate   time.Time       `json:"invoiceDate"`
	DueDate       time.Time       `json:"dueDate"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

func summarize(inv *models.Invoice) invoiceListItem {
	return invoiceListItem{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		TotalAmount:   inv.TotalAmount,
	}
}

type InvoiceHandler struct {
	svc *services.InvoiceService
}

func NewInvoiceHandler(svc *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{svc: svc}
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	var req createInvoiceRequest
	if !bind(c, &req) {
		return
	}
	d, v := req.fields().details()
	if !v.Empty() {
		httpx.ValidationProblem(c.Writer, v)
		return
	}
	items := make([]services.LineItemInput, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		items = append(items, services.LineItemInput{
			ItemName:  li.ItemName,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
			Total:     li.Total,
		})
	}
	inv, err := h.svc.Create(c.Request.Context(), services.CreateInvoiceInput{
		InvoiceNumber: req.InvoiceNumber,
		Details:       d,
		LineItems:     items,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *InvoiceHandler) List(c *gin.Context) {
	l, err := h.svc.List(c.Request.Context(), page(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newList(l, summarize))
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	inv, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateInvoiceRequest
	if !bind(c, &req) {
		return
	}
	d, v := req.fields().details()
	if !v.Empty() {
		httpx.ValidationProblem(c.Writer, v)
		return
	}
	inv, err := h.svc.Update(c.Request.Context(), id, services.UpdateInvoiceInput{
		Details:         d,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
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

// Download streams the rendered PDF as an attachment.
func (h *InvoiceHandler) Download(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	dl, err := h.svc.Download(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", attachment(dl.FileName))
	c.Data(http.StatusOK, "application/pdf", dl.Bytes)
}

// attachment builds the Content-Disposition value; non-ASCII names use the RFC 2231 form.
func attachment(fileName string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": fileName})
}
