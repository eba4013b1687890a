package services

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/invoice-builder/internal/logger"
	"github.com/diewo77/invoice-builder/internal/models"
	"github.com/diewo77/invoice-builder/internal/money"
	"github.com/diewo77/invoice-builder/internal/pdf"
	"github.com/diewo77/invoice-builder/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemInput is one line of a create request.
type LineItemInput struct {
	ItemName  string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

type CreateInvoiceInput struct {
	InvoiceNumber string
	Details       models.InvoiceDetails
	LineItems     []LineItemInput
}

type UpdateInvoiceInput struct {
	Details models.InvoiceDetails
	// ExpectedVersion, when set, must match the stored version.
	ExpectedVersion *int64
}

// Download is a rendered invoice ready to be sent to the client.
type Download struct {
	Bytes    []byte
	FileName string
}

// InvoiceService enforces the cross-entity rules around invoices.
type InvoiceService struct {
	invoices  InvoiceStore
	customers CustomerStore
	senders   SenderStore
	renderer  Renderer
	log       *logger.Logger

	strictTotals  bool
	tolerance     decimal.Decimal
	renderTimeout time.Duration
	now           func() time.Time
}

type InvoiceOption func(*InvoiceService)

// WithStrictTotals makes Create and Update reject totals that disagree with
// the line items by more than money.DefaultTolerance.
func WithStrictTotals(on bool) InvoiceOption {
	return func(s *InvoiceService) { s.strictTotals = on }
}

func WithLogger(l *logger.Logger) InvoiceOption {
	return func(s *InvoiceService) { s.log = l }
}

// WithRenderTimeout bounds a single PDF rendering.
func WithRenderTimeout(d time.Duration) InvoiceOption {
	return func(s *InvoiceService) { s.renderTimeout = d }
}

func WithClock(now func() time.Time) InvoiceOption {
	return func(s *InvoiceService) { s.now = now }
}

func NewInvoiceService(invoices InvoiceStore, customers CustomerStore, senders SenderStore, renderer Renderer, opts ...InvoiceOption) *InvoiceService {
	s := &InvoiceService{
		invoices:  invoices,
		customers: customers,
		senders:   senders,
		renderer:  renderer,
		log:       logger.Nop(),
		tolerance: money.DefaultTolerance,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create checks the number is free and both parties exist, then persists a new aggregate.
// The unique index on invoice_number closes the gap between the check and the insert.
func (s *InvoiceService) Create(ctx context.Context, in CreateInvoiceInput) (*models.Invoice, error) {
	fields := checkDates(in.Details)
	if len(in.LineItems) == 0 {
		fields["lineItems"] = "required"
	}
	if len(fields) > 0 {
		return nil, Validation(CodeInvoices, "Invoice request is invalid", fields)
	}
	taken, err := s.invoices.InvoiceNumberExists(ctx, in.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, duplicateNumber(in.InvoiceNumber)
	}
	if err := s.checkParties(ctx, in.Details.CustomerID, in.Details.SenderID); err != nil {
		return nil, err
	}

	items := make([]models.LineItem, 0, len(in.LineItems))
	for _, li := range in.LineItems {
		items = append(items, models.NewLineItem(li.ItemName, li.Quantity, li.UnitPrice, li.Total))
	}
	inv := models.NewInvoice(in.InvoiceNumber, in.Details, items)
	if err := s.checkTotals(inv); err != nil {
		return nil, err
	}

	if err := s.invoices.CreateInvoice(ctx, inv); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return nil, duplicateNumber(in.InvoiceNumber)
		case errors.Is(err, store.ErrReferenced):
			return nil, NotFound(CodeInvoices, "Customer with id '%s' or sender with id '%s' was not found", in.Details.CustomerID, in.Details.SenderID)
		}
		return nil, err
	}
	s.log.Info("invoice created", "invoice_id", inv.ID, "invoice_number", inv.InvoiceNumber)
	return s.invoices.GetInvoice(ctx, inv.ID)
}

// Update replaces the scalar fields of an invoice. Line items are kept.
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, in UpdateInvoiceInput) (*models.Invoice, error) {
	if fields := checkDates(in.Details); len(fields) > 0 {
		return nil, Validation(CodeInvoices, "Invoice request is invalid", fields)
	}
	inv, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ExpectedVersion != nil && *in.ExpectedVersion != inv.Version {
		return nil, Conflict(CodeInvoiceVersion, "Invoice with id '%s' is at version %d, not %d", id, inv.Version, *in.ExpectedVersion)
	}
	if err := s.checkParties(ctx, in.Details.CustomerID, in.Details.SenderID); err != nil {
		return nil, err
	}

	inv.Update(in.Details)
	if err := s.checkTotals(inv); err != nil {
		return nil, err
	}

	if err := s.invoices.UpdateInvoice(ctx, inv, in.ExpectedVersion != nil); err != nil {
		switch {
		case errors.Is(err, store.ErrStale):
			return nil, Conflict(CodeInvoiceVersion, "Invoice with id '%s' was modified concurrently", id)
		case errors.Is(err, store.ErrNotFound):
			return nil, invoiceNotFound(id)
		case errors.Is(err, store.ErrReferenced):
			return nil, NotFound(CodeInvoices, "Customer with id '%s' or sender with id '%s' was not found", in.Details.CustomerID, in.Details.SenderID)
		}
		return nil, err
	}
	s.log.Info("invoice updated", "invoice_id", id, "version", inv.Version)
	return s.get(ctx, id)
}

// Delete removes an invoice and its line items.
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.invoices.DeleteInvoice(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return invoiceNotFound(id)
		}
		return err
	}
	s.log.Info("invoice deleted", "invoice_id", id)
	return nil
}

// Get returns the hydrated invoice.
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	return s.get(ctx, id)
}

// List returns a page of invoices, newest first.
func (s *InvoiceService) List(ctx context.Context, p Page) (*List[models.Invoice], error) {
	items, err := s.invoices.ListInvoices(ctx, p.Offset, p.Limit)
	if err != nil {
		return nil, err
	}
	total, err := s.invoices.CountInvoices(ctx)
	if err != nil {
		return nil, err
	}
	return &List[models.Invoice]{Items: items, Offset: p.Offset, Limit: p.Limit, Total: total}, nil
}

// Download renders the invoice to PDF. Rendering failures are logged and
// returned as a rendering error; no partial output is ever returned.
func (s *InvoiceService) Download(ctx context.Context, id uuid.UUID) (*Download, error) {
	inv, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.renderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.renderTimeout)
		defer cancel()
	}
	b, err := s.renderer.Render(ctx, inv)
	if err != nil {
		s.log.Error("invoice rendering failed", "invoice_id", inv.ID, "invoice_number", inv.InvoiceNumber, "error", err)
		return nil, Rendering(CodeInvoiceRender, "Failed to generate PDF for invoice '"+inv.InvoiceNumber+"'", err)
	}
	return &Download{Bytes: b, FileName: pdf.FileName(inv.InvoiceNumber, s.now())}, nil
}

func (s *InvoiceService) get(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	inv, err := s.invoices.GetInvoice(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, invoiceNotFound(id)
		}
		return nil, err
	}
	return inv, nil
}

func (s *InvoiceService) checkParties(ctx context.Context, customerID, senderID uuid.UUID) error {
	ok, err := s.customers.CustomerExists(ctx, customerID)
	if err != nil {
		return err
	}
	if !ok {
		return NotFound(CodeInvoices, "Customer with id '%s' was not found", customerID)
	}
	ok, err = s.senders.SenderExists(ctx, senderID)
	if err != nil {
		return err
	}
	if !ok {
		return NotFound(CodeInvoices, "Sender with id '%s' was not found", senderID)
	}
	return nil
}

func (s *InvoiceService) checkTotals(inv *models.Invoice) error {
	if !s.strictTotals {
		return nil
	}
	if fields := inv.CheckTotals(s.tolerance); len(fields) > 0 {
		return Validation(CodeInvoiceTotals, "Invoice totals do not match its line items", fields)
	}
	return nil
}

// checkDates guards the due date ordering even when callers skip request validation.
func checkDates(d models.InvoiceDetails) map[string]string {
	fields := map[string]string{}
	if d.DueDate.Before(d.InvoiceDate) {
		fields["dueDate"] = "must_be_on_or_after"
	}
	return fields
}

func invoiceNotFound(id uuid.UUID) *Error {
	return NotFound(CodeInvoices, "Invoice with id '%s' was not found", id)
}

func duplicateNumber(number string) *Error {
	return Conflict(CodeInvoices, "Invoice with number '%s' already exists", number)
}
