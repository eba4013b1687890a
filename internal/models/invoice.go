package models

import (
	"fmt"
	"time"

	"github.com/diewo77/invoice-builder/internal/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, like the rest of the API.
	decimal.MarshalJSONWithoutQuotes = true
}

// now is swapped in tests that need a fixed clock.
var now = func() time.Time { return time.Now().UTC() }

// Invoice is the aggregate root: it exclusively owns its line items.
// Amounts are stored as supplied by the caller; see CheckTotals for verification.
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceNumber string    `gorm:"size:50;not null;uniqueIndex" json:"invoiceNumber"`
	InvoiceDate   time.Time `gorm:"not null" json:"invoiceDate"`
	DueDate       time.Time `gorm:"not null" json:"dueDate"`
	Currency      string    `gorm:"size:3;not null" json:"currency"`
	Notes         string    `gorm:"type:text;not null" json:"notes"`

	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customerId"`
	Customer   *Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"customer,omitempty"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"senderId"`
	Sender     *Sender   `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"sender,omitempty"`

	Subtotal    decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"subtotal"`
	TaxRate     decimal.Decimal `gorm:"type:numeric(9,6);not null" json:"taxRate"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"totalAmount"`

	LineItems []LineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"lineItems"`

	// Version is bumped on every update and backs the optional update precondition.
	Version int64 `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time  `gorm:"not null;index" json:"createdAt"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt,omitempty"`
}

// InvoiceDetails groups the scalar fields shared by creation and update.
type InvoiceDetails struct {
	InvoiceDate time.Time
	DueDate     time.Time
	Currency    string
	Notes       string
	CustomerID  uuid.UUID
	SenderID    uuid.UUID
	Subtotal    decimal.Decimal
	TaxRate     decimal.Decimal
	TotalAmount decimal.Decimal
}

// NewInvoice builds an aggregate with a fresh identity and appends every supplied item.
// Totals are taken as given.
func NewInvoice(number string, d InvoiceDetails, items []LineItem) *Invoice {
	inv := &Invoice{
		ID:            uuid.New(),
		InvoiceNumber: number,
		Version:       1,
		CreatedAt:     now(),
	}
	inv.apply(d)
	inv.AddLineItems(items)
	return inv
}

// Update replaces every scalar field and stamps UpdatedAt. Line items are left alone.
func (i *Invoice) Update(d InvoiceDetails) {
	i.apply(d)
	i.Version++
	i.touch()
}

func (i *Invoice) apply(d InvoiceDetails) {
	i.InvoiceDate = d.InvoiceDate
	i.DueDate = d.DueDate
	i.Currency = d.Currency
	i.Notes = d.Notes
	i.CustomerID = d.CustomerID
	i.SenderID = d.SenderID
	i.Subtotal = d.Subtotal
	i.TaxRate = d.TaxRate
	i.TotalAmount = d.TotalAmount
}

func (i *Invoice) touch() {
	t := now()
	i.UpdatedAt = &t
}

// AddLineItem takes ownership of item.
func (i *Invoice) AddLineItem(item LineItem) {
	i.adopt(item)
	i.touch()
}

// AddLineItems takes ownership of every item, preserving order.
func (i *Invoice) AddLineItems(items []LineItem) {
	for _, item := range items {
		i.adopt(item)
	}
	i.touch()
}

func (i *Invoice) adopt(item LineItem) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.InvoiceID = i.ID
	item.Position = len(i.LineItems)
	i.LineItems = append(i.LineItems, item)
}

// RemoveLineItem drops the item with the given id. It reports whether one was removed.
func (i *Invoice) RemoveLineItem(id uuid.UUID) bool {
	for idx, item := range i.LineItems {
		if item.ID != id {
			continue
		}
		i.LineItems = append(i.LineItems[:idx], i.LineItems[idx+1:]...)
		for p := range i.LineItems {
			i.LineItems[p].Position = p
		}
		i.touch()
		return true
	}
	return false
}

// ComputedSubtotal sums quantity * unit price over all line items.
func (i *Invoice) ComputedSubtotal() decimal.Decimal {
	totals := make([]decimal.Decimal, 0, len(i.LineItems))
	for _, item := range i.LineItems {
		totals = append(totals, item.ComputedTotal())
	}
	return money.Sum(totals...)
}

// ComputedTotal is the stored subtotal with tax applied.
func (i *Invoice) ComputedTotal() decimal.Decimal {
	return money.TotalWithTax(i.Subtotal, i.TaxRate, i.Currency)
}

// TaxAmount is the difference between the stored total and subtotal.
func (i *Invoice) TaxAmount() decimal.Decimal {
	return i.TotalAmount.Sub(i.Subtotal)
}

// CheckTotals compares caller-supplied amounts with recomputed ones.
// It returns inconsistent fields keyed by their JSON path; an empty map means consistent.
func (i *Invoice) CheckTotals(tolerance decimal.Decimal) map[string]string {
	out := map[string]string{}
	for idx, item := range i.LineItems {
		if !money.Within(item.Total, item.ComputedTotal(), tolerance) {
			out[fmt.Sprintf("lineItems[%d].total", idx)] = "inconsistent_total"
		}
	}
	if !money.Within(i.Subtotal, i.ComputedSubtotal(), tolerance) {
		out["subtotal"] = "inconsistent_total"
	}
	if !money.Within(i.TotalAmount, i.ComputedTotal(), tolerance) {
		out["totalAmount"] = "inconsistent_total"
	}
	return out
}

// LineItem is a single billed line. It belongs to exactly one invoice.
type LineItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	ItemName  string          `gorm:"size:500;not null" json:"itemName"`
	Quantity  decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"unitPrice"`
	Total     decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"total"`

	// Position keeps caller order stable across reloads.
	Position int `gorm:"not null;default:0" json:"-"`
}

// NewLineItem returns an item with a fresh identity.
func NewLineItem(name string, quantity, unitPrice, total decimal.Decimal) LineItem {
	return LineItem{
		ID:        uuid.New(),
		ItemName:  name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Total:     total,
	}
}

// ComputedTotal calculates quantity * unit price.
func (item *LineItem) ComputedTotal() decimal.Decimal {
	return money.LineTotal(item.Quantity, item.UnitPrice)
}
