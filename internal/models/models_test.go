package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixedClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func sampleDetails() InvoiceDetails {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return InvoiceDetails{
		InvoiceDate: day,
		DueDate:     day.AddDate(0, 0, 30),
		Currency:    "EUR",
		Notes:       "Thanks",
		CustomerID:  uuid.New(),
		SenderID:    uuid.New(),
		Subtotal:    dec("20"),
		TaxRate:     dec("0.1"),
		TotalAmount: dec("22"),
	}
}

func TestNewInvoice_AssignsIdentityAndOwnership(t *testing.T) {
	at := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	fixedClock(t, at)

	items := []LineItem{
		{ItemName: "A", Quantity: dec("2"), UnitPrice: dec("10"), Total: dec("20")},
		NewLineItem("B", dec("1"), dec("5"), dec("5")),
	}
	inv := NewInvoice("INV-1", sampleDetails(), items)

	if inv.ID == uuid.Nil {
		t.Fatal("expected invoice id")
	}
	if !inv.CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", inv.CreatedAt, at)
	}
	if inv.Version != 1 {
		t.Errorf("Version = %d, want 1", inv.Version)
	}
	if len(inv.LineItems) != 2 {
		t.Fatalf("expected 2 line items got %d", len(inv.LineItems))
	}
	for i, item := range inv.LineItems {
		if item.ID == uuid.Nil {
			t.Errorf("item %d has no id", i)
		}
		if item.InvoiceID != inv.ID {
			t.Errorf("item %d owned by %s, want %s", i, item.InvoiceID, inv.ID)
		}
		if item.Position != i {
			t.Errorf("item %d position = %d", i, item.Position)
		}
	}
	if !inv.Subtotal.Equal(dec("20")) || !inv.TotalAmount.Equal(dec("22")) {
		t.Errorf("totals were altered: %s / %s", inv.Subtotal, inv.TotalAmount)
	}
}

func TestNewInvoice_TrustsSuppliedTotals(t *testing.T) {
	d := sampleDetails()
	d.Subtotal = dec("999")
	inv := NewInvoice("INV-2", d, []LineItem{NewLineItem("A", dec("1"), dec("1"), dec("1"))})
	if !inv.Subtotal.Equal(dec("999")) {
		t.Errorf("Subtotal = %s, want caller value 999", inv.Subtotal)
	}
}

func TestInvoice_UpdateLeavesLineItems(t *testing.T) {
	inv := NewInvoice("INV-3", sampleDetails(), []LineItem{NewLineItem("A", dec("2"), dec("10"), dec("20"))})
	itemID := inv.LineItems[0].ID

	later := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	fixedClock(t, later)

	d := sampleDetails()
	d.Currency = "USD"
	d.Notes = "updated"
	inv.Update(d)

	if inv.Currency != "USD" || inv.Notes != "updated" {
		t.Errorf("scalars not replaced: %s %s", inv.Currency, inv.Notes)
	}
	if inv.UpdatedAt == nil || !inv.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want %v", inv.UpdatedAt, later)
	}
	if inv.Version != 2 {
		t.Errorf("Version = %d, want 2", inv.Version)
	}
	if len(inv.LineItems) != 1 || inv.LineItems[0].ID != itemID {
		t.Errorf("line items changed by Update")
	}
	if inv.InvoiceNumber != "INV-3" {
		t.Errorf("invoice number changed by Update")
	}
}

func TestInvoice_AddRemoveLineItem(t *testing.T) {
	inv := NewInvoice("INV-4", sampleDetails(), []LineItem{NewLineItem("A", dec("1"), dec("1"), dec("1"))})
	extra := NewLineItem("B", dec("2"), dec("3"), dec("6"))
	inv.AddLineItem(extra)
	if len(inv.LineItems) != 2 || inv.LineItems[1].InvoiceID != inv.ID {
		t.Fatalf("AddLineItem did not take ownership")
	}

	if !inv.RemoveLineItem(inv.LineItems[0].ID) {
		t.Fatal("expected removal")
	}
	if len(inv.LineItems) != 1 || inv.LineItems[0].ID != extra.ID {
		t.Fatalf("wrong item removed")
	}
	if inv.LineItems[0].Position != 0 {
		t.Errorf("positions not compacted: %d", inv.LineItems[0].Position)
	}
	if inv.RemoveLineItem(uuid.New()) {
		t.Error("removing unknown id must report false")
	}
}

func TestInvoice_CheckTotals(t *testing.T) {
	tests := []struct {
		name      string
		items     []LineItem
		subtotal  string
		total     string
		wantField []string
	}{
		{
			name:     "consistent",
			items:    []LineItem{NewLineItem("A", dec("2"), dec("10"), dec("20"))},
			subtotal: "20", total: "22",
		},
		{
			name:      "bad line total",
			items:     []LineItem{NewLineItem("A", dec("2"), dec("10"), dec("25"))},
			subtotal:  "20",
			total:     "22",
			wantField: []string{"lineItems[0].total"},
		},
		{
			name:      "bad subtotal and total",
			items:     []LineItem{NewLineItem("A", dec("2"), dec("10"), dec("20"))},
			subtotal:  "30",
			total:     "22",
			wantField: []string{"subtotal", "totalAmount"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sampleDetails()
			d.Subtotal = dec(tt.subtotal)
			d.TotalAmount = dec(tt.total)
			inv := NewInvoice("X", d, tt.items)
			got := inv.CheckTotals(dec("0.01"))
			if len(got) != len(tt.wantField) {
				t.Fatalf("CheckTotals() = %v, want fields %v", got, tt.wantField)
			}
			for _, f := range tt.wantField {
				if _, ok := got[f]; !ok {
					t.Errorf("missing field %s in %v", f, got)
				}
			}
		})
	}
}

func TestInvoice_TaxAmount(t *testing.T) {
	inv := NewInvoice("INV-5", sampleDetails(), nil)
	if got := inv.TaxAmount(); !got.Equal(dec("2")) {
		t.Errorf("TaxAmount() = %s, want 2", got)
	}
}

func TestInvoice_JSONNumbers(t *testing.T) {
	inv := NewInvoice("INV-6", sampleDetails(), []LineItem{NewLineItem("A", dec("2"), dec("10"), dec("20"))})
	b, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["subtotal"].(float64); !ok {
		t.Errorf("subtotal should be a JSON number, got %T", raw["subtotal"])
	}
	items := raw["lineItems"].([]any)
	first := items[0].(map[string]any)
	if _, leaked := first["invoiceId"]; leaked {
		t.Error("line item must not expose invoice id")
	}
}

func TestCustomer_CreateUpdate(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fixedClock(t, created)
	c := NewCustomer(CustomerProfile{CompanyName: "Acme", CustomerName: "Jane", CustomerAddress: "1 Main St", PostalCode: "75001", CustomerEmail: "jane@acme.test", CustomerTaxVatID: "FR123"})
	if c.ID == uuid.Nil || !c.CreatedAt.Equal(created) {
		t.Fatalf("identity or timestamp missing: %+v", c)
	}
	if c.UpdatedAt != nil {
		t.Errorf("UpdatedAt should be nil before any update")
	}
	id := c.ID

	updated := created.Add(time.Hour)
	fixedClock(t, updated)
	c.Update(CustomerProfile{CompanyName: "Acme 2", CustomerName: "Jane", CustomerEmail: "jane@acme.test"})
	if c.ID != id {
		t.Error("identity must not change on update")
	}
	if c.CompanyName != "Acme 2" || c.UpdatedAt == nil || !c.UpdatedAt.Equal(updated) {
		t.Errorf("update not applied: %+v", c)
	}
}

func TestCustomer_FullAddress(t *testing.T) {
	tests := []struct {
		name   string
		client Customer
		want   string
	}{
		{"full", Customer{CustomerAddress: "123 Main St", PostalCode: "75001"}, "123 Main St\n75001"},
		{"only postal code", Customer{PostalCode: "75001"}, "75001"},
		{"empty", Customer{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.client.FullAddress(); got != tt.want {
				t.Errorf("FullAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSender_CreateUpdate(t *testing.T) {
	s := NewSender(SenderProfile{SenderCompanyName: "Me Ltd", SenderFullName: "John Doe"})
	if s.ID == uuid.Nil || s.CreatedAt.IsZero() {
		t.Fatalf("identity or timestamp missing")
	}
	s.Update(SenderProfile{SenderCompanyName: "Me Ltd", SenderFullName: "John Q. Doe", BankDetails: "IBAN"})
	if s.SenderFullName != "John Q. Doe" || s.BankDetails != "IBAN" || s.UpdatedAt == nil {
		t.Errorf("update not applied: %+v", s)
	}
}
