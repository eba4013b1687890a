package services

import (
	"context"
	"testing"
	"time"

	"github.com/diewo77/invoice-builder/internal/db"
	"github.com/diewo77/invoice-builder/internal/models"
	"github.com/diewo77/invoice-builder/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	conn, err := db.OpenSQLite(db.SQLiteDSN("memory:"+t.Name()), false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return store.New(conn)
}

type fakeRenderer struct {
	out   []byte
	err   error
	calls int
}

func (f *fakeRenderer) Render(ctx context.Context, inv *models.Invoice) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

type fixture struct {
	store    *store.Store
	invoices *InvoiceService
	customer *models.Customer
	sender   *models.Sender
	renderer *fakeRenderer
}

func newFixture(t *testing.T, opts ...InvoiceOption) *fixture {
	t.Helper()
	st := newTestStore(t)
	ctx := context.Background()
	customers := NewCustomerService(st, nil)
	senders := NewSenderService(st, nil)
	c, err := customers.Create(ctx, models.CustomerProfile{CompanyName: "Acme", CustomerName: "Jane", CustomerEmail: "jane@acme.test"})
	require.NoError(t, err)
	snd, err := senders.Create(ctx, models.SenderProfile{SenderCompanyName: "Me Ltd", SenderFullName: "John Doe"})
	require.NoError(t, err)
	r := &fakeRenderer{out: []byte("%PDF-1.7")}
	return &fixture{
		store:    st,
		invoices: NewInvoiceService(st, st, st, r, opts...),
		customer: c,
		sender:   snd,
		renderer: r,
	}
}

func (f *fixture) details() models.InvoiceDetails {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return models.InvoiceDetails{
		InvoiceDate: day,
		DueDate:     day.AddDate(0, 0, 30),
		Currency:    "EUR",
		Notes:       "Thanks",
		CustomerID:  f.customer.ID,
		SenderID:    f.sender.ID,
		Subtotal:    dec("20"),
		TaxRate:     dec("0.1"),
		TotalAmount: dec("22"),
	}
}

func (f *fixture) createInput(number string) CreateInvoiceInput {
	return CreateInvoiceInput{
		InvoiceNumber: number,
		Details:       f.details(),
		LineItems:     []LineItemInput{{ItemName: "A", Quantity: dec("2"), UnitPrice: dec("10"), Total: dec("20")}},
	}
}
