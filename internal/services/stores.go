package services

import (
	"context"

	"github.com/diewo77/invoice-builder/internal/models"
	"github.com/google/uuid"
)

// InvoiceStore persists invoice aggregates. Implemented by store.Store.
type InvoiceStore interface {
	CreateInvoice(ctx context.Context, inv *models.Invoice) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	InvoiceNumberExists(ctx context.Context, number string) (bool, error)
	ListInvoices(ctx context.Context, offset, limit int) ([]models.Invoice, error)
	CountInvoices(ctx context.Context) (int64, error)
	UpdateInvoice(ctx context.Context, inv *models.Invoice, checkVersion bool) error
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
}

type CustomerStore interface {
	CreateCustomer(ctx context.Context, c *models.Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	CustomerExists(ctx context.Context, id uuid.UUID) (bool, error)
	ListCustomers(ctx context.Context, offset, limit int) ([]models.Customer, error)
	CountCustomers(ctx context.Context) (int64, error)
	UpdateCustomer(ctx context.Context, c *models.Customer) error
	CustomerInUse(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
}

type SenderStore interface {
	CreateSender(ctx context.Context, s *models.Sender) error
	GetSender(ctx context.Context, id uuid.UUID) (*models.Sender, error)
	SenderExists(ctx context.Context, id uuid.UUID) (bool, error)
	ListSenders(ctx context.Context, offset, limit int) ([]models.Sender, error)
	CountSenders(ctx context.Context) (int64, error)
	UpdateSender(ctx context.Context, s *models.Sender) error
	SenderInUse(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteSender(ctx context.Context, id uuid.UUID) error
}

// Renderer turns a hydrated invoice into PDF bytes. Implemented by pdf.Pipeline.
type Renderer interface {
	Render(ctx context.Context, inv *models.Invoice) ([]byte, error)
}
