// Package store persists customers, senders and invoices with gorm.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/invoice-builder/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinel errors. Every error returned by Store wraps one of these when it applies.
var (
	ErrNotFound   = errors.New("store: not found")
	ErrDuplicate  = errors.New("store: duplicate key")
	ErrReferenced = errors.New("store: still referenced")
	ErrStale      = errors.New("store: stale version")
)

// Store is the gorm implementation used by the lifecycle services.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the connection for health checks.
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w: %w", op, ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w: %w", op, ErrReferenced, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func exists(ctx context.Context, db *gorm.DB, model any, query string, args ...any) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(model).Where(query, args...).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func page(db *gorm.DB, offset, limit int) *gorm.DB {
	return db.Order("created_at DESC").Offset(offset).Limit(limit)
}

// ==================== Customers ====================

func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) error {
	return wrap("create customer", s.conn(ctx).Create(c).Error)
}

func (s *Store) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var c models.Customer
	if err := s.conn(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, wrap("get customer", err)
	}
	return &c, nil
}

func (s *Store) CustomerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := exists(ctx, s.db, &models.Customer{}, "id = ?", id)
	return ok, wrap("customer exists", err)
}

func (s *Store) ListCustomers(ctx context.Context, offset, limit int) ([]models.Customer, error) {
	out := []models.Customer{}
	if err := page(s.conn(ctx), offset, limit).Find(&out).Error; err != nil {
		return nil, wrap("list customers", err)
	}
	return out, nil
}

func (s *Store) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Customer{}).Count(&n).Error
	return n, wrap("count customers", err)
}

func (s *Store) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	res := s.conn(ctx).Model(c).Select("*").Omit("id", "created_at").Updates(c)
	if res.Error != nil {
		return wrap("update customer", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("update customer", gorm.ErrRecordNotFound)
	}
	return nil
}

// CustomerInUse reports whether any invoice references the customer.
func (s *Store) CustomerInUse(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := exists(ctx, s.db, &models.Invoice{}, "customer_id = ?", id)
	return ok, wrap("customer in use", err)
}

func (s *Store) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	res := s.conn(ctx).Delete(&models.Customer{}, "id = ?", id)
	if res.Error != nil {
		return wrap("delete customer", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete customer", gorm.ErrRecordNotFound)
	}
	return nil
}

// ==================== Senders ====================

func (s *Store) CreateSender(ctx context.Context, snd *models.Sender) error {
	return wrap("create sender", s.conn(ctx).Create(snd).Error)
}

func (s *Store) GetSender(ctx context.Context, id uuid.UUID) (*models.Sender, error) {
	var snd models.Sender
	if err := s.conn(ctx).First(&snd, "id = ?", id).Error; err != nil {
		return nil, wrap("get sender", err)
	}
	return &snd, nil
}

func (s *Store) SenderExists(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := exists(ctx, s.db, &models.Sender{}, "id = ?", id)
	return ok, wrap("sender exists", err)
}

func (s *Store) ListSenders(ctx context.Context, offset, limit int) ([]models.Sender, error) {
	out := []models.Sender{}
	if err := page(s.conn(ctx), offset, limit).Find(&out).Error; err != nil {
		return nil, wrap("list senders", err)
	}
	return out, nil
}

func (s *Store) CountSenders(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Sender{}).Count(&n).Error
	return n, wrap("count senders", err)
}

func (s *Store) UpdateSender(ctx context.Context, snd *models.Sender) error {
	res := s.conn(ctx).Model(snd).Select("*").Omit("id", "created_at").Updates(snd)
	if res.Error != nil {
		return wrap("update sender", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("update sender", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *Store) SenderInUse(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := exists(ctx, s.db, &models.Invoice{}, "sender_id = ?", id)
	return ok, wrap("sender in use", err)
}

func (s *Store) DeleteSender(ctx context.Context, id uuid.UUID) error {
	res := s.conn(ctx).Delete(&models.Sender{}, "id = ?", id)
	if res.Error != nil {
		return wrap("delete sender", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete sender", gorm.ErrRecordNotFound)
	}
	return nil
}

// ==================== Invoices ====================

// CreateInvoice inserts the invoice and its line items in one transaction.
func (s *Store) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(inv).Error; err != nil {
			return err
		}
		if len(inv.LineItems) == 0 {
			return nil
		}
		return tx.Create(&inv.LineItems).Error
	})
	return wrap("create invoice", err)
}

// GetInvoice loads the hydrated invoice: customer, sender and line items in caller order.
func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.conn(ctx).
		Preload("Customer").
		Preload("Sender").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&inv, "id = ?", id).Error
	if err != nil {
		return nil, wrap("get invoice", err)
	}
	return &inv, nil
}

func (s *Store) InvoiceExists(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := exists(ctx, s.db, &models.Invoice{}, "id = ?", id)
	return ok, wrap("invoice exists", err)
}

func (s *Store) InvoiceNumberExists(ctx context.Context, number string) (bool, error) {
	ok, err := exists(ctx, s.db, &models.Invoice{}, "invoice_number = ?", number)
	return ok, wrap("invoice number exists", err)
}

// ListInvoices returns a page of invoices without relations, newest first.
func (s *Store) ListInvoices(ctx context.Context, offset, limit int) ([]models.Invoice, error) {
	out := []models.Invoice{}
	if err := page(s.conn(ctx), offset, limit).Find(&out).Error; err != nil {
		return nil, wrap("list invoices", err)
	}
	return out, nil
}

func (s *Store) CountInvoices(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Invoice{}).Count(&n).Error
	return n, wrap("count invoices", err)
}

// UpdateInvoice writes the scalar fields of inv. Line items are not touched.
// With checkVersion the row must still carry inv.Version-1, the version the caller read;
// otherwise ErrStale is returned.
func (s *Store) UpdateInvoice(ctx context.Context, inv *models.Invoice, checkVersion bool) error {
	q := s.conn(ctx).Model(&models.Invoice{}).Where("id = ?", inv.ID)
	if checkVersion {
		q = q.Where("version = ?", inv.Version-1)
	}
	res := q.Updates(map[string]any{
		"invoice_date": inv.InvoiceDate,
		"due_date":     inv.DueDate,
		"currency":     inv.Currency,
		"notes":        inv.Notes,
		"customer_id":  inv.CustomerID,
		"sender_id":    inv.SenderID,
		"subtotal":     inv.Subtotal,
		"tax_rate":     inv.TaxRate,
		"total_amount": inv.TotalAmount,
		"updated_at":   inv.UpdatedAt,
		"version":      gorm.Expr("version + 1"),
	})
	if res.Error != nil {
		return wrap("update invoice", res.Error)
	}
	if res.RowsAffected == 0 {
		if checkVersion {
			if ok, _ := s.InvoiceExists(ctx, inv.ID); ok {
				return fmt.Errorf("update invoice: %w", ErrStale)
			}
		}
		return wrap("update invoice", gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteInvoice removes the invoice and its line items atomically.
func (s *Store) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Invoice{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return wrap("delete invoice", err)
}
