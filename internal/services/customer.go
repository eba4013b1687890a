package services

import (
	"context"
	"errors"

	"github.com/diewo77/invoice-builder/internal/logger"
	"github.com/diewo77/invoice-builder/internal/models"
	"github.com/diewo77/invoice-builder/internal/store"
	"github.com/google/uuid"
)

type CustomerService struct {
	customers CustomerStore
	log       *logger.Logger
}

func NewCustomerService(customers CustomerStore, log *logger.Logger) *CustomerService {
	if log == nil {
		log = logger.Nop()
	}
	return &CustomerService{customers: customers, log: log}
}

func (s *CustomerService) Create(ctx context.Context, p models.CustomerProfile) (*models.Customer, error) {
	c := models.NewCustomer(p)
	if err := s.customers.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("customer created", "customer_id", c.ID)
	return c, nil
}

func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	c, err := s.customers.GetCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, customerNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) List(ctx context.Context, p Page) (*List[models.Customer], error) {
	items, err := s.customers.ListCustomers(ctx, p.Offset, p.Limit)
	if err != nil {
		return nil, err
	}
	total, err := s.customers.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}
	return &List[models.Customer]{Items: items, Offset: p.Offset, Limit: p.Limit, Total: total}, nil
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, p models.CustomerProfile) (*models.Customer, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Update(p)
	if err := s.customers.UpdateCustomer(ctx, c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, customerNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

// Delete refuses to remove a customer that invoices still reference.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.customers.CustomerExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return customerNotFound(id)
	}
	inUse, err := s.customers.CustomerInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return customerInUse(id)
	}
	if err := s.customers.DeleteCustomer(ctx, id); err != nil {
		switch {
		case errors.Is(err, store.ErrReferenced):
			return customerInUse(id)
		case errors.Is(err, store.ErrNotFound):
			return customerNotFound(id)
		}
		return err
	}
	s.log.Info("customer deleted", "customer_id", id)
	return nil
}

func customerNotFound(id uuid.UUID) *Error {
	return NotFound(CodeCustomers, "Customer with id '%s' was not found", id)
}

func customerInUse(id uuid.UUID) *Error {
	return Conflict(CodeCustomersInUse, "Customer with id '%s' is referenced by invoices", id)
}
