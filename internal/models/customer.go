package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer is the billed party referenced by invoices.
type Customer struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyName      string     `gorm:"size:255;not null" json:"companyName"`
	CustomerName     string     `gorm:"size:255;not null" json:"customerName"`
	CustomerAddress  string     `gorm:"size:500;not null" json:"customerAddress"`
	PostalCode       string     `gorm:"size:20;not null" json:"postalCode"`
	CustomerEmail    string     `gorm:"size:255;not null" json:"customerEmail"`
	CustomerTaxVatID string     `gorm:"size:50;not null" json:"customerTaxVatId"`
	CreatedAt        time.Time  `gorm:"not null;index" json:"createdAt"`
	UpdatedAt        *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt,omitempty"`
}

// CustomerProfile holds the mutable customer fields.
type CustomerProfile struct {
	CompanyName      string
	CustomerName     string
	CustomerAddress  string
	PostalCode       string
	CustomerEmail    string
	CustomerTaxVatID string
}

// NewCustomer creates a customer with a fresh identity.
func NewCustomer(p CustomerProfile) *Customer {
	c := &Customer{ID: uuid.New(), CreatedAt: now()}
	c.apply(p)
	return c
}

// Update replaces the profile and stamps UpdatedAt.
func (c *Customer) Update(p CustomerProfile) {
	c.apply(p)
	t := now()
	c.UpdatedAt = &t
}

func (c *Customer) apply(p CustomerProfile) {
	c.CompanyName = p.CompanyName
	c.CustomerName = p.CustomerName
	c.CustomerAddress = p.CustomerAddress
	c.PostalCode = p.PostalCode
	c.CustomerEmail = p.CustomerEmail
	c.CustomerTaxVatID = p.CustomerTaxVatID
}

// FullAddress joins the street address and postal code on separate lines.
func (c *Customer) FullAddress() string {
	var parts []string
	if a := strings.TrimSpace(c.CustomerAddress); a != "" {
		parts = append(parts, a)
	}
	if pc := strings.TrimSpace(c.PostalCode); pc != "" {
		parts = append(parts, pc)
	}
	return strings.Join(parts, "\n")
}
