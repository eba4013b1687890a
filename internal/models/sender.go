package models

import (
	"time"

	"github.com/google/uuid"
)

// Sender is the issuing party; its full name appears in the PDF signature stamp.
type Sender struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SenderCompanyName string     `gorm:"size:255;not null" json:"senderCompanyName"`
	SenderFullName    string     `gorm:"size:255;not null" json:"senderFullName"`
	SenderAddress     string     `gorm:"size:500;not null" json:"senderAddress"`
	SenderTaxVatID    string     `gorm:"size:50;not null" json:"senderTaxVatId"`
	BankDetails       string     `gorm:"size:500;not null" json:"bankDetails"`
	CreatedAt         time.Time  `gorm:"not null;index" json:"createdAt"`
	UpdatedAt         *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt,omitempty"`
}

type SenderProfile struct {
	SenderCompanyName string
	SenderFullName    string
	SenderAddress     string
	SenderTaxVatID    string
	BankDetails       string
}

func NewSender(p SenderProfile) *Sender {
	s := &Sender{ID: uuid.New(), CreatedAt: now()}
	s.apply(p)
	return s
}

// Update replaces the profile and stamps UpdatedAt.
func (s *Sender) Update(p SenderProfile) {
	s.apply(p)
	t := now()
	s.UpdatedAt = &t
}

func (s *Sender) apply(p SenderProfile) {
	s.SenderCompanyName = p.SenderCompanyName
	s.SenderFullName = p.SenderFullName
	s.SenderAddress = p.SenderAddress
	s.SenderTaxVatID = p.SenderTaxVatID
	s.BankDetails = p.BankDetails
}
