package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Expense is an outgoing cost for a calendar month, optionally tied to a
// property. Amount may be zero at creation when a receipt image is uploaded
// first; the receipt scanner backfills it via OCR.
type Expense struct {
	ID         string `gorm:"primaryKey;size:36"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	OwnerID    uint    `gorm:"index;not null"`
	PropertyID *string `gorm:"size:36;index"`
	Month      string  `gorm:"size:7;index;not null"` // YYYY-MM
	Payee      string  `gorm:"size:255;not null"`
	Amount     int64   `gorm:"not null;default:0"`
	Purpose    string  `gorm:"size:255"`
	Comment    string  `gorm:"size:1024"`
	Receipt    *Attachment `gorm:"foreignKey:ExpenseID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
