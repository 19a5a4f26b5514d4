package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment is an uploaded file: a tenant identity document or an expense
// receipt. Exactly one of TenantID/ExpenseID is set. Failed uploads are kept
// (not deleted) so the receipt scanner's OCR misses stay reviewable.
type Attachment struct {
	ID           string `gorm:"primaryKey;size:36"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	OwnerID      uint    `gorm:"index;not null"`
	TenantID     *string `gorm:"size:36;index"`
	ExpenseID    *string `gorm:"size:36;index"`
	FileName     string  `gorm:"size:255;not null"`
	StorePath    string  `gorm:"column:store_path;size:512"` // relative path under the upload base
	ContentType  string  `gorm:"size:128"`
	Failed       bool    `gorm:"default:false;index"`
	FailedReason string  `gorm:"size:255"`
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
