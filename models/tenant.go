package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant occupies exactly one unit. AdvanceBalance is the prepaid deposit that
// settlement may draw down; MonthlyWaterBill is the recurring charge
// snapshotted onto each generated due.
type Tenant struct {
	ID               string `gorm:"primaryKey;size:36"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	UnitID           string `gorm:"size:36;uniqueIndex;not null"`
	PropertyID       string `gorm:"size:36;index;not null"`
	OwnerID          uint   `gorm:"index;not null"`
	Name             string `gorm:"size:255;not null"`
	Phone            string `gorm:"size:64"`
	Email            string `gorm:"size:255"`
	AdvanceBalance   int64  `gorm:"not null;default:0"`
	MonthlyWaterBill int64  `gorm:"not null;default:0"`
	LeaseStart       time.Time
	Documents        []Attachment `gorm:"foreignKey:TenantID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
