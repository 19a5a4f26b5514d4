package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RentPayment is one tenant's rent+water obligation for one calendar month,
// a "due". RentAmount and WaterBill are snapshots taken when the month is
// started, never recomputed. Status is a cache of the derivation rule; readers
// must re-derive it because overdue-ness is time-relative.
type RentPayment struct {
	ID            string `gorm:"primaryKey;size:36"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	TenantID      string     `gorm:"size:36;index;not null;uniqueIndex:idx_tenant_month"`
	UnitID        string     `gorm:"size:36;index;not null"`
	PropertyID    string     `gorm:"size:36;index;not null"`
	OwnerID       uint       `gorm:"index;not null"`
	Month         string     `gorm:"size:7;index;not null;uniqueIndex:idx_tenant_month"` // YYYY-MM
	RentAmount    int64      `gorm:"not null"`
	WaterBill     int64      `gorm:"not null;default:0"`
	TotalAmount   int64      `gorm:"not null"`
	PaidAmount    int64      `gorm:"not null;default:0"`
	PaidDate      *time.Time
	PaymentMethod string `gorm:"size:32"`
	Status        string `gorm:"size:16;not null;default:'pending'"`
}

func (p *RentPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
