package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Unit is one rentable space inside a property. UnitNumber is unique within
// its property, not globally. IsOccupied holds iff a live tenant references
// the unit; tenant create/delete flips it inside the same transaction.
type Unit struct {
	ID          string `gorm:"primaryKey;size:36"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PropertyID  string  `gorm:"size:36;index;not null;uniqueIndex:idx_property_unit_number"`
	OwnerID     uint    `gorm:"index;not null"`
	UnitNumber  string  `gorm:"size:64;not null;uniqueIndex:idx_property_unit_number"`
	MonthlyRent int64   `gorm:"not null"`
	IsOccupied  bool    `gorm:"default:false;index"`
	TenantID    *string `gorm:"size:36;index"` // current tenant, nil while vacant
}

func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
