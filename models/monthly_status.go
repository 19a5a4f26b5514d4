package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MonthlyStatus tracks the NotStarted -> Started -> Closed lifecycle of one
// calendar month for one landlord account. A row only exists once the month
// has been started; transitions are never reversed.
type MonthlyStatus struct {
	ID        string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time
	OwnerID   uint   `gorm:"not null;uniqueIndex:idx_owner_month"`
	Month     string `gorm:"size:7;not null;uniqueIndex:idx_owner_month"` // YYYY-MM
	IsStarted bool   `gorm:"default:false"`
	IsClosed  bool   `gorm:"default:false"`
	StartedAt *time.Time
	ClosedAt  *time.Time
}

func (m *MonthlyStatus) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
