package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Property is a building owned by one landlord account. Deleting a property
// cascades through its units, tenants, rent payments and expenses.
type Property struct {
	ID         string `gorm:"primaryKey;size:36"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	OwnerID    uint   `gorm:"index;not null"`
	Name       string `gorm:"size:255;not null"`
	Address    string `gorm:"size:512"`
	TotalUnits int    `gorm:"not null;default:0"`
	Units      []Unit `gorm:"foreignKey:PropertyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
