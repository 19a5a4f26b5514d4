package main

import (
	"time"

	"gorm.io/gorm"

	"rentledger/models"
	"rentledger/pkg/ledger"
)

// StartMonth generates one due per occupied unit for the given month and marks
// the month started. Idempotent: a started (or closed) month is a no-op, and a
// tenant who already has a due for the month is skipped, so re-running never
// duplicates dues. Rent and water bill are snapshotted at this instant.
func StartMonth(ownerID uint, month string) (*models.MonthlyStatus, error) {
	if !ledger.ValidMonth(month) {
		return nil, ledger.ErrInvalidMonth
	}

	var status models.MonthlyStatus
	err := db.Where("owner_id = ? AND month = ?", ownerID, month).First(&status).Error
	if err == nil && status.IsStarted {
		return &status, nil
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	asOf := ledger.MonthOf(time.Now())
	err = db.Transaction(func(tx *gorm.DB) error {
		var units []models.Unit
		if err := tx.Where("owner_id = ? AND is_occupied = ? AND tenant_id IS NOT NULL", ownerID, true).
			Find(&units).Error; err != nil {
			return err
		}
		for _, u := range units {
			var tenant models.Tenant
			if err := tx.Where("id = ?", *u.TenantID).First(&tenant).Error; err != nil {
				// occupancy flag out of sync with tenants; skip rather than abort
				logger.Warnf("unit %s marked occupied but tenant %s missing", u.ID, *u.TenantID)
				continue
			}
			var cnt int64
			if err := tx.Model(&models.RentPayment{}).
				Where("tenant_id = ? AND month = ?", tenant.ID, month).Count(&cnt).Error; err != nil {
				return err
			}
			if cnt > 0 {
				continue
			}
			due := models.RentPayment{
				TenantID:    tenant.ID,
				UnitID:      u.ID,
				PropertyID:  u.PropertyID,
				OwnerID:     ownerID,
				Month:       month,
				RentAmount:  u.MonthlyRent,
				WaterBill:   tenant.MonthlyWaterBill,
				TotalAmount: u.MonthlyRent + tenant.MonthlyWaterBill,
				PaidAmount:  0,
				Status:      string(ledger.Derive(0, u.MonthlyRent+tenant.MonthlyWaterBill, month, asOf)),
			}
			if err := tx.Create(&due).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		if status.ID == "" {
			status = models.MonthlyStatus{OwnerID: ownerID, Month: month}
			if err := tx.Create(&status).Error; err != nil {
				return err
			}
		}
		status.IsStarted = true
		status.StartedAt = &now
		return tx.Model(&status).Updates(map[string]interface{}{"is_started": true, "started_at": now}).Error
	})
	if err != nil {
		return nil, err
	}
	logger.Infof("month %s started for owner %d", month, ownerID)
	return &status, nil
}

// CloseMonth marks a started month closed. It fails with ErrUnresolvedDues
// while any due of that month is effectively unpaid (derived now, not read
// from the stored status snapshot). Closing is irreversible; an already
// closed month is a no-op. Closing does not freeze the month's dues; late
// payments against a closed month remain possible.
func CloseMonth(ownerID uint, month string) (*models.MonthlyStatus, error) {
	if !ledger.ValidMonth(month) {
		return nil, ledger.ErrInvalidMonth
	}

	var status models.MonthlyStatus
	if err := db.Where("owner_id = ? AND month = ?", ownerID, month).First(&status).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ledger.ErrMonthNotStarted
		}
		return nil, err
	}
	if !status.IsStarted {
		return nil, ledger.ErrMonthNotStarted
	}
	if status.IsClosed {
		return &status, nil
	}

	var dues []models.RentPayment
	if err := db.Where("owner_id = ? AND month = ?", ownerID, month).Find(&dues).Error; err != nil {
		return nil, err
	}
	asOf := ledger.MonthOf(time.Now())
	for _, d := range dues {
		if ledger.Derive(d.PaidAmount, d.TotalAmount, d.Month, asOf) != ledger.StatusPaid {
			return nil, ledger.ErrUnresolvedDues
		}
	}

	now := time.Now()
	if err := db.Model(&status).Updates(map[string]interface{}{"is_closed": true, "closed_at": now}).Error; err != nil {
		return nil, err
	}
	status.IsClosed = true
	status.ClosedAt = &now
	logger.Infof("month %s closed for owner %d", month, ownerID)
	return &status, nil
}

// autoStartMonthForAllOwners runs StartMonth for every account that owns at
// least one property. Used by the cron job on the 1st of the month.
func autoStartMonthForAllOwners(month string) error {
	var ownerIDs []uint
	if err := db.Model(&models.Property{}).Distinct("owner_id").Pluck("owner_id", &ownerIDs).Error; err != nil {
		return err
	}
	for _, id := range ownerIDs {
		if _, err := StartMonth(id, month); err != nil {
			logger.Errorf("auto start month %s for owner %d: %v", month, id, err)
		}
	}
	return nil
}
