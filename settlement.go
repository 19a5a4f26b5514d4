package main

import (
	"time"

	"gorm.io/gorm"

	"rentledger/models"
	"rentledger/pkg/ledger"
)

// RecordPayment settles an incoming payment against a tenant's open dues,
// oldest month first, optionally drawing from the tenant's advance balance.
//
// Validation happens entirely up front on an in-memory snapshot (ledger.Plan);
// only a fully valid plan is applied, inside one transaction, so readers never
// observe a half-applied settlement. The advance decrement is its own mutation
// on the tenant row, never folded into a due. A zero amount with no draw is a
// successful no-op.
//
// Two RecordPayment calls racing on the same tenant from separate processes
// can both plan against the same snapshot; that double-allocation window is an
// accepted trade-off for a single-landlord deployment and is reconciled
// manually if it ever happens.
func RecordPayment(ownerID uint, tenantID string, amount int64, method string, advanceAmount int64) ([]models.RentPayment, error) {
	var tenant models.Tenant
	if err := db.Where("id = ? AND owner_id = ?", tenantID, ownerID).First(&tenant).Error; err != nil {
		return nil, err
	}

	var dues []models.RentPayment
	if err := db.Where("tenant_id = ? AND paid_amount < total_amount", tenant.ID).
		Order("month asc, id asc").Find(&dues).Error; err != nil {
		return nil, err
	}

	open := make([]ledger.OpenDue, 0, len(dues))
	for _, d := range dues {
		open = append(open, ledger.OpenDue{
			ID:          d.ID,
			Month:       d.Month,
			TotalAmount: d.TotalAmount,
			PaidAmount:  d.PaidAmount,
		})
	}

	now := time.Now()
	plan, err := ledger.Plan(open, amount, advanceAmount, tenant.AdvanceBalance, ledger.MonthOf(now))
	if err != nil {
		return nil, err
	}
	if len(plan.Allocations) == 0 {
		return []models.RentPayment{}, nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, a := range plan.Allocations {
			if err := tx.Model(&models.RentPayment{}).Where("id = ?", a.DueID).
				Updates(map[string]interface{}{
					"paid_amount":    a.NewPaidAmount,
					"status":         string(a.NewStatus),
					"paid_date":      now,
					"payment_method": method,
				}).Error; err != nil {
				return err
			}
		}
		if plan.AdvanceDrawn > 0 {
			if err := tx.Model(&models.Tenant{}).Where("id = ?", tenant.ID).
				Update("advance_balance", gorm.Expr("advance_balance - ?", plan.AdvanceDrawn)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(plan.Allocations))
	for _, a := range plan.Allocations {
		ids = append(ids, a.DueID)
	}
	var affected []models.RentPayment
	if err := db.Where("id IN ?", ids).Order("month asc, id asc").Find(&affected).Error; err != nil {
		return nil, err
	}
	logger.Infof("settled %d on tenant %s across %d dues (advance drawn %d)",
		plan.TotalApplied, tenant.ID, len(affected), plan.AdvanceDrawn)
	return affected, nil
}
