package main

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"rentledger/models"
	"rentledger/pkg/ledger"
)

func TestRecordPaymentOldestMonthFirst(t *testing.T) {
	setupTestDB(t)
	owner := createTestOwner(t, "owner1")
	_, unit, tenant := createTestLetting(t, owner.ID, 1000, 0, 0)

	createTestDue(t, unit, tenant, "2024-01", 1000, 500)
	createTestDue(t, unit, tenant, "2024-02", 1000, 0)

	affected, err := RecordPayment(owner.ID, tenant.ID, 1200, "upi", 0)
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if len(affected) != 2 {
		t.Fatalf("want 2 touched dues, got %d", len(affected))
	}
	if affected[0].Month != "2024-01" || affected[0].PaidAmount != 1000 || affected[0].Status != string(ledger.StatusPaid) {
		t.Fatalf("january not settled first: %+v", affected[0])
	}
	if affected[1].Month != "2024-02" || affected[1].PaidAmount != 700 {
		t.Fatalf("february remainder wrong: %+v", affected[1])
	}
	if affected[1].PaidDate == nil || affected[1].PaymentMethod != "upi" {
		t.Fatalf("payment metadata missing: %+v", affected[1])
	}
}

func TestRecordPaymentConservation(t *testing.T) {
	setupTestDB(t)
	owner := createTestOwner(t, "owner1")
	_, unit, tenant := createTestLetting(t, owner.ID, 1000, 0, 0)

	createTestDue(t, unit, tenant, "2024-01", 1500, 300)
	createTestDue(t, unit, tenant, "2024-02", 800, 0)
	createTestDue(t, unit, tenant, "2024-03", 1200, 0)

	before := sumPaid(t, tenant.ID)
	if _, err := RecordPayment(owner.ID, tenant.ID, 2000, "cash", 0); err != nil {
		t.Fatal(err)
	}
	after := sumPaid(t, tenant.ID)
	if after-before != 2000 {
		t.Fatalf("paid delta %d, want 2000", after-before)
	}

	var dues []models.RentPayment
	db.Where("tenant_id = ?", tenant.ID).Find(&dues)
	for _, d := range dues {
		if d.PaidAmount > d.TotalAmount {
			t.Fatalf("due %s overpaid: %d > %d", d.Month, d.PaidAmount, d.TotalAmount)
		}
	}
}

func TestRecordPaymentWithAdvance(t *testing.T) {
	setupTestDB(t)
	owner := createTestOwner(t, "owner1")
	_, unit, tenant := createTestLetting(t, owner.ID, 10000, 500, 3000)

	createTestDue(t, unit, tenant, "2024-03", 10500, 0)

	// advance request far above the balance: draw clamps to what is held
	// and to what the dues still need.
	affected, err := RecordPayment(owner.ID, tenant.ID, 7500, "bank", 99999)
	if err != nil {
		t.Fatal(err)
	}
	if len(affected) != 1 || affected[0].PaidAmount != 10500 || affected[0].Status != string(ledger.StatusPaid) {
		t.Fatalf("due not fully settled: %+v", affected)
	}

	var fresh models.Tenant
	if err := db.First(&fresh, "id = ?", tenant.ID).Error; err != nil {
		t.Fatal(err)
	}
	if fresh.AdvanceBalance != 0 {
		t.Fatalf("advance balance %d, want 0", fresh.AdvanceBalance)
	}
}

func TestRecordPaymentExceedsOutstanding(t *testing.T) {
	setupTestDB(t)
	owner := createTestOwner(t, "owner1")
	_, unit, tenant := createTestLetting(t, owner.ID, 1000, 0, 0)
	createTestDue(t, unit, tenant, "2024-01", 1000, 0)

	_, err := RecordPayment(owner.ID, tenant.ID, 1001, "cash", 0)
	if !errors.Is(err, ledger.ErrExceedsOutstanding) {
		t.Fatalf("want ErrExceedsOutstanding, got %v", err)
	}
	// nothing may have been applied
	if got := sumPaid(t, tenant.ID); got != 0 {
		t.Fatalf("rejected payment mutated dues: paid=%d", got)
	}
}

func TestRecordPaymentZeroIsNoop(t *testing.T) {
	setupTestDB(t)
	owner := createTestOwner(t, "owner1")
	_, unit, tenant := createTestLetting(t, owner.ID, 1000, 0, 0)
	createTestDue(t, unit, tenant, "2024-01", 1000, 0)

	affected, err := RecordPayment(owner.ID, tenant.ID, 0, "cash", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(affected) != 0 {
		t.Fatalf("zero payment touched %d dues", len(affected))
	}
}

func TestRecordPaymentNegativeAmount(t *testing.T) {
	setupTestDB(t)
	owner := createTestOwner(t, "owner1")
	_, unit, tenant := createTestLetting(t, owner.ID, 1000, 0, 0)
	createTestDue(t, unit, tenant, "2024-01", 1000, 0)

	if _, err := RecordPayment(owner.ID, tenant.ID, -5, "cash", 0); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
}

func TestRecordPaymentScopedToOwner(t *testing.T) {
	setupTestDB(t)
	owner := createTestOwner(t, "owner1")
	other := createTestOwner(t, "owner2")
	_, unit, tenant := createTestLetting(t, owner.ID, 1000, 0, 0)
	createTestDue(t, unit, tenant, "2024-01", 1000, 0)

	_, err := RecordPayment(other.ID, tenant.ID, 500, "cash", 0)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("cross-account payment must fail with record not found, got %v", err)
	}
}

func sumPaid(t *testing.T, tenantID string) int64 {
	t.Helper()
	var total int64
	if err := db.Model(&models.RentPayment{}).Where("tenant_id = ?", tenantID).
		Select("COALESCE(SUM(paid_amount), 0)").Scan(&total).Error; err != nil {
		t.Fatal(err)
	}
	return total
}
