package main

import (
	"testing"

	"rentledger/models"
)

func TestDeletePropertyCascade(t *testing.T) {
	setupTestDB(t)
	owner := createTestOwner(t, "owner1")
	property, unit, tenant := createTestLetting(t, owner.ID, 1000, 0, 0)
	createTestDue(t, unit, tenant, "2024-01", 1000, 0)
	pid := property.ID
	expense := models.Expense{OwnerID: owner.ID, PropertyID: &pid, Month: "2024-01", Payee: "plumber", Amount: 200}
	if err := db.Create(&expense).Error; err != nil {
		t.Fatal(err)
	}

	if err := deletePropertyCascade(owner.ID, property.ID); err != nil {
		t.Fatalf("cascade: %v", err)
	}

	for _, probe := range []struct {
		name  string
		model any
	}{
		{"properties", &models.Property{}},
		{"units", &models.Unit{}},
		{"tenants", &models.Tenant{}},
		{"rent_payments", &models.RentPayment{}},
		{"expenses", &models.Expense{}},
	} {
		var cnt int64
		db.Model(probe.model).Where("owner_id = ?", owner.ID).Count(&cnt)
		if cnt != 0 {
			t.Fatalf("%s left behind after cascade: %d", probe.name, cnt)
		}
	}
}

func TestDeleteTenantVacatesUnit(t *testing.T) {
	setupTestDB(t)
	owner := createTestOwner(t, "owner1")
	_, unit, tenant := createTestLetting(t, owner.ID, 1000, 0, 0)
	createTestDue(t, unit, tenant, "2024-01", 1000, 500)

	if err := deleteTenantCascade(owner.ID, tenant.ID); err != nil {
		t.Fatalf("cascade: %v", err)
	}

	var fresh models.Unit
	if err := db.First(&fresh, "id = ?", unit.ID).Error; err != nil {
		t.Fatal(err)
	}
	if fresh.IsOccupied || fresh.TenantID != nil {
		t.Fatalf("unit still occupied after tenant delete: %+v", fresh)
	}
	var cnt int64
	db.Model(&models.RentPayment{}).Where("tenant_id = ?", tenant.ID).Count(&cnt)
	if cnt != 0 {
		t.Fatalf("tenant's dues survived the delete: %d", cnt)
	}
}

func TestDeleteUnitCascade(t *testing.T) {
	setupTestDB(t)
	owner := createTestOwner(t, "owner1")
	property, unit, tenant := createTestLetting(t, owner.ID, 1000, 0, 0)
	createTestDue(t, unit, tenant, "2024-01", 1000, 0)

	if err := deleteUnitCascade(owner.ID, unit.ID); err != nil {
		t.Fatalf("cascade: %v", err)
	}

	var cnt int64
	db.Model(&models.Unit{}).Where("id = ?", unit.ID).Count(&cnt)
	if cnt != 0 {
		t.Fatal("unit survived")
	}
	db.Model(&models.Tenant{}).Where("id = ?", tenant.ID).Count(&cnt)
	if cnt != 0 {
		t.Fatal("tenant survived")
	}
	// the property itself stays
	db.Model(&models.Property{}).Where("id = ?", property.ID).Count(&cnt)
	if cnt != 1 {
		t.Fatal("property deleted by unit cascade")
	}
}

func TestDeleteCascadeScopedToOwner(t *testing.T) {
	setupTestDB(t)
	owner := createTestOwner(t, "owner1")
	other := createTestOwner(t, "owner2")
	property, _, _ := createTestLetting(t, owner.ID, 1000, 0, 0)

	if err := deletePropertyCascade(other.ID, property.ID); err == nil {
		t.Fatal("cross-account delete must fail")
	}
	var cnt int64
	db.Model(&models.Property{}).Where("id = ?", property.ID).Count(&cnt)
	if cnt != 1 {
		t.Fatal("property deleted across accounts")
	}
}
