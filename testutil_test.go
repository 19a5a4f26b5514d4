package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"rentledger/models"
)

// setupTestDB points the package-global db at a fresh in-memory sqlite
// database (one per test, shared-cache so every pooled connection sees the
// same data), migrates the schema and seeds roles plus the admin account.
func setupTestDB(t *testing.T) {
	t.Helper()
	logger.SetOutput(io.Discard)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db = gdb
	migrateModels(db)

	t.Setenv("UPLOAD_BASE", t.TempDir())
	seedDB()
	jwtSecret = []byte("test-secret")
}

// createTestOwner creates an approved landlord account.
func createTestOwner(t *testing.T, username string) models.User {
	t.Helper()
	var role models.Role
	if err := db.Where("name = ?", roleLandlord).First(&role).Error; err != nil {
		t.Fatalf("landlord role missing: %v", err)
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	rid := role.ID
	user := models.User{Username: username, HashedPassword: hash, RoleID: &rid, Approved: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create owner: %v", err)
	}
	return user
}

// createTestLetting creates a property with one occupied unit and returns the
// unit's tenant. Rent and water bill become the tenant's monthly due.
func createTestLetting(t *testing.T, ownerID uint, rent, water, advance int64) (models.Property, models.Unit, models.Tenant) {
	t.Helper()
	property := models.Property{OwnerID: ownerID, Name: "Lakeview", Address: "12 Lake Rd", TotalUnits: 1}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("create property: %v", err)
	}
	unit := models.Unit{PropertyID: property.ID, OwnerID: ownerID, UnitNumber: "G-1", MonthlyRent: rent}
	if err := db.Create(&unit).Error; err != nil {
		t.Fatalf("create unit: %v", err)
	}
	tenant := models.Tenant{
		UnitID:           unit.ID,
		PropertyID:       property.ID,
		OwnerID:          ownerID,
		Name:             "Asha",
		AdvanceBalance:   advance,
		MonthlyWaterBill: water,
	}
	if err := db.Create(&tenant).Error; err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	if err := db.Model(&unit).Updates(map[string]interface{}{"is_occupied": true, "tenant_id": tenant.ID}).Error; err != nil {
		t.Fatalf("occupy unit: %v", err)
	}
	unit.IsOccupied = true
	unit.TenantID = &tenant.ID
	return property, unit, tenant
}

// createTestDue inserts a due row directly, bypassing StartMonth.
func createTestDue(t *testing.T, u models.Unit, tn models.Tenant, month string, total, paid int64) models.RentPayment {
	t.Helper()
	due := models.RentPayment{
		TenantID:    tn.ID,
		UnitID:      u.ID,
		PropertyID:  u.PropertyID,
		OwnerID:     u.OwnerID,
		Month:       month,
		RentAmount:  total,
		TotalAmount: total,
		PaidAmount:  paid,
		Status:      "pending",
	}
	if err := db.Create(&due).Error; err != nil {
		t.Fatalf("create due: %v", err)
	}
	return due
}
