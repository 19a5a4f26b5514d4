package main

import (
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"rentledger/models"
)

var db *gorm.DB

const (
	roleAdministrator = "administrator"
	roleLandlord      = "landlord"
)

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		logger.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Fatalf("failed to connect postgres database: %v", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any permission errors will be logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		migrateModels(db)
	}
	seedDB()
}

// migrateModels runs AutoMigrate model by model so a failure on one doesn't
// block the others. Roles go first so the users FK can be applied safely.
func migrateModels(gdb *gorm.DB) {
	for _, m := range []struct {
		name  string
		model any
	}{
		{"roles", &models.Role{}},
		{"users", &models.User{}},
		{"refresh_tokens", &models.RefreshToken{}},
		{"properties", &models.Property{}},
		{"units", &models.Unit{}},
		{"tenants", &models.Tenant{}},
		{"rent_payments", &models.RentPayment{}},
		{"expenses", &models.Expense{}},
		{"monthly_statuses", &models.MonthlyStatus{}},
		{"attachments", &models.Attachment{}},
	} {
		if err := gdb.AutoMigrate(m.model); err != nil {
			logger.Warnf("migration warning (%s): %v", m.name, err)
		}
	}
}

func seedDB() {
	// Ensure master roles exist
	roles := []models.Role{
		{Name: roleAdministrator, Description: "full access"},
		{Name: roleLandlord, Description: "property owner"},
	}
	for _, r := range roles {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}

	// Seed the admin account once; it is pre-approved.
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		var role models.Role
		if err := db.Where("name = ?", roleAdministrator).First(&role).Error; err != nil {
			logger.Warnf("failed to find administrator role: %v", err)
		}
		rid := role.ID
		admin := models.User{Username: "admin", RoleID: &rid, Approved: true}
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin.HashedPassword = hashedPassword
		db.Create(&admin)
		logger.Info("Seeded admin user: username=admin, password=admin123")
	}
	ensureUploadBase()
}

// ensureUploadBase creates the base uploads directory.
func ensureUploadBase() {
	base := uploadBaseDir()
	if err := os.MkdirAll(base, 0755); err != nil {
		logger.Warnf("failed to create upload base dir %s: %v", base, err)
	}
}

// uploadBaseDir returns the base directory for attachment storage (configurable via UPLOAD_BASE env)
func uploadBaseDir() string {
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		return v
	}
	return "uploads"
}
