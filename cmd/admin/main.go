package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"rentledger/models"
)

func openDB() *gorm.DB {
	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in env")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	return gdb
}

func main() {
	root := &cobra.Command{
		Use:   "admin",
		Short: "administrative tasks for the rent ledger service",
	}
	root.AddCommand(migrateCmd(), createUserCmd(), approveUserCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "run schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb := openDB()
			return gdb.AutoMigrate(
				&models.Role{}, &models.User{}, &models.RefreshToken{},
				&models.Property{}, &models.Unit{}, &models.Tenant{},
				&models.RentPayment{}, &models.Expense{},
				&models.MonthlyStatus{}, &models.Attachment{},
			)
		},
	}
}

func createUserCmd() *cobra.Command {
	var username, password, roleName string
	var approved bool
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "create a user with the given role",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("username and password are required")
			}
			gdb := openDB()

			var role models.Role
			if err := gdb.Where(models.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
				return fmt.Errorf("resolve role %q: %w", roleName, err)
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			rid := role.ID
			user := models.User{
				Username:       username,
				HashedPassword: hash,
				RoleID:         &rid,
				Approved:       approved,
			}
			if err := gdb.Create(&user).Error; err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Printf("created user %s (id=%d role=%s approved=%v)\n", username, user.ID, roleName, approved)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "plaintext password, hashed before storage")
	cmd.Flags().StringVar(&roleName, "role", "landlord", "role name (landlord or administrator)")
	cmd.Flags().BoolVar(&approved, "approved", false, "mark the account approved immediately")
	return cmd
}

func approveUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve-user <username>",
		Short: "approve a pending account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb := openDB()
			res := gdb.Model(&models.User{}).Where("username = ?", args[0]).Update("approved", true)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("no user named %q", args[0])
			}
			fmt.Printf("approved %s\n", args[0])
			return nil
		},
	}
}
