package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"rentledger/pkg/ledger"
)

var jwtSecret []byte // loaded from env JWT_SECRET (fallback to dev default)

var logger = logrus.New()

func main() {
	// Auto-load ./.env if present before reading vars; never overwrites
	// variables already set in the environment.
	_ = godotenv.Load()

	logger.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	// Support a lightweight migrate command: `./rentledger migrate`
	// It runs AutoMigrate and seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		fmt.Println("migration and seeding completed")
		return
	}

	initDB()

	// Optional start-of-month job: generates the current month's dues for every
	// landlord shortly after midnight on the 1st. startMonth is idempotent, so a
	// manual trigger racing the job is harmless.
	if os.Getenv("AUTO_START_MONTH") == "true" {
		c := cron.New()
		if _, err := c.AddFunc("10 0 1 * *", func() {
			month := ledger.MonthOf(time.Now())
			if err := autoStartMonthForAllOwners(month); err != nil {
				logger.Errorf("auto start month %s: %v", month, err)
			}
		}); err != nil {
			logger.Fatalf("cron setup: %v", err)
		}
		c.Start()
		logger.Info("auto start-month job scheduled")
	}

	r := gin.Default()

	setupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	logger.Infof("listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		logger.Fatalf("server: %v", err)
	}
}
