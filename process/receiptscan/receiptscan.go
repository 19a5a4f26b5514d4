package receiptscan

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"rentledger/models"
	"rentledger/pkg/receiptocr"
)

func mustDBFromEnv() *gorm.DB {
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

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Run scans dir for receipt images, performs OCR and backfills the amount on
// zero-amount expenses whose receipt attachment matches the file name.
// If dry is true, only prints proposed changes.
func Run(dir string, dry bool, minConf float64) error {
	gdb := mustDBFromEnv()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		processFile(gdb, filepath.Join(dir, e.Name()), dry, minConf)
	}
	return nil
}

// Watch blocks, watching dir for newly landed receipt files and processing
// each one. A short settle delay lets the writer finish before OCR reads the
// file.
func Watch(dir string, minConf float64) error {
	gdb := mustDBFromEnv()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Printf("watching %s for receipts", dir)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			processFile(gdb, ev.Name, false, minConf)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

func processFile(gdb *gorm.DB, full string, dry bool, minConf float64) {
	name := filepath.Base(full)
	if !imageExts[strings.ToLower(filepath.Ext(name))] {
		return
	}

	var att models.Attachment
	if err := gdb.Where("file_name = ?", name).First(&att).Error; err != nil {
		log.Printf("no attachment record for %s: %v", name, err)
		return
	}
	if att.ExpenseID == nil {
		return // tenant document, nothing to backfill
	}
	var expense models.Expense
	if err := gdb.First(&expense, "id = ?", *att.ExpenseID).Error; err != nil {
		log.Printf("expense %s missing for %s: %v", *att.ExpenseID, name, err)
		return
	}
	if expense.Amount != 0 {
		return
	}

	amt, conf, raw, err := receiptocr.ExtractAmountFromImage(full)
	if err != nil || amt <= 0 || conf < minConf {
		log.Printf("ocr skipped %s amt=%d conf=%.2f (min=%.2f) err=%v", name, amt, conf, minConf, err)
		if !dry {
			reason := "no amount detected"
			if err != nil {
				reason = err.Error()
			}
			gdb.Model(&att).Updates(map[string]interface{}{"failed": true, "failed_reason": reason})
		}
		return
	}

	if dry {
		log.Printf("[dry] would set expense %s amount=%d (raw=%q conf=%.2f)", expense.ID, amt, raw, conf)
		return
	}
	if err := gdb.Model(&expense).Update("amount", amt).Error; err != nil {
		log.Printf("update expense %s: %v", expense.ID, err)
		return
	}
	gdb.Model(&att).Updates(map[string]interface{}{"failed": false, "failed_reason": ""})
	log.Printf("backfilled expense %s amount=%d from %s (conf=%.2f)", expense.ID, amt, name, conf)
}
