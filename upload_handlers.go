package main

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"rentledger/models"
	"rentledger/pkg/receiptocr"
)

// uploadFileHandler stores a tenant identity document or an expense receipt.
// Multipart fields: file, kind=document|receipt, tenant_id or expense_id.
// For receipts attached to a zero-amount expense, the amount is backfilled
// from the image via OCR; an OCR miss marks the attachment for review but
// never fails the upload.
func uploadFileHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	kind := c.PostForm("kind")
	if kind != "document" && kind != "receipt" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be document or receipt"})
		return
	}
	att := models.Attachment{OwnerID: user.ID}
	var expense *models.Expense
	switch kind {
	case "document":
		tenantID := c.PostForm("tenant_id")
		var tenant models.Tenant
		if err := db.Where("id = ? AND owner_id = ?", tenantID, user.ID).First(&tenant).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
			return
		}
		att.TenantID = &tenant.ID
	case "receipt":
		expenseID := c.PostForm("expense_id")
		var e models.Expense
		if err := db.Where("id = ? AND owner_id = ?", expenseID, user.ID).First(&e).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "expense not found"})
			return
		}
		expense = &e
		att.ExpenseID = &e.ID
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	att.FileName = file.Filename
	att.ContentType = file.Header.Get("Content-Type")

	baseDir := uploadBaseDir()
	folder := kind + "s"
	relPath := filepath.Join(folder, file.Filename)
	fullPath := filepath.Join(baseDir, relPath)
	if err := os.MkdirAll(filepath.Join(baseDir, folder), 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	att.StorePath = relPath

	if err := db.Create(&att).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}

	// Receipt OCR backfill: only when the expense amount is still unset.
	var extracted *int64
	if expense != nil && expense.Amount == 0 {
		amt, conf, raw, ocrErr := receiptocr.ExtractAmountFromImage(fullPath)
		if ocrErr == nil && amt > 0 && conf >= 0.15 {
			if err := db.Model(expense).Update("amount", amt).Error; err == nil {
				extracted = &amt
				logger.Infof("receipt OCR backfilled expense %s amount=%d raw=%q", expense.ID, amt, raw)
			}
		} else {
			reason := "no amount detected"
			if ocrErr != nil {
				reason = ocrErr.Error()
			}
			db.Model(&att).Updates(map[string]interface{}{"failed": true, "failed_reason": reason})
		}
	}

	resp := gin.H{"id": att.ID, "path": relPath}
	if extracted != nil {
		resp["extracted_amount"] = *extracted
	}
	c.JSON(http.StatusOK, resp)
}

// listUploadsHandler returns attachments; admin sees all, landlord only their own.
func listUploadsHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	q := db.Model(&models.Attachment{})
	if role != roleAdministrator {
		q = q.Where("owner_id = ?", user.ID)
	}
	var items []models.Attachment
	if err := q.Order("created_at desc").Limit(100).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// getUploadHandler returns a single attachment if admin or owner.
func getUploadHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var att models.Attachment
	if err := db.Where("id = ?", c.Param("id")).First(&att).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if role != roleAdministrator && att.OwnerID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, att)
}
