package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentledger/models"
	"rentledger/pkg/ledger"
)

func createExpenseHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Month      string  `json:"month" binding:"required"`
		Payee      string  `json:"payee" binding:"required"`
		Amount     int64   `json:"amount"`
		Purpose    string  `json:"purpose"`
		Comment    string  `json:"comment"`
		PropertyID *string `json:"property_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !ledger.ValidMonth(req.Month) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}
	if req.Amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must not be negative"})
		return
	}
	if req.PropertyID != nil {
		var p models.Property
		if err := db.Where("id = ? AND owner_id = ?", *req.PropertyID, user.ID).First(&p).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
			return
		}
	}
	e := models.Expense{
		OwnerID:    user.ID,
		PropertyID: req.PropertyID,
		Month:      req.Month,
		Payee:      req.Payee,
		Amount:     req.Amount,
		Purpose:    req.Purpose,
		Comment:    req.Comment,
	}
	if err := db.Create(&e).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, e)
}

// listExpensesHandler lists expenses, optionally by month (admin sees all owners)
func listExpensesHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	q := db.Model(&models.Expense{})
	if role != roleAdministrator {
		q = q.Where("owner_id = ?", user.ID)
	}
	if month := c.Query("month"); month != "" {
		if !ledger.ValidMonth(month) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
		q = q.Where("month = ?", month)
	}
	var items []models.Expense
	if err := q.Order("month desc, created_at desc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func getExpenseHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var e models.Expense
	if err := db.Preload("Receipt").Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).First(&e).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, e)
}

func updateExpenseHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var e models.Expense
	if err := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).First(&e).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req struct {
		Payee   *string `json:"payee"`
		Amount  *int64  `json:"amount"`
		Purpose *string `json:"purpose"`
		Comment *string `json:"comment"`
		Month   *string `json:"month"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch := map[string]interface{}{}
	if req.Payee != nil {
		patch["payee"] = *req.Payee
	}
	if req.Amount != nil {
		if *req.Amount < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must not be negative"})
			return
		}
		patch["amount"] = *req.Amount
	}
	if req.Purpose != nil {
		patch["purpose"] = *req.Purpose
	}
	if req.Comment != nil {
		patch["comment"] = *req.Comment
	}
	if req.Month != nil {
		if !ledger.ValidMonth(*req.Month) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
		patch["month"] = *req.Month
	}
	if len(patch) > 0 {
		if err := db.Model(&e).Updates(patch).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
	}
	c.JSON(http.StatusOK, e)
}

func deleteExpenseHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var e models.Expense
	if err := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).First(&e).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err := db.Delete(&e).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "expense deleted"})
}
