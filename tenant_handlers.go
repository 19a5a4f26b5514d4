package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rentledger/models"
)

// createTenantHandler moves a tenant into a vacant unit. The tenant row and
// the unit's occupancy flip commit together.
func createTenantHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var unit models.Unit
	if err := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).First(&unit).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unit not found"})
		return
	}
	if unit.IsOccupied {
		c.JSON(http.StatusConflict, gin.H{"error": "unit already occupied"})
		return
	}
	var req struct {
		Name             string `json:"name" binding:"required"`
		Phone            string `json:"phone"`
		Email            string `json:"email"`
		AdvanceBalance   int64  `json:"advance_balance"`
		MonthlyWaterBill int64  `json:"monthly_water_bill"`
		LeaseStart       string `json:"lease_start"` // optional ISO8601
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AdvanceBalance < 0 || req.MonthlyWaterBill < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amounts must not be negative"})
		return
	}
	tenant := models.Tenant{
		UnitID:           unit.ID,
		PropertyID:       unit.PropertyID,
		OwnerID:          user.ID,
		Name:             req.Name,
		Phone:            req.Phone,
		Email:            req.Email,
		AdvanceBalance:   req.AdvanceBalance,
		MonthlyWaterBill: req.MonthlyWaterBill,
		LeaseStart:       time.Now(),
	}
	if req.LeaseStart != "" {
		if t, err := time.Parse(time.RFC3339, req.LeaseStart); err == nil {
			tenant.LeaseStart = t
		}
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}
		return tx.Model(&unit).
			Updates(map[string]interface{}{"is_occupied": true, "tenant_id": tenant.ID}).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "unit already has a tenant"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, tenant)
}

// listTenantsHandler lists tenants of the authenticated landlord (admin sees all)
func listTenantsHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var items []models.Tenant
	q := db.Model(&models.Tenant{})
	if role != roleAdministrator {
		q = q.Where("owner_id = ?", user.ID)
	}
	if err := q.Order("created_at asc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func getTenantHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var tenant models.Tenant
	if err := db.Preload("Documents").Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).First(&tenant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func updateTenantHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var tenant models.Tenant
	if err := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).First(&tenant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req struct {
		Name             *string `json:"name"`
		Phone            *string `json:"phone"`
		Email            *string `json:"email"`
		AdvanceBalance   *int64  `json:"advance_balance"`
		MonthlyWaterBill *int64  `json:"monthly_water_bill"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch := map[string]interface{}{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Phone != nil {
		patch["phone"] = *req.Phone
	}
	if req.Email != nil {
		patch["email"] = *req.Email
	}
	if req.AdvanceBalance != nil {
		if *req.AdvanceBalance < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "advance_balance must not be negative"})
			return
		}
		patch["advance_balance"] = *req.AdvanceBalance
	}
	if req.MonthlyWaterBill != nil {
		if *req.MonthlyWaterBill < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "monthly_water_bill must not be negative"})
			return
		}
		// Affects dues generated after this point; existing dues keep their snapshot.
		patch["monthly_water_bill"] = *req.MonthlyWaterBill
	}
	if len(patch) > 0 {
		if err := db.Model(&tenant).Updates(patch).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
	}
	c.JSON(http.StatusOK, tenant)
}

func deleteTenantHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	if err := deleteTenantCascade(user.ID, c.Param("id")); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tenant deleted"})
}
