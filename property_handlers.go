package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rentledger/models"
)

func createPropertyHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Name       string `json:"name" binding:"required"`
		Address    string `json:"address"`
		TotalUnits int    `json:"total_units"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := models.Property{OwnerID: user.ID, Name: req.Name, Address: req.Address, TotalUnits: req.TotalUnits}
	if err := db.Create(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// listPropertiesHandler lists properties of the authenticated landlord (admin sees all)
func listPropertiesHandler(c *gin.Context) {
	role, _ := c.Get("role")
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var items []models.Property
	q := db.Model(&models.Property{})
	if role != roleAdministrator {
		q = q.Where("owner_id = ?", user.ID)
	}
	if err := q.Order("created_at asc").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func getPropertyHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var p models.Property
	if err := db.Preload("Units").Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).First(&p).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func updatePropertyHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var p models.Property
	if err := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).First(&p).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req struct {
		Name       *string `json:"name"`
		Address    *string `json:"address"`
		TotalUnits *int    `json:"total_units"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch := map[string]interface{}{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Address != nil {
		patch["address"] = *req.Address
	}
	if req.TotalUnits != nil {
		patch["total_units"] = *req.TotalUnits
	}
	if len(patch) > 0 {
		if err := db.Model(&p).Updates(patch).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
	}
	c.JSON(http.StatusOK, p)
}

func deletePropertyHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	if err := deletePropertyCascade(user.ID, c.Param("id")); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "property deleted"})
}

func createUnitHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var p models.Property
	if err := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).First(&p).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		return
	}
	var req struct {
		UnitNumber  string `json:"unit_number" binding:"required"`
		MonthlyRent int64  `json:"monthly_rent" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.MonthlyRent < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "monthly_rent must not be negative"})
		return
	}
	u := models.Unit{PropertyID: p.ID, OwnerID: user.ID, UnitNumber: req.UnitNumber, MonthlyRent: req.MonthlyRent}
	if err := db.Create(&u).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "unit number already exists in this property"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func listUnitsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var units []models.Unit
	if err := db.Where("property_id = ? AND owner_id = ?", c.Param("id"), user.ID).
		Order("unit_number asc").Find(&units).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, units)
}

func updateUnitHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var u models.Unit
	if err := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).First(&u).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req struct {
		UnitNumber  *string `json:"unit_number"`
		MonthlyRent *int64  `json:"monthly_rent"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch := map[string]interface{}{}
	if req.UnitNumber != nil {
		patch["unit_number"] = *req.UnitNumber
	}
	if req.MonthlyRent != nil {
		if *req.MonthlyRent < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "monthly_rent must not be negative"})
			return
		}
		// Changing the rent only affects dues generated after this point;
		// existing dues keep their snapshot.
		patch["monthly_rent"] = *req.MonthlyRent
	}
	if len(patch) > 0 {
		if err := db.Model(&u).Updates(patch).Error; err != nil {
			if isUniqueConstraintError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "unit number already exists in this property"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
	}
	c.JSON(http.StatusOK, u)
}

func deleteUnitHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	if err := deleteUnitCascade(user.ID, c.Param("id")); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unit deleted"})
}
