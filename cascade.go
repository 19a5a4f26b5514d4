package main

import (
	"gorm.io/gorm"

	"rentledger/models"
)

// Cascade rules, executed leaf-first inside one transaction so a partial
// delete is never visible:
//
//	property -> expenses, rent payments, tenants, units
//	unit     -> rent payments, tenant
//	tenant   -> rent payments, occupancy flip on its unit

func deletePropertyCascade(ownerID uint, propertyID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := tx.Where("id = ? AND owner_id = ?", propertyID, ownerID).First(&property).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", propertyID).Delete(&models.Expense{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", propertyID).Delete(&models.RentPayment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", propertyID).Delete(&models.Tenant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", propertyID).Delete(&models.Unit{}).Error; err != nil {
			return err
		}
		return tx.Delete(&property).Error
	})
}

func deleteUnitCascade(ownerID uint, unitID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var unit models.Unit
		if err := tx.Where("id = ? AND owner_id = ?", unitID, ownerID).First(&unit).Error; err != nil {
			return err
		}
		if err := tx.Where("unit_id = ?", unitID).Delete(&models.RentPayment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("unit_id = ?", unitID).Delete(&models.Tenant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&unit).Error
	})
}

func deleteTenantCascade(ownerID uint, tenantID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var tenant models.Tenant
		if err := tx.Where("id = ? AND owner_id = ?", tenantID, ownerID).First(&tenant).Error; err != nil {
			return err
		}
		if err := tx.Where("tenant_id = ?", tenantID).Delete(&models.RentPayment{}).Error; err != nil {
			return err
		}
		// vacate the unit
		if err := tx.Model(&models.Unit{}).Where("id = ?", tenant.UnitID).
			Updates(map[string]interface{}{"is_occupied": false, "tenant_id": nil}).Error; err != nil {
			return err
		}
		return tx.Delete(&tenant).Error
	})
}
