package handlers

import (
	"net/http"

	"tiffin-api/config"
	"tiffin-api/models"
	"tiffin-api/statemachine"

	"github.com/gin-gonic/gin"
)

// ListVendors returns all approved, active vendors (public)
func ListVendors(c *gin.Context) {
	var vendors []models.Vendor
	query := config.DB.Omit("password_hash").
		Where("is_active = ? AND verification_status = ?", true, models.VerificationApproved)

	if city := c.Query("city"); city != "" {
		query = query.Where("kitchen_city LIKE ?", "%"+city+"%")
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("id IN (?)",
			config.DB.Model(&models.MenuItem{}).Select("vendor_id").Where("category = ?", category))
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("business_name LIKE ?", "%"+search+"%")
	}

	query.Find(&vendors)
	c.JSON(http.StatusOK, gin.H{
		"count":   len(vendors),
		"vendors": vendors,
	})
}

// GetVendor returns a single vendor with menu and plans (public)
func GetVendor(c *gin.Context) {
	var vendor models.Vendor
	if err := config.DB.Omit("password_hash").
		Preload("MenuItems").Preload("SubscriptionPlans").
		First(&vendor, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendor": vendor})
}

// GetVendorMenu returns the menu for a specific vendor (public)
func GetVendorMenu(c *gin.Context) {
	vendorID := c.Param("id")
	var vendor models.Vendor
	if err := config.DB.First(&vendor, vendorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
		return
	}

	var items []models.MenuItem
	query := config.DB.Where("vendor_id = ?", vendorID)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if veg := c.Query("vegetarian"); veg == "true" {
		query = query.Where("is_vegetarian = ?", true)
	}
	query.Find(&items)

	c.JSON(http.StatusOK, gin.H{
		"vendor": vendor.BusinessName,
		"count":  len(items),
		"menu":   items,
	})
}

// GetStateMachineInfo returns the full order state machine for documentation
func GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.AllTransitions(),
		"terminal_states": []models.OrderStatus{models.StatusDelivered, models.StatusCancelled, models.StatusRejected},
		"description":     "Tiffin Order Lifecycle State Machine",
	})
}
