package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"tiffin-api/config"
	"tiffin-api/middleware"
	"tiffin-api/models"
	"tiffin-api/statemachine"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ── Profile ─────────────────────────────────────────────────────────────────

// GetVendorProfile returns the logged-in vendor's full profile
func GetVendorProfile(c *gin.Context) {
	vendorID := middleware.GetAccountID(c)
	var vendor models.Vendor
	if err := config.DB.Omit("password_hash").
		Preload("MenuItems").Preload("SubscriptionPlans").
		First(&vendor, vendorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendor": vendor})
}

// UpdateVendorProfile updates mutable business fields
func UpdateVendorProfile(c *gin.Context) {
	vendorID := middleware.GetAccountID(c)
	var vendor models.Vendor
	if err := config.DB.First(&vendor, vendorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Only allow safe fields — verification and rating are admin/system owned
	allowed := map[string]bool{
		"name": true, "avatar": true, "business_name": true,
		"business_description": true,
	}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	config.DB.Model(&vendor).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "vendor": vendor})
}

// ── Menu Management ─────────────────────────────────────────────────────────

type MenuItemRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" binding:"required,gt=0"`
	Category        string  `json:"category" binding:"required,oneof=breakfast lunch dinner snacks"`
	CuisineType     string  `json:"cuisine_type"`
	IsVegetarian    *bool   `json:"is_vegetarian"`
	IsVegan         bool    `json:"is_vegan"`
	SpiceLevel      string  `json:"spice_level"`
	PreparationTime int     `json:"preparation_time_minutes"`
}

// AddMenuItem adds a new item to the vendor's menu
func AddMenuItem(c *gin.Context) {
	vendorID := middleware.GetAccountID(c)

	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := models.MenuItem{
		VendorID:        vendorID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Category:        req.Category,
		CuisineType:     req.CuisineType,
		IsVegetarian:    req.IsVegetarian == nil || *req.IsVegetarian,
		IsVegan:         req.IsVegan,
		SpiceLevel:      req.SpiceLevel,
		PreparationTime: req.PreparationTime,
		IsAvailable:     true,
	}
	if item.SpiceLevel == "" {
		item.SpiceLevel = "medium"
	}
	if item.PreparationTime == 0 {
		item.PreparationTime = 30
	}
	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add menu item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

// UpdateMenuItem updates a menu item owned by the vendor
func UpdateMenuItem(c *gin.Context) {
	vendorID := middleware.GetAccountID(c)
	itemID := c.Param("itemId")

	var item models.MenuItem
	if err := config.DB.First(&item, itemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	if item.VendorID != vendorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't own this menu item"})
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	allowed := map[string]bool{
		"name": true, "description": true, "price": true, "category": true,
		"cuisine_type": true, "is_vegetarian": true, "is_vegan": true,
		"spice_level": true, "is_available": true, "preparation_time": true,
	}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	config.DB.Model(&item).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

// DeleteMenuItem removes a menu item owned by the vendor
func DeleteMenuItem(c *gin.Context) {
	vendorID := middleware.GetAccountID(c)
	itemID := c.Param("itemId")

	var item models.MenuItem
	if err := config.DB.First(&item, itemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	if item.VendorID != vendorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't own this menu item"})
		return
	}
	config.DB.Delete(&item)
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

// ── Subscription Plans ──────────────────────────────────────────────────────

type SubscriptionPlanRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Duration      string  `json:"duration" binding:"required,oneof=daily weekly monthly"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	MealsIncluded string  `json:"meals_included"`
}

// AddSubscriptionPlan creates a new plan offering
func AddSubscriptionPlan(c *gin.Context) {
	vendorID := middleware.GetAccountID(c)

	var req SubscriptionPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan := models.SubscriptionPlan{
		VendorID:      vendorID,
		Name:          req.Name,
		Description:   req.Description,
		Duration:      req.Duration,
		Price:         req.Price,
		MealsIncluded: req.MealsIncluded,
		IsActive:      true,
	}
	if err := config.DB.Create(&plan).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create plan"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Subscription plan created", "plan": plan})
}

// UpdateSubscriptionPlan updates a plan owned by the vendor
func UpdateSubscriptionPlan(c *gin.Context) {
	vendorID := middleware.GetAccountID(c)
	planID := c.Param("planId")

	var plan models.SubscriptionPlan
	if err := config.DB.First(&plan, planID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}
	if plan.VendorID != vendorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't own this plan"})
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	allowed := map[string]bool{
		"name": true, "description": true, "duration": true, "price": true,
		"meals_included": true, "is_active": true,
	}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	config.DB.Model(&plan).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Plan updated", "plan": plan})
}

// DeleteSubscriptionPlan removes a plan owned by the vendor
func DeleteSubscriptionPlan(c *gin.Context) {
	vendorID := middleware.GetAccountID(c)
	planID := c.Param("planId")

	var plan models.SubscriptionPlan
	if err := config.DB.First(&plan, planID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}
	if plan.VendorID != vendorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't own this plan"})
		return
	}
	config.DB.Delete(&plan)
	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted"})
}

// ── Order Management ────────────────────────────────────────────────────────

// GetVendorOrders returns all orders for the vendor with a dashboard summary
func GetVendorOrders(c *gin.Context) {
	vendorID := middleware.GetAccountID(c)

	var orders []models.Order
	query := config.DB.Preload("Items").Where("vendor_id = ?", vendorID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Order("created_at desc").Find(&orders)

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// UpdateVendorOrderStatus moves one of the vendor's orders through the state
// machine. Delivered orders update vendor statistics and settle cash payments.
func UpdateVendorOrderStatus(c *gin.Context) {
	vendorID := middleware.GetAccountID(c)
	orderID := c.Param("id")

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.VendorID != vendorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to your kitchen"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prev := order.Status
	var err error
	if req.Status == models.StatusCancelled {
		err = statemachine.Cancel(&order, models.ActorVendor, req.Note)
	} else {
		err = statemachine.Apply(&order, req.Status, models.ActorVendor, req.Note)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    prev,
			"requested":         req.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(prev),
		})
		return
	}
	if req.Note != "" {
		order.VendorNotes = req.Note
	}

	if err := saveTransition(config.DB, &order, prev); err != nil {
		if errors.Is(err, errConcurrentUpdate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Order was updated by another request, please retry"})
			return
		}
		log.Println("Update order status error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	if order.Status == models.StatusDelivered {
		settleDeliveredOrder(&order)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        order.ID,
		"previous_status": prev,
		"current_status":  order.Status,
	})
}

// settleDeliveredOrder updates vendor statistics and completes cash payments
// once an order reaches its terminal delivered state
func settleDeliveredOrder(order *models.Order) {
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Vendor{}).Where("id = ?", order.VendorID).
			Updates(map[string]interface{}{
				"total_orders":   gorm.Expr("total_orders + 1"),
				"total_earnings": gorm.Expr("total_earnings + ?", order.TotalAmount),
			}).Error; err != nil {
			return err
		}
		if order.Payment.Method == "cash" && order.Payment.Status == "pending" {
			now := time.Now()
			// Update by key: saving the loaded struct would re-upsert its
			// freshly appended history entry
			return tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
				"payment_status":      "completed",
				"payment_paid_amount": order.TotalAmount,
				"payment_paid_at":     now,
			}).Error
		}
		return nil
	})
	if err != nil {
		log.Println("Settle delivered order error:", err)
	}
}
