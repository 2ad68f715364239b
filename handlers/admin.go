package handlers

import (
	"errors"
	"log"
	"net/http"

	"tiffin-api/config"
	"tiffin-api/models"
	"tiffin-api/statemachine"

	"github.com/gin-gonic/gin"
)

// AdminGetAllUsers returns all customer accounts — admin only
func AdminGetAllUsers(c *gin.Context) {
	var users []models.User
	query := config.DB.Omit("password_hash")
	if active := c.Query("active"); active == "true" {
		query = query.Where("is_active = ?", true)
	}
	query.Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// AdminGetAllVendors returns all vendor accounts — admin only
func AdminGetAllVendors(c *gin.Context) {
	var vendors []models.Vendor
	query := config.DB.Omit("password_hash").Preload("MenuItems")
	if status := c.Query("verification_status"); status != "" {
		query = query.Where("verification_status = ?", status)
	}
	query.Find(&vendors)
	c.JSON(http.StatusOK, gin.H{"count": len(vendors), "vendors": vendors})
}

type VerifyVendorRequest struct {
	Status models.VerificationStatus `json:"status" binding:"required,oneof=approved rejected"`
	Note   string                    `json:"note"`
}

// AdminVerifyVendor approves or rejects a pending vendor. Approval activates
// the account and marks it verified.
func AdminVerifyVendor(c *gin.Context) {
	vendorID := c.Param("id")

	var req VerifyVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var vendor models.Vendor
	if err := config.DB.First(&vendor, vendorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
		return
	}

	update := map[string]interface{}{
		"verification_status": req.Status,
		"is_verified":         req.Status == models.VerificationApproved,
		"is_active":           req.Status == models.VerificationApproved,
	}
	if err := config.DB.Model(&vendor).Updates(update).Error; err != nil {
		log.Println("Verify vendor error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vendor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":             "Vendor verification updated",
		"vendor_id":           vendor.ID,
		"verification_status": req.Status,
	})
}

// AdminGetAllOrders returns all orders with filters and a revenue summary
func AdminGetAllOrders(c *gin.Context) {
	var orders []models.Order
	query := config.DB.Preload("Items").Preload("StatusHistory")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if vendorID := c.Query("vendor_id"); vendorID != "" {
		query = query.Where("vendor_id = ?", vendorID)
	}

	query.Order("created_at desc").Find(&orders)

	// Dashboard: aggregate by status, revenue from delivered orders
	summary := map[string]int{}
	var totalRevenue float64
	for _, o := range orders {
		summary[string(o.Status)]++
		if o.Status == models.StatusDelivered {
			totalRevenue += o.TotalAmount
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"total_revenue": totalRevenue,
		"count":         len(orders),
		"orders":        orders,
	})
}

type ForceOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Reason string             `json:"reason"`
}

// AdminForceOrderStatus moves any order through the state machine on behalf
// of the platform. Terminal states still reject further transitions.
func AdminForceOrderStatus(c *gin.Context) {
	orderID := c.Param("id")

	var req ForceOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	prev := order.Status
	var err error
	if req.Status == models.StatusCancelled {
		err = statemachine.Cancel(&order, models.ActorAdmin, req.Reason)
	} else {
		err = statemachine.Apply(&order, req.Status, models.ActorAdmin, "[ADMIN OVERRIDE] "+req.Reason)
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

	if err := saveTransition(config.DB, &order, prev); err != nil {
		if errors.Is(err, errConcurrentUpdate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Order was updated by another request, please retry"})
			return
		}
		log.Println("Force order status error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated by admin",
		"order_id":        order.ID,
		"previous_status": prev,
		"new_status":      order.Status,
	})
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// AdminSetUserActive activates or deactivates a customer account
func AdminSetUserActive(c *gin.Context) {
	userID := c.Param("id")

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err := config.DB.Model(&user).Update("is_active", *req.IsActive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated", "user_id": user.ID, "is_active": *req.IsActive})
}
