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
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Flat delivery charge and tax rate applied at checkout
const (
	DefaultDeliveryCharge = 20.0
	TaxRate               = 0.05
)

type PlaceOrderRequest struct {
	VendorID  uint   `json:"vendor_id" binding:"required"`
	OrderType string `json:"order_type"`
	Items     []struct {
		MenuItemID          uint   `json:"menu_item_id" binding:"required"`
		Quantity            int    `json:"quantity" binding:"required,min=1"`
		SpecialInstructions string `json:"special_instructions"`
	} `json:"items" binding:"required,min=1"`
	DeliveryAddress struct {
		Street   string `json:"street" binding:"required"`
		City     string `json:"city" binding:"required"`
		State    string `json:"state" binding:"required"`
		Pincode  string `json:"pincode" binding:"required,len=6,numeric"`
		Landmark string `json:"landmark"`
	} `json:"delivery_address" binding:"required"`
	ScheduledDate       time.Time `json:"scheduled_date" binding:"required"`
	ScheduledTime       string    `json:"scheduled_time" binding:"required"`
	PaymentMethod       string    `json:"payment_method" binding:"required,oneof=cash online wallet"`
	SpecialInstructions string    `json:"special_instructions"`
	DiscountCode        string    `json:"discount_code"`
}

// PlaceOrder creates a new order (customer only)
func PlaceOrder(c *gin.Context) {
	userID := middleware.GetAccountID(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.OrderType == "" {
		req.OrderType = "one-time"
	}

	// Vendor must exist and be approved for business
	var vendor models.Vendor
	if err := config.DB.First(&vendor, req.VendorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
		return
	}
	if !vendor.IsActive || vendor.VerificationStatus != models.VerificationApproved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vendor is not currently accepting orders"})
		return
	}

	// Build line items with snapshot name and price
	var orderItems []models.OrderItem
	for _, reqItem := range req.Items {
		var menuItem models.MenuItem
		if err := config.DB.First(&menuItem, reqItem.MenuItemID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item not found"})
			return
		}
		if menuItem.VendorID != req.VendorID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item does not belong to this vendor"})
			return
		}
		if !menuItem.IsAvailable {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item '" + menuItem.Name + "' is not available"})
			return
		}
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID:          menuItem.ID,
			Name:                menuItem.Name,
			Price:               menuItem.Price,
			Quantity:            reqItem.Quantity,
			SpecialInstructions: reqItem.SpecialInstructions,
		})
	}

	order := models.Order{
		UserID:    userID,
		VendorID:  req.VendorID,
		OrderType: req.OrderType,
		Items:     orderItems,
		DeliveryAddress: models.Address{
			Street:   req.DeliveryAddress.Street,
			City:     req.DeliveryAddress.City,
			State:    req.DeliveryAddress.State,
			Pincode:  req.DeliveryAddress.Pincode,
			Landmark: req.DeliveryAddress.Landmark,
		},
		ScheduledDate:       req.ScheduledDate,
		ScheduledTime:       req.ScheduledTime,
		DeliveryCharge:      DefaultDeliveryCharge,
		Status:              models.StatusPending,
		SpecialInstructions: req.SpecialInstructions,
		Payment: models.Payment{
			Method: req.PaymentMethod,
			Status: "pending",
		},
	}
	if req.PaymentMethod == "online" {
		order.Payment.TransactionID = uuid.NewString()
	}

	order.RecomputeTotal()
	order.Taxes = order.ItemsTotal * TaxRate
	order.RecomputeTotal()

	// Order number is assigned exactly once, at first persistence
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Order{}).Count(&count).Error; err != nil {
			return err
		}
		order.OrderNumber = models.NewOrderNumber(time.Now(), count+1)
		return tx.Create(&order).Error
	})
	if err != nil {
		log.Println("Place order error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetMyOrders returns all orders for the logged-in customer
func GetMyOrders(c *gin.Context) {
	userID := middleware.GetAccountID(c)
	var orders []models.Order
	query := config.DB.Preload("Items").Where("user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Order("created_at desc").Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns a single order's full detail with history. The
// order must belong to the caller unless the caller is an admin.
func GetOrderDetail(c *gin.Context) {
	role := middleware.GetRole(c)
	accountID := middleware.GetAccountID(c)
	orderID := c.Param("id")

	var order models.Order
	if err := config.DB.Preload("Items").Preload("StatusHistory").First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	isAdmin := role == models.RoleAdmin || role == models.RoleSuperAdmin
	if !isAdmin && order.UserID != accountID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder cancels an order while it is still cancellable
func CancelOrder(c *gin.Context) {
	userID := middleware.GetAccountID(c)
	orderID := c.Param("id")

	var req CancelOrderRequest
	c.ShouldBindJSON(&req)

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	prev := order.Status
	if err := statemachine.Cancel(&order, models.ActorUser, req.Reason); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Cannot cancel order",
			"reason":         err.Error(),
			"current_status": prev,
		})
		return
	}
	if order.Payment.Status == "completed" {
		order.Cancellation.RefundAmount = order.Payment.PaidAmount
	}

	if err := saveTransition(config.DB, &order, prev); err != nil {
		if errors.Is(err, errConcurrentUpdate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Order was updated by another request, please retry"})
			return
		}
		log.Println("Cancel order error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Order cancelled successfully",
		"order_id": order.ID,
		"status":   order.Status,
	})
}

type RateOrderRequest struct {
	Food     int    `json:"food" binding:"required,min=1,max=5"`
	Delivery int    `json:"delivery" binding:"required,min=1,max=5"`
	Overall  int    `json:"overall" binding:"required,min=1,max=5"`
	Review   string `json:"review"`
}

// RateOrder records a post-delivery rating and folds the overall score into
// the vendor's running average exactly once
func RateOrder(c *gin.Context) {
	userID := middleware.GetAccountID(c)
	orderID := c.Param("id")

	var req RateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}
	if order.Status != models.StatusDelivered {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only delivered orders can be rated"})
		return
	}
	if order.Rating.Overall != 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order has already been rated"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"rating_food":     req.Food,
			"rating_delivery": req.Delivery,
			"rating_overall":  req.Overall,
			"review":          req.Review,
		}).Error; err != nil {
			return err
		}
		var vendor models.Vendor
		if err := tx.First(&vendor, order.VendorID).Error; err != nil {
			return err
		}
		vendor.FoldRating(float64(req.Overall))
		return tx.Model(&vendor).Updates(map[string]interface{}{
			"rating_average": vendor.RatingAverage,
			"rating_count":   vendor.RatingCount,
		}).Error
	})
	if err != nil {
		log.Println("Rate order error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save rating"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thank you for rating your order"})
}
