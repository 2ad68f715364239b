package routes

import (
	"tiffin-api/handlers"
	"tiffin-api/middleware"
	"tiffin-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Vendors & menus (no auth needed)
		public.GET("/vendors", handlers.ListVendors)
		public.GET("/vendors/:id", handlers.GetVendor)
		public.GET("/vendors/:id/menu", handlers.GetVendorMenu)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Auth routes ────────────────────────────────────────────────
	auth := r.Group("/api/auth")
	{
		auth.POST("/register/user", handlers.RegisterUser)
		auth.POST("/register/vendor", handlers.RegisterVendor)
		auth.POST("/login", handlers.Login)

		auth.GET("/me", middleware.Authenticate(), handlers.Me)
		auth.POST("/change-password", middleware.Authenticate(), handlers.ChangePassword)
		auth.POST("/logout", middleware.Authenticate(), handlers.Logout)
	}

	// ── Profiles (owner or admin) ──────────────────────────────────
	users := r.Group("/api/users")
	users.Use(middleware.Authenticate(), middleware.AuthorizeOwnerOrAdmin("id"))
	{
		users.GET("/:id", handlers.GetUserProfile)
	}

	// ── Customer routes ────────────────────────────────────────────
	orders := r.Group("/api/orders")
	orders.Use(middleware.Authenticate())
	{
		customerOnly := middleware.Authorize(models.RoleUser)
		orders.POST("", customerOnly, handlers.PlaceOrder)
		orders.GET("", customerOnly, handlers.GetMyOrders)
		orders.PUT("/:id/cancel", customerOnly, handlers.CancelOrder)
		orders.POST("/:id/rate", customerOnly, handlers.RateOrder)

		// Order detail is visible to its owner or an admin
		orders.GET("/:id", middleware.Authorize(models.RoleUser, models.RoleAdmin, models.RoleSuperAdmin), handlers.GetOrderDetail)
	}

	// ── Vendor routes ──────────────────────────────────────────────
	vendor := r.Group("/api/vendor")
	vendor.Use(middleware.Authenticate(), middleware.Authorize(models.RoleVendor))
	{
		// Profile
		vendor.GET("/profile", handlers.GetVendorProfile)
		vendor.PUT("/profile", handlers.UpdateVendorProfile)

		// Menu management
		vendor.POST("/menu", handlers.AddMenuItem)
		vendor.PUT("/menu/:itemId", handlers.UpdateMenuItem)
		vendor.DELETE("/menu/:itemId", handlers.DeleteMenuItem)

		// Subscription plans
		vendor.POST("/plans", handlers.AddSubscriptionPlan)
		vendor.PUT("/plans/:planId", handlers.UpdateSubscriptionPlan)
		vendor.DELETE("/plans/:planId", handlers.DeleteSubscriptionPlan)

		// Order management — verified vendors only
		verified := vendor.Group("")
		verified.Use(middleware.RequireVerifiedVendor())
		{
			verified.GET("/orders", handlers.GetVendorOrders)
			verified.PUT("/orders/:id/status", handlers.UpdateVendorOrderStatus)
		}
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.Authenticate(), middleware.Authorize(models.RoleAdmin, models.RoleSuperAdmin))
	{
		admin.GET("/users", handlers.AdminGetAllUsers)
		admin.PUT("/users/:id/active", handlers.AdminSetUserActive)
		admin.GET("/vendors", handlers.AdminGetAllVendors)
		admin.PUT("/vendors/:id/verify", handlers.AdminVerifyVendor)
		admin.GET("/orders", handlers.AdminGetAllOrders)
		admin.PUT("/orders/:id/status", handlers.AdminForceOrderStatus)
	}
}
