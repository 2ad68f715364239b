package handlers

import (
	"log"
	"net/http"
	"time"

	"tiffin-api/config"
	"tiffin-api/middleware"
	"tiffin-api/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,len=10,numeric"`
	Password string `json:"password" binding:"required,min=6"`
}

type KitchenAddressRequest struct {
	Street   string `json:"street" binding:"required"`
	City     string `json:"city" binding:"required"`
	State    string `json:"state" binding:"required"`
	Pincode  string `json:"pincode" binding:"required,len=6,numeric"`
	Landmark string `json:"landmark"`
}

type RegisterVendorRequest struct {
	Name                string                `json:"name" binding:"required,min=2,max=50"`
	Email               string                `json:"email" binding:"required,email"`
	Phone               string                `json:"phone" binding:"required,len=10,numeric"`
	Password            string                `json:"password" binding:"required,min=6"`
	BusinessName        string                `json:"businessName" binding:"required,min=2,max=100"`
	BusinessDescription string                `json:"businessDescription" binding:"max=500"`
	KitchenAddress      KitchenAddressRequest `json:"kitchenAddress" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"userType"`
}

// RegisterUser creates a new customer account
func RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Email and phone are each globally unique within the collection
	var existing models.User
	if err := config.DB.Where("email = ? OR phone = ?", req.Email, req.Phone).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists with this email or phone number"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		log.Println("User registration error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during registration"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"phone": user.Phone,
			"role":  user.Role,
		},
	})
}

// RegisterVendor creates a new vendor account. Vendors start unverified and
// inactive until an admin approves them.
func RegisterVendor(c *gin.Context) {
	var req RegisterVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Vendor
	if err := config.DB.Where("email = ? OR phone = ?", req.Email, req.Phone).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vendor already exists with this email or phone number"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	vendor := models.Vendor{
		Name:                req.Name,
		Email:               req.Email,
		Phone:               req.Phone,
		PasswordHash:        string(hash),
		Role:                models.RoleVendor,
		BusinessName:        req.BusinessName,
		BusinessDescription: req.BusinessDescription,
		KitchenAddress: models.Address{
			Street:   req.KitchenAddress.Street,
			City:     req.KitchenAddress.City,
			State:    req.KitchenAddress.State,
			Pincode:  req.KitchenAddress.Pincode,
			Landmark: req.KitchenAddress.Landmark,
		},
		VerificationStatus: models.VerificationPending,
	}
	if err := config.DB.Create(&vendor).Error; err != nil {
		log.Println("Vendor registration error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during registration"})
		return
	}

	token, err := middleware.GenerateToken(vendor.ID, vendor.Role, vendor.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Vendor registered successfully. Please wait for admin approval.",
		"token":   token,
		"vendor": gin.H{
			"id":                  vendor.ID,
			"name":                vendor.Name,
			"email":               vendor.Email,
			"phone":               vendor.Phone,
			"business_name":       vendor.BusinessName,
			"role":                vendor.Role,
			"verification_status": vendor.VerificationStatus,
		},
	})
}

// Login authenticates a user, vendor or admin by their declared account type
// and returns a JWT. Admin accounts enforce a lockout policy.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserType == "" {
		req.UserType = "user"
	}

	switch req.UserType {
	case "user":
		loginUser(c, req)
	case "vendor":
		loginVendor(c, req)
	case "admin":
		loginAdmin(c, req)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user type"})
	}
}

func loginUser(c *gin.Context, req LoginRequest) {
	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is deactivated"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"phone": user.Phone,
			"role":  user.Role,
		},
	})
}

func loginVendor(c *gin.Context, req LoginRequest) {
	var vendor models.Vendor
	if err := config.DB.Where("email = ?", req.Email).First(&vendor).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(vendor.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if !vendor.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is deactivated"})
		return
	}

	token, err := middleware.GenerateToken(vendor.ID, vendor.Role, vendor.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":                  vendor.ID,
			"name":                vendor.Name,
			"email":               vendor.Email,
			"phone":               vendor.Phone,
			"role":                vendor.Role,
			"business_name":       vendor.BusinessName,
			"verification_status": vendor.VerificationStatus,
			"is_verified":         vendor.IsVerified,
		},
	})
}

func loginAdmin(c *gin.Context, req LoginRequest) {
	var admin models.Admin
	if err := config.DB.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// Lockout applies regardless of password correctness
	if admin.IsLocked() {
		c.JSON(http.StatusLocked, gin.H{"error": "Account temporarily locked due to too many failed login attempts"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		registerFailedAttempt(&admin)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if !admin.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is deactivated"})
		return
	}

	// Successful login resets the failure counter and records last login
	now := time.Now()
	config.DB.Model(&admin).Updates(map[string]interface{}{
		"login_attempts": 0,
		"locked_until":   nil,
		"last_login":     now,
	})

	token, err := middleware.GenerateToken(admin.ID, admin.Role, admin.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":    admin.ID,
			"name":  admin.Name,
			"email": admin.Email,
			"phone": admin.Phone,
			"role":  admin.Role,
		},
	})
}

// registerFailedAttempt increments the failure counter inside a transaction
// and locks the account once the threshold is reached
func registerFailedAttempt(admin *models.Admin) {
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var fresh models.Admin
		if err := tx.First(&fresh, admin.ID).Error; err != nil {
			return err
		}
		fresh.LoginAttempts++
		if fresh.LoginAttempts >= config.LockoutThreshold {
			until := time.Now().Add(config.LockoutWindow)
			fresh.LockedUntil = &until
			fresh.LoginAttempts = 0
		}
		return tx.Model(&fresh).Updates(map[string]interface{}{
			"login_attempts": fresh.LoginAttempts,
			"locked_until":   fresh.LockedUntil,
		}).Error
	})
	if err != nil {
		log.Println("Failed login bookkeeping error:", err)
	}
}

// Me returns the authenticated account's role-shaped profile
func Me(c *gin.Context) {
	account, _ := c.Get("account")
	switch acc := account.(type) {
	case *models.User:
		c.JSON(http.StatusOK, gin.H{
			"message": "Profile retrieved successfully",
			"user": gin.H{
				"id":             acc.ID,
				"name":           acc.Name,
				"email":          acc.Email,
				"phone":          acc.Phone,
				"role":           acc.Role,
				"avatar":         acc.Avatar,
				"is_active":      acc.IsActive,
				"email_verified": acc.EmailVerified,
				"phone_verified": acc.PhoneVerified,
			},
		})
	case *models.Vendor:
		c.JSON(http.StatusOK, gin.H{
			"message": "Profile retrieved successfully",
			"user": gin.H{
				"id":                   acc.ID,
				"name":                 acc.Name,
				"email":                acc.Email,
				"phone":                acc.Phone,
				"role":                 acc.Role,
				"avatar":               acc.Avatar,
				"is_active":            acc.IsActive,
				"business_name":        acc.BusinessName,
				"business_description": acc.BusinessDescription,
				"verification_status":  acc.VerificationStatus,
				"is_verified":          acc.IsVerified,
				"rating_average":       acc.RatingAverage,
				"rating_count":         acc.RatingCount,
				"total_orders":         acc.TotalOrders,
			},
		})
	case *models.Admin:
		c.JSON(http.StatusOK, gin.H{
			"message": "Profile retrieved successfully",
			"user": gin.H{
				"id":          acc.ID,
				"name":        acc.Name,
				"email":       acc.Email,
				"phone":       acc.Phone,
				"role":        acc.Role,
				"is_active":   acc.IsActive,
				"permissions": acc.Permissions,
				"last_login":  acc.LastLogin,
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}

// GetUserProfile returns one customer's profile. Reachable by the account
// owner or an administrator.
func GetUserProfile(c *gin.Context) {
	var user models.User
	if err := config.DB.Omit("password_hash").First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// ChangePassword verifies the current password before accepting and
// re-hashing the new one
func ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accountID := middleware.GetAccountID(c)
	role := middleware.GetRole(c)

	var currentHash string
	switch role {
	case models.RoleUser:
		var user models.User
		if err := config.DB.First(&user, accountID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		currentHash = user.PasswordHash
	case models.RoleVendor:
		var vendor models.Vendor
		if err := config.DB.First(&vendor, accountID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		currentHash = vendor.PasswordHash
	case models.RoleAdmin, models.RoleSuperAdmin:
		var admin models.Admin
		if err := config.DB.First(&admin, accountID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		currentHash = admin.PasswordHash
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account role"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(req.CurrentPassword)) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	var updateErr error
	switch role {
	case models.RoleUser:
		updateErr = config.DB.Model(&models.User{}).Where("id = ?", accountID).Update("password_hash", string(hash)).Error
	case models.RoleVendor:
		updateErr = config.DB.Model(&models.Vendor{}).Where("id = ?", accountID).Update("password_hash", string(hash)).Error
	default:
		updateErr = config.DB.Model(&models.Admin{}).Where("id = ?", accountID).Update("password_hash", string(hash)).Error
	}
	if updateErr != nil {
		log.Println("Change password error:", updateErr)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// Logout acknowledges a stateless logout. Token removal is handled
// client-side; this endpoint exists for consistency.
func Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
