package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"tiffin-api/config"
	"tiffin-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	AccountID uint        `json:"id"`
	Role      models.Role `json:"role"`
	Email     string      `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT embedding account id, role and email.
// Tokens expire after config.TokenValidity (7 days).
func GenerateToken(id uint, role models.Role, email string) (string, error) {
	claims := Claims{
		AccountID: id,
		Role:      role,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(config.TokenValidity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JWTSecret)
}

// Authenticate validates the bearer token, resolves the embedded role to the
// matching account collection, loads the account (without its password hash)
// and attaches it to the request context
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return config.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// Role-keyed dispatch to the right collection
		var isActive bool
		switch claims.Role {
		case models.RoleUser:
			var user models.User
			if err := config.DB.Omit("password_hash").First(&user, claims.AccountID).Error; err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is not valid"})
				c.Abort()
				return
			}
			isActive = user.IsActive
			c.Set("account", &user)
		case models.RoleVendor:
			var vendor models.Vendor
			if err := config.DB.Omit("password_hash").First(&vendor, claims.AccountID).Error; err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is not valid"})
				c.Abort()
				return
			}
			isActive = vendor.IsActive
			c.Set("account", &vendor)
		case models.RoleAdmin, models.RoleSuperAdmin:
			var admin models.Admin
			if err := config.DB.Omit("password_hash").First(&admin, claims.AccountID).Error; err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is not valid"})
				c.Abort()
				return
			}
			isActive = admin.IsActive
			c.Set("account", &admin)
		default:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token role"})
			c.Abort()
			return
		}

		if !isActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is deactivated"})
			c.Abort()
			return
		}

		c.Set("accountID", claims.AccountID)
		c.Set("email", claims.Email)
		c.Set("role", string(claims.Role))
		c.Next()
	}
}

// Authorize enforces that caller has one of the allowed roles
func Authorize(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Access denied. Please login."})
			c.Abort()
			return
		}
		callerRole := models.Role(roleVal.(string))
		for _, r := range roles {
			if callerRole == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
		c.Abort()
	}
}

// AuthorizeOwnerOrAdmin allows the request only when the caller owns the
// customer resource identified by the given path parameter, or is an
// administrator. Accounts live in separate collections with independent
// numeric IDs, so the ownership branch also requires the customer role — a
// vendor or admin whose ID happens to collide is not the owner.
func AuthorizeOwnerOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == models.RoleAdmin || role == models.RoleSuperAdmin {
			c.Next()
			return
		}
		if role == models.RoleUser &&
			c.Param(param) != "" && c.Param(param) == strconv.FormatUint(uint64(GetAccountID(c)), 10) {
			c.Next()
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. You can only access your own resources."})
		c.Abort()
	}
}

// RequireVerifiedVendor enforces that the caller is a vendor whose account
// has been verified and approved by an admin
func RequireVerifiedVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != models.RoleVendor {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. Vendor access required."})
			c.Abort()
			return
		}
		vendor := GetVendor(c)
		if vendor == nil || !vendor.IsVerified || vendor.VerificationStatus != models.VerificationApproved {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. Vendor account not verified."})
			c.Abort()
			return
		}
		c.Next()
	}
}

func rolesString(roles []models.Role) string {
	s := ""
	for i, r := range roles {
		if i > 0 {
			s += ", "
		}
		s += string(r)
	}
	return s
}

// GetAccountID extracts caller account ID from context
func GetAccountID(c *gin.Context) uint {
	val, _ := c.Get("accountID")
	return val.(uint)
}

// GetRole extracts caller role from context
func GetRole(c *gin.Context) models.Role {
	val, _ := c.Get("role")
	return models.Role(val.(string))
}

// GetVendor returns the authenticated vendor account, or nil if the caller
// is not a vendor
func GetVendor(c *gin.Context) *models.Vendor {
	val, exists := c.Get("account")
	if !exists {
		return nil
	}
	vendor, ok := val.(*models.Vendor)
	if !ok {
		return nil
	}
	return vendor
}
