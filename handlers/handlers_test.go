package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"tiffin-api/config"
	"tiffin-api/middleware"
	"tiffin-api/models"
	"tiffin-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupRouter wires the full route table against a fresh in-memory database
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	config.DB = db

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func createUser(t *testing.T, email, phone string) (models.User, string) {
	t.Helper()
	user := models.User{
		Name:         "Test User",
		Email:        email,
		Phone:        phone,
		PasswordHash: hashPassword(t, "password123"),
		Role:         models.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, config.DB.Create(&user).Error)
	token, err := middleware.GenerateToken(user.ID, user.Role, user.Email)
	require.NoError(t, err)
	return user, token
}

func createVendor(t *testing.T, email, phone string, approved bool) (models.Vendor, string) {
	t.Helper()
	vendor := models.Vendor{
		Name:         "Test Vendor",
		Email:        email,
		Phone:        phone,
		PasswordHash: hashPassword(t, "password123"),
		Role:         models.RoleVendor,
		BusinessName: "Amma's Kitchen",
		KitchenAddress: models.Address{
			Street: "12 MG Road", City: "Pune", State: "MH", Pincode: "411001",
		},
		IsActive:           true,
		VerificationStatus: models.VerificationPending,
	}
	if approved {
		vendor.IsVerified = true
		vendor.VerificationStatus = models.VerificationApproved
	}
	require.NoError(t, config.DB.Create(&vendor).Error)
	token, err := middleware.GenerateToken(vendor.ID, vendor.Role, vendor.Email)
	require.NoError(t, err)
	return vendor, token
}

func createAdmin(t *testing.T, email, phone string) (models.Admin, string) {
	t.Helper()
	admin := models.Admin{
		Name:         "Test Admin",
		Email:        email,
		Phone:        phone,
		PasswordHash: hashPassword(t, "admin-secret"),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	require.NoError(t, config.DB.Create(&admin).Error)
	token, err := middleware.GenerateToken(admin.ID, admin.Role, admin.Email)
	require.NoError(t, err)
	return admin, token
}

func createMenuItem(t *testing.T, vendorID uint, name string, price float64) models.MenuItem {
	t.Helper()
	item := models.MenuItem{
		VendorID:    vendorID,
		Name:        name,
		Price:       price,
		Category:    "lunch",
		IsAvailable: true,
	}
	require.NoError(t, config.DB.Create(&item).Error)
	return item
}

// doJSON performs a request with an optional bearer token and JSON body and
// returns the recorder plus the decoded response body
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	resp := map[string]interface{}{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func placeOrderBody(vendorID uint, items []map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"vendor_id": vendorID,
		"items":     items,
		"delivery_address": map[string]interface{}{
			"street":  "5 FC Road",
			"city":    "Pune",
			"state":   "MH",
			"pincode": "411004",
		},
		"scheduled_date": "2025-06-01T00:00:00Z",
		"scheduled_time": "12:30",
		"payment_method": "cash",
	}
}
