package handlers_test

import (
	"net/http"
	"testing"

	"tiffin-api/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListVendorsShowsOnlyApproved(t *testing.T) {
	r := setupRouter(t)
	createVendor(t, "approved@example.com", "9000000001", true)
	createVendor(t, "pending@example.com", "9000000002", false)

	w, resp := doJSON(t, r, http.MethodGet, "/api/vendors", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, resp["count"])
}

func TestListVendorsCategoryFilter(t *testing.T) {
	r := setupRouter(t)
	breakfastVendor, _ := createVendor(t, "idli@example.com", "9000000001", true)
	lunchVendor, _ := createVendor(t, "thali@example.com", "9000000002", true)

	idli := createMenuItem(t, breakfastVendor.ID, "Idli Sambar", 60)
	require.NoError(t, config.DB.Model(&idli).Update("category", "breakfast").Error)
	createMenuItem(t, lunchVendor.ID, "Thali", 100) // fixture default: lunch

	w, resp := doJSON(t, r, http.MethodGet, "/api/vendors?category=breakfast", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1.0, resp["count"])
	vendors := resp["vendors"].([]interface{})
	first := vendors[0].(map[string]interface{})
	assert.Equal(t, "idli@example.com", first["email"])

	// No vendor serves dinner yet
	w, resp = doJSON(t, r, http.MethodGet, "/api/vendors?category=dinner", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, resp["count"])
}

func TestGetVendorMenuVegetarianFilter(t *testing.T) {
	r := setupRouter(t)
	vendor, _ := createVendor(t, "kitchen@example.com", "9000000001", true)
	veg := createMenuItem(t, vendor.ID, "Veg Thali", 100)
	nonVeg := createMenuItem(t, vendor.ID, "Chicken Curry", 150)
	require.NoError(t, config.DB.Model(&veg).Update("is_vegetarian", true).Error)
	require.NoError(t, config.DB.Model(&nonVeg).Update("is_vegetarian", false).Error)

	w, resp := doJSON(t, r, http.MethodGet, "/api/vendors/1/menu?vegetarian=true", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1.0, resp["count"])
	menu := resp["menu"].([]interface{})
	assert.Equal(t, "Veg Thali", menu[0].(map[string]interface{})["name"])
}
