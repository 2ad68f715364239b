package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tiffin-api/config"
	"tiffin-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, models.RoleVendor, "kitchen@example.com")
	require.NoError(t, err)

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		return config.JWTSecret, nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	// Token decodes to the same id/role/email it was issued for
	assert.Equal(t, uint(42), claims.AccountID)
	assert.Equal(t, models.RoleVendor, claims.Role)
	assert.Equal(t, "kitchen@example.com", claims.Email)

	// 7-day validity
	require.NotNil(t, claims.ExpiresAt)
	expectedExpiry := time.Now().Add(config.TokenValidity)
	assert.WithinDuration(t, expectedExpiry, claims.ExpiresAt.Time, time.Minute)
}

func expiredToken(t *testing.T) string {
	t.Helper()
	claims := Claims{
		AccountID: 1,
		Role:      models.RoleUser,
		Email:     "old@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-8 * 24 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.JWTSecret)
	require.NoError(t, err)
	return token
}

func runAuthenticate(t *testing.T, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	w := runAuthenticate(t, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	w := runAuthenticate(t, "Token abcdef")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	w := runAuthenticate(t, "Bearer "+expiredToken(t))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	w := runAuthenticate(t, "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthorizeRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin-only",
		func(c *gin.Context) { c.Set("role", string(models.RoleUser)); c.Next() },
		Authorize(models.RoleAdmin, models.RoleSuperAdmin),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) },
	)
	r.GET("/user-ok",
		func(c *gin.Context) { c.Set("role", string(models.RoleUser)); c.Next() },
		Authorize(models.RoleUser),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) },
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user-ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireVerifiedVendor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		vendor *models.Vendor
		want   int
	}{
		{
			name:   "approved and verified",
			vendor: &models.Vendor{IsVerified: true, VerificationStatus: models.VerificationApproved},
			want:   http.StatusOK,
		},
		{
			name:   "pending verification",
			vendor: &models.Vendor{IsVerified: false, VerificationStatus: models.VerificationPending},
			want:   http.StatusForbidden,
		},
		{
			name:   "verified flag without approval",
			vendor: &models.Vendor{IsVerified: true, VerificationStatus: models.VerificationRejected},
			want:   http.StatusForbidden,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/verified-only",
				func(c *gin.Context) {
					c.Set("role", string(models.RoleVendor))
					c.Set("account", tc.vendor)
					c.Next()
				},
				RequireVerifiedVendor(),
				func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) },
			)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verified-only", nil))
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
