package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"casadimoda-backend/internal/models"
)

const testSecret = "gate-test-secret"

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

func newGatedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AccessGate(testSecret))
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	r.GET("/api/admin/summary", ok)
	r.GET("/api/supplier/summary", ok)
	r.POST("/api/supplier/register", ok)
	r.GET("/api/search", ok)
	r.GET("/api/suppliers/:slug", ok)
	r.GET("/admin/products", ok)
	r.GET("/supplier/dashboard", ok)
	return r
}

func doGateRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAccessGateAdminAPI(t *testing.T) {
	r := newGatedRouter()

	adminToken := signTestToken(t, jwt.MapClaims{
		"sub":     "64b5f0a1c2d3e4f5a6b7c8d9",
		"role":    models.RoleAdmin,
		"isAdmin": true,
	})
	customerToken := signTestToken(t, jwt.MapClaims{
		"sub":     "64b5f0a1c2d3e4f5a6b7c8d9",
		"role":    models.RoleCustomer,
		"isAdmin": false,
	})

	testCases := []struct {
		name     string
		token    string
		expected int
	}{
		{name: "no token", token: "", expected: http.StatusUnauthorized},
		{name: "customer token", token: customerToken, expected: http.StatusForbidden},
		{name: "admin token", token: adminToken, expected: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doGateRequest(r, "GET", "/api/admin/summary", tc.token)
			assert.Equal(t, tc.expected, rec.Code)
		})
	}
}

func TestAccessGateSupplierAPI(t *testing.T) {
	r := newGatedRouter()

	supplierToken := signTestToken(t, jwt.MapClaims{
		"sub":        "64b5f0a1c2d3e4f5a6b7c8d9",
		"role":       models.RoleSupplier,
		"supplierId": "64b5f0a1c2d3e4f5a6b7c8da",
	})
	customerToken := signTestToken(t, jwt.MapClaims{
		"sub":  "64b5f0a1c2d3e4f5a6b7c8d9",
		"role": models.RoleCustomer,
	})

	rec := doGateRequest(r, "GET", "/api/supplier/summary", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doGateRequest(r, "GET", "/api/supplier/summary", customerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doGateRequest(r, "GET", "/api/supplier/summary", supplierToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccessGateSupplierRegisterIsExempt(t *testing.T) {
	r := newGatedRouter()

	rec := doGateRequest(r, "POST", "/api/supplier/register", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccessGatePublicPathsPassThrough(t *testing.T) {
	r := newGatedRouter()

	rec := doGateRequest(r, "GET", "/api/search", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

// The public storefront path shares the /api/supplier spelling up to
// the plural s; the gate must match on segment boundaries so anonymous
// shoppers still reach it.
func TestAccessGatePublicSupplierStorefrontNotGated(t *testing.T) {
	r := newGatedRouter()

	rec := doGateRequest(r, "GET", "/api/suppliers/casa-atelier", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMatchPolicySegmentBoundaries(t *testing.T) {
	tests := []struct {
		path   string
		prefix string
	}{
		{"/api/supplier", "/api/supplier"},
		{"/api/supplier/products", "/api/supplier"},
		{"/api/admin/summary", "/api/admin"},
		{"/api/suppliers/casa-atelier", ""},
		{"/api/administrators", ""},
		{"/api/search", ""},
	}

	for _, tt := range tests {
		rule := matchPolicy(tt.path)
		if tt.prefix == "" {
			assert.Nil(t, rule, tt.path)
			continue
		}
		if assert.NotNil(t, rule, tt.path) {
			assert.Equal(t, tt.prefix, rule.prefix, tt.path)
		}
	}
}

func TestAccessGateBrowserRoutesRedirect(t *testing.T) {
	r := newGatedRouter()

	rec := doGateRequest(r, "GET", "/admin/products", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get("Location"))

	rec = doGateRequest(r, "GET", "/supplier/dashboard", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/become-supplier", rec.Header().Get("Location"))
}

func TestAccessGateExpiredTokenRejected(t *testing.T) {
	r := newGatedRouter()

	expired := signTestToken(t, jwt.MapClaims{
		"sub":     "64b5f0a1c2d3e4f5a6b7c8d9",
		"role":    models.RoleAdmin,
		"isAdmin": true,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	rec := doGateRequest(r, "GET", "/api/admin/summary", expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
