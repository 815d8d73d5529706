package handlers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"casadimoda-backend/internal/models"
)

func parseClaims(t *testing.T, token, secret string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestIssueTokenCustomerClaims(t *testing.T) {
	user := models.User{
		ID:    primitive.NewObjectID(),
		Email: "anna@example.com",
		Role:  models.RoleCustomer,
	}

	token, err := issueToken(user, "test-secret", time.Hour)
	require.NoError(t, err)

	claims := parseClaims(t, token, "test-secret")
	assert.Equal(t, user.ID.Hex(), claims["sub"])
	assert.Equal(t, "anna@example.com", claims["email"])
	assert.Equal(t, models.RoleCustomer, claims["role"])
	assert.Equal(t, false, claims["isAdmin"])
	_, hasSupplier := claims["supplierId"]
	assert.False(t, hasSupplier)
}

func TestIssueTokenSupplierCarriesSupplierID(t *testing.T) {
	supplierID := primitive.NewObjectID()
	user := models.User{
		ID:         primitive.NewObjectID(),
		Email:      "atelier@example.com",
		Role:       models.RoleSupplier,
		SupplierID: &supplierID,
	}

	token, err := issueToken(user, "test-secret", time.Hour)
	require.NoError(t, err)

	claims := parseClaims(t, token, "test-secret")
	assert.Equal(t, models.RoleSupplier, claims["role"])
	assert.Equal(t, supplierID.Hex(), claims["supplierId"])
}

func TestIssueTokenAdminFlag(t *testing.T) {
	user := models.User{
		ID:      primitive.NewObjectID(),
		Email:   "ops@example.com",
		Role:    models.RoleAdmin,
		IsAdmin: true,
	}

	token, err := issueToken(user, "test-secret", time.Hour)
	require.NoError(t, err)

	claims := parseClaims(t, token, "test-secret")
	assert.Equal(t, true, claims["isAdmin"])
}

func TestLowerCamel(t *testing.T) {
	assert.Equal(t, "businessName", lowerCamel("BusinessName"))
	assert.Equal(t, "email", lowerCamel("Email"))
	assert.Equal(t, "", lowerCamel(""))
}
