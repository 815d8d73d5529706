package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserAuth validates user JWT tokens and injects the userId into the
// context. Used on user-owned resources (wishlist, orders, addresses)
// where any authenticated role may pass.
func UserAuth(secret string, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearerClaims(c.GetHeader("Authorization"), secret)
		if err != nil {
			log.WithError(err).Warn("user token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		sub, ok := claims["sub"].(string)
		if !ok || sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		userID, err := primitive.ObjectIDFromHex(sub)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		stashClaims(c, claims)
		c.Set("userId", userID)
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user's id placed there by
// UserAuth or the access gate.
func UserIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	value, ok := c.Get("userId")
	if !ok {
		return primitive.NilObjectID, false
	}
	userID, ok := value.(primitive.ObjectID)
	return userID, ok
}

// SupplierIDFromContext returns the supplier profile id carried by a
// supplier token.
func SupplierIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	value, ok := c.Get("supplierId")
	if !ok {
		return primitive.NilObjectID, false
	}
	supplierID, ok := value.(primitive.ObjectID)
	return supplierID, ok
}

// IsAdminFromContext reports whether the stashed claims carry the admin
// flag.
func IsAdminFromContext(c *gin.Context) bool {
	value, ok := c.Get("claims")
	if !ok {
		return false
	}
	claims, ok := value.(jwt.MapClaims)
	if !ok {
		return false
	}
	isAdmin, _ := claims["isAdmin"].(bool)
	return isAdmin
}
