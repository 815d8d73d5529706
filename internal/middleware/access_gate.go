package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"casadimoda-backend/internal/models"
)

// policyRule maps a path prefix to the role required to enter it.
// API prefixes answer with 401/403; browser prefixes redirect.
type policyRule struct {
	prefix   string
	role     string
	api      bool
	redirect string
	exempt   []string
}

// Longer API prefixes come first so /api/admin matches before /admin.
// Supplier registration is reachable without a supplier role.
var accessPolicies = []policyRule{
	{prefix: "/api/admin", role: models.RoleAdmin, api: true},
	{prefix: "/api/supplier", role: models.RoleSupplier, api: true, exempt: []string{"/api/supplier/register"}},
	{prefix: "/admin", role: models.RoleAdmin, redirect: "/signin"},
	{prefix: "/supplier", role: models.RoleSupplier, redirect: "/become-supplier", exempt: []string{"/supplier/register"}},
}

func matchPolicy(path string) *policyRule {
	for i := range accessPolicies {
		rule := &accessPolicies[i]
		// segment boundary, so /api/suppliers/:slug never matches /api/supplier
		if path != rule.prefix && !strings.HasPrefix(path, rule.prefix+"/") {
			continue
		}
		for _, exempt := range rule.exempt {
			if path == exempt {
				return nil
			}
		}
		return rule
	}
	return nil
}

// AccessGate authorizes every request against the policy table before
// any handler runs. Paths outside the table pass through untouched;
// finer-grained ownership checks stay in the handlers.
func AccessGate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rule := matchPolicy(c.Request.URL.Path)
		if rule == nil {
			c.Next()
			return
		}

		claims, err := parseBearerClaims(c.GetHeader("Authorization"), secret)
		if err != nil {
			if rule.api {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
				return
			}
			c.Redirect(http.StatusFound, rule.redirect)
			c.Abort()
			return
		}

		if !claimsSatisfyRole(claims, rule.role) {
			if rule.api {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden"})
				return
			}
			c.Redirect(http.StatusFound, rule.redirect)
			c.Abort()
			return
		}

		stashClaims(c, claims)
		c.Next()
	}
}

func claimsSatisfyRole(claims jwt.MapClaims, role string) bool {
	switch role {
	case models.RoleAdmin:
		isAdmin, _ := claims["isAdmin"].(bool)
		return isAdmin
	case models.RoleSupplier:
		tokenRole, _ := claims["role"].(string)
		return tokenRole == models.RoleSupplier
	default:
		return false
	}
}

func parseBearerClaims(header, secret string) (jwt.MapClaims, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return nil, errors.New("missing token")
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.New("invalid token format")
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

func stashClaims(c *gin.Context, claims jwt.MapClaims) {
	c.Set("claims", claims)

	if sub, ok := claims["sub"].(string); ok {
		if userID, err := primitive.ObjectIDFromHex(sub); err == nil {
			c.Set("userId", userID)
		}
	}
	if raw, ok := claims["supplierId"].(string); ok {
		if supplierID, err := primitive.ObjectIDFromHex(raw); err == nil {
			c.Set("supplierId", supplierID)
		}
	}
}
