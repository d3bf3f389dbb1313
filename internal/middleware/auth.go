// Package middleware provides HTTP middleware for the fiber app: customer
// JWT validation and the admin role gate. Tokens are issued by the
// storefront auth layer; this service only validates them.
package middleware

import (
	"strings"

	"falko/internal/models"
	"falko/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates bearer tokens and exposes the customer claims on
// the request context.
type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(jwtSecret)}
}

// Handler checks for a Bearer token, validates signature and expiry, and
// stores the claims under c.Locals("claims") / c.Locals("customerID").
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &models.CustomerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return utils.Unauthorized(c, "invalid token")
	}

	claims, ok := token.Claims.(*models.CustomerClaims)
	if !ok || claims.CustomerID == "" {
		return utils.Unauthorized(c, "invalid claims")
	}

	c.Locals("claims", claims)
	c.Locals("customerID", claims.CustomerID)
	return c.Next()
}

// AdminOnly requires an authenticated admin role. Must run after Handler.
func AdminOnly(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.CustomerClaims)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}
	if claims.Role != "admin" {
		return utils.Forbidden(c, "insufficient permissions")
	}
	return c.Next()
}

// CustomerID extracts the authenticated customer from the request context.
func CustomerID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals("customerID").(string)
	return id, ok && id != ""
}
