package models

import "github.com/golang-jwt/jwt/v5"

// CustomerClaims are the JWT claims issued by the storefront auth layer.
// This service only validates them; it never issues tokens.
type CustomerClaims struct {
	CustomerID string `json:"customer_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}
