package loyalty

import (
	"context"
	"time"

	"falko/internal/models"
)

// Config holds the points-earning parameters.
type Config struct {
	// PointsPerUnit is points earned per major currency unit spent.
	PointsPerUnit float64
	// FirstOrderBonus multiplies the first-ever earning for a customer.
	FirstOrderBonus float64
	// MinimumOrderValue is the earning floor, in minor units. Orders below
	// it earn nothing.
	MinimumOrderValue int64
	// MaxPointsPerOrder caps a single earning.
	MaxPointsPerOrder int
	// CategoryMultipliers stack multiplicatively with the first-order bonus.
	CategoryMultipliers map[string]float64
	// DefaultHistoryLimit bounds history queries with no explicit limit.
	DefaultHistoryLimit int
}

// DefaultConfig returns the store's standard earning rules.
func DefaultConfig() Config {
	return Config{
		PointsPerUnit:     1,
		FirstOrderBonus:   2.0,
		MinimumOrderValue: 5000, // 50 PLN
		MaxPointsPerOrder: 1000,
		CategoryMultipliers: map[string]float64{
			"new-arrivals": 1.5,
			"sale":         0.5,
		},
		DefaultHistoryLimit: 50,
	}
}

// AwardParams describes one points credit.
type AwardParams struct {
	CustomerID  string
	Points      int
	OrderID     string
	Description string
	Metadata    models.JSON
}

// ReverseParams describes one order-level points reversal.
type ReverseParams struct {
	CustomerID  string
	OrderID     string
	Description string
}

// AccountSummary is the customer-facing view of an account.
type AccountSummary struct {
	CustomerID     string `json:"customer_id"`
	Points         int    `json:"points"`
	LifetimeEarned int    `json:"lifetime_earned"`
	LifetimeSpent  int    `json:"lifetime_spent"`
	Tier           string `json:"tier"`
	NextTierPoints int    `json:"next_tier_points"`
}

// RedemptionResult reports a successful reward redemption.
type RedemptionResult struct {
	Transaction      *models.LoyaltyTransaction `json:"transaction"`
	NewPointsBalance int                        `json:"new_points_balance"`
}

// Cache is the subset of the cache service the engine needs. A nil cache
// disables caching.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	GenerateKey(entityType, keyType string, value interface{}) string
}

// Cache keys and durations
const (
	accountCacheEntity = "loyalty"
	accountCacheKind   = "summary"
	accountCacheTTL    = 5 * time.Minute
)
