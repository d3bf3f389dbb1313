package models

import "time"

// Reward categories
const (
	RewardCategoryDiscount = "discount"
	RewardCategoryShipping = "shipping"
	RewardCategoryProduct  = "product"
	RewardCategoryAccess   = "access"
)

// Reward is a catalog entry redeemable for points.
type Reward struct {
	ID              uint    `gorm:"primarykey" json:"id"`
	Title           string  `gorm:"not null" json:"title"`
	Description     string  `json:"description"`
	PointsCost      int     `gorm:"not null" json:"points_cost"`
	Category        string  `gorm:"index" json:"category"`
	DiscountAmount  *int64  `json:"discount_amount,omitempty"`  // minor units
	DiscountPercent *int    `json:"discount_percent,omitempty"`
	ProductID       *string `json:"product_id,omitempty"`
	IsActive        bool    `gorm:"default:true;index" json:"is_active"`
	ValidUntil      *time.Time `json:"valid_until,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
