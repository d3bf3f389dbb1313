package models

import "time"

// Loyalty transaction types
const (
	TransactionTypeEarned   = "earned"
	TransactionTypeSpent    = "spent"
	TransactionTypeRefunded = "refunded"
)

// LoyaltyAccount holds the cached points balance for one customer.
// The balance is a projection of the transaction log; it is only ever
// mutated through the ledger repository and never goes negative.
type LoyaltyAccount struct {
	ID             uint   `gorm:"primarykey" json:"-"`
	CustomerID     string `gorm:"uniqueIndex;not null" json:"customer_id"`
	TotalPoints    int    `gorm:"not null;default:0" json:"total_points"`
	LifetimeEarned int    `gorm:"not null;default:0" json:"lifetime_earned"`
	LifetimeSpent  int    `gorm:"not null;default:0" json:"lifetime_spent"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// LoyaltyTransaction is an immutable, append-only ledger entry. Points are
// always positive; direction is implied by Type. Rows are never updated or
// deleted.
type LoyaltyTransaction struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	CustomerID  string `gorm:"index;not null" json:"customer_id"`
	Type        string `gorm:"not null" json:"type"`
	Points      int    `gorm:"not null" json:"points"`
	Description string `json:"description"`
	OrderID     string `gorm:"index" json:"order_id,omitempty"`
	RewardID    string `json:"reward_id,omitempty"`
	Metadata    JSON   `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
