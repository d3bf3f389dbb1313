package models

import "time"

// Order statuses the loyalty and returns flows care about.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCanceled  = "canceled"
)

// Order is a read model over the storefront's order table. This service
// never mutates orders except for the best-effort tracking stamp after a
// return label is generated.
type Order struct {
	ID                       string `gorm:"primarykey" json:"id"`
	DisplayID                int    `json:"display_id"`
	CustomerID               string `gorm:"index" json:"customer_id"`
	Email                    string `json:"email"`
	Status                   string `gorm:"index" json:"status"`
	Total                    int64  `json:"total"` // minor units
	CurrencyCode             string `gorm:"default:'pln'" json:"currency_code"`
	Metadata                 JSON   `gorm:"type:jsonb" json:"metadata,omitempty"`
	FurgonetkaTrackingNumber string `json:"furgonetka_tracking_number,omitempty"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// PaymentIntentID extracts the card payment reference stamped on the order
// by the payment provider, if any.
func (o *Order) PaymentIntentID() string {
	if o.Metadata == nil {
		return ""
	}
	if v, ok := o.Metadata["payment_intent_id"].(string); ok {
		return v
	}
	return ""
}

// Category returns the promotional category stamped on the order, if any.
func (o *Order) Category() string {
	if o.Metadata == nil {
		return ""
	}
	if v, ok := o.Metadata["category"].(string); ok {
		return v
	}
	return ""
}
