package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Return statuses
const (
	ReturnStatusPendingSurvey     = "pending_survey"
	ReturnStatusSurveyCompleted   = "survey_completed"
	ReturnStatusQRGenerated       = "qr_generated"
	ReturnStatusShippedByCustomer = "shipped_by_customer"
	ReturnStatusReceived          = "received"
	ReturnStatusProcessed         = "processed"
	ReturnStatusRefunded          = "refunded"
	ReturnStatusRejected          = "rejected"
)

// Refund methods
const (
	RefundMethodCard          = "card"
	RefundMethodLoyaltyPoints = "loyalty_points"
)

// ValidReturnStatus reports whether s is one of the known return statuses.
func ValidReturnStatus(s string) bool {
	switch s {
	case ReturnStatusPendingSurvey, ReturnStatusSurveyCompleted,
		ReturnStatusQRGenerated, ReturnStatusShippedByCustomer,
		ReturnStatusReceived, ReturnStatusProcessed,
		ReturnStatusRefunded, ReturnStatusRejected:
		return true
	}
	return false
}

// ReturnItem is one returned line, snapshot at request time.
type ReturnItem struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"` // minor units
	Title     string `json:"title"`
}

// ReturnItems is stored as a jsonb column.
type ReturnItems []ReturnItem

func (i ReturnItems) Value() (driver.Value, error) {
	return json.Marshal(i)
}

func (i *ReturnItems) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("return items: expected []byte")
	}
	return json.Unmarshal(bytes, i)
}

// Return is one merchandise return request. Amounts are in minor units.
type Return struct {
	ID                       string      `gorm:"primarykey" json:"id"`
	OrderID                  string      `gorm:"index;not null" json:"order_id"`
	CustomerID               string      `gorm:"index;not null" json:"customer_id"`
	Status                   string      `gorm:"index;not null" json:"status"`
	ReasonCode               string      `json:"reason_code"`
	RefundMethod             string      `gorm:"not null" json:"refund_method"`
	Items                    ReturnItems `gorm:"type:jsonb" json:"items"`
	TotalAmount              int64       `gorm:"not null" json:"total_amount"`
	RefundAmount             int64       `gorm:"not null" json:"refund_amount"`
	FurgonetkaQRCode         string      `json:"furgonetka_qr_code,omitempty"`
	FurgonetkaTrackingNumber string      `json:"furgonetka_tracking_number,omitempty"`
	CreatedAt                time.Time   `json:"created_at"`
	UpdatedAt                time.Time   `json:"updated_at"`
	ExpiresAt                time.Time   `json:"expires_at"`
	ProcessedAt              *time.Time  `json:"processed_at,omitempty"`

	Survey *ReturnSurvey `gorm:"foreignKey:ReturnID;constraint:OnDelete:CASCADE" json:"survey,omitempty"`
}

// ReturnSurvey is the 1:1 survey captured with the return request. Its
// lifetime is bound to the parent return (cascade delete).
type ReturnSurvey struct {
	ID                 string    `gorm:"primarykey" json:"id"`
	ReturnID           string    `gorm:"uniqueIndex;not null" json:"return_id"`
	ReasonCode         string    `gorm:"not null" json:"reason_code"`
	SatisfactionRating *int      `json:"satisfaction_rating,omitempty"`
	SizeIssue          string    `json:"size_issue,omitempty"`
	QualityIssue       string    `json:"quality_issue,omitempty"`
	Description        string    `json:"description,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
