package returns

import (
	"context"
	"time"

	"falko/internal/models"
	"falko/internal/services/email"
	"falko/internal/services/furgonetka"
	"falko/internal/services/loyalty"
	"falko/internal/services/refund"
)

// Config holds the return-flow parameters.
type Config struct {
	// ReturnWindow is how long after completion an order stays returnable.
	ReturnWindow time.Duration
	// ProcessingWindow sets expires_at on new returns. Advisory deadline,
	// not enforced in-engine.
	ProcessingWindow time.Duration
	// PointsRefundBonus multiplies the refund amount when the customer
	// chooses loyalty points over a card refund.
	PointsRefundBonus float64
}

// DefaultConfig returns the store's standard return policy.
func DefaultConfig() Config {
	return Config{
		ReturnWindow:      14 * 24 * time.Hour,
		ProcessingWindow:  14 * 24 * time.Hour,
		PointsRefundBonus: 1.10,
	}
}

// CreateReturnRequest is the validated input for a new return.
type CreateReturnRequest struct {
	OrderID            string
	CustomerID         string
	Items              []models.ReturnItem
	ReasonCode         string
	SatisfactionRating *int
	SizeIssue          string
	QualityIssue       string
	Description        string
	RefundMethod       string
}

// PointsAwarder is the loyalty engine slice used for points refunds.
type PointsAwarder interface {
	AwardPoints(ctx context.Context, p loyalty.AwardParams) error
}

// LabelProvider creates return shipping labels. Failures are recoverable:
// the return exists without tracking fields and label creation is retried
// out-of-band.
type LabelProvider interface {
	CreateReturnShipment(ctx context.Context, req furgonetka.ShipmentRequest) (*furgonetka.ShipmentLabel, error)
}

// Mailer sends best-effort customer notifications.
type Mailer interface {
	SendReturnConfirmation(ctx context.Context, data email.ReturnConfirmationData) error
	SendReturnProcessed(ctx context.Context, data email.ReturnProcessedData) error
}

// CardRefunder dispatches card refunds with an idempotency key.
type CardRefunder interface {
	RefundCard(ctx context.Context, req refund.CardRefundRequest) error
}
