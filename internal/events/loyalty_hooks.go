package events

import (
	"context"
	"errors"
	"fmt"
	"log"

	"falko/internal/models"
	"falko/internal/repositories"
	"falko/internal/services/email"
	"falko/internal/services/loyalty"
)

// PointsEngine is the loyalty slice the hooks drive.
type PointsEngine interface {
	CalculatePointsForOrder(ctx context.Context, order *models.Order) (int, error)
	AwardPoints(ctx context.Context, p loyalty.AwardParams) error
	ReverseOrderPoints(ctx context.Context, p loyalty.ReverseParams) error
}

// PointsMailer sends the best-effort points notification.
type PointsMailer interface {
	SendPointsEarned(ctx context.Context, data email.PointsEarnedData) error
}

// LoyaltyHooks subscribes loyalty bookkeeping to order lifecycle events.
type LoyaltyHooks struct {
	orders repositories.OrderRepository
	engine PointsEngine
	mailer PointsMailer // optional
}

func NewLoyaltyHooks(orders repositories.OrderRepository, engine PointsEngine, mailer PointsMailer) *LoyaltyHooks {
	if orders == nil {
		panic("order repository is required")
	}
	if engine == nil {
		panic("points engine is required")
	}
	return &LoyaltyHooks{orders: orders, engine: engine, mailer: mailer}
}

// Register wires the hooks into the dispatcher.
func (h *LoyaltyHooks) Register(d *Dispatcher) {
	d.Subscribe(OrderPaymentCaptured, h.HandleOrderPaymentCaptured)
	d.Subscribe(OrderCanceled, h.HandleOrderCanceled)
	d.Subscribe(ReturnReceived, h.HandleReturnReceived)
}

// HandleOrderPaymentCaptured awards points for a captured order payment.
// Guest checkouts and zero-value orders earn nothing.
func (h *LoyaltyHooks) HandleOrderPaymentCaptured(ctx context.Context, payload interface{}) error {
	evt, ok := payload.(OrderEvent)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", payload, OrderPaymentCaptured)
	}

	order, err := h.orders.GetByID(ctx, evt.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load order %s: %w", evt.OrderID, err)
	}

	if order.CustomerID == "" {
		log.Printf("loyalty: order %s has no customer, skipping points", order.ID)
		return nil
	}
	if order.Total <= 0 {
		log.Printf("loyalty: order %s has no value, skipping points", order.ID)
		return nil
	}

	points, err := h.engine.CalculatePointsForOrder(ctx, order)
	if err != nil {
		return fmt.Errorf("failed to calculate points for order %s: %w", order.ID, err)
	}
	if points == 0 {
		log.Printf("loyalty: no points for order %s (below minimum)", order.ID)
		return nil
	}

	err = h.engine.AwardPoints(ctx, loyalty.AwardParams{
		CustomerID:  order.CustomerID,
		Points:      points,
		OrderID:     order.ID,
		Description: fmt.Sprintf("Points for order #%d", order.DisplayID),
		Metadata: models.NewJSON(map[string]interface{}{
			"order_total":      order.Total,
			"order_display_id": order.DisplayID,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to award points for order %s: %w", order.ID, err)
	}

	if h.mailer != nil {
		if err := h.mailer.SendPointsEarned(ctx, email.PointsEarnedData{
			CustomerEmail: order.Email,
			OrderID:       order.ID,
			Points:        points,
		}); err != nil {
			log.Printf("loyalty: points email failed for order %s: %v", order.ID, err)
		}
	}
	return nil
}

// HandleOrderCanceled reverses the order's earned points.
func (h *LoyaltyHooks) HandleOrderCanceled(ctx context.Context, payload interface{}) error {
	evt, ok := payload.(OrderEvent)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", payload, OrderCanceled)
	}

	order, err := h.orders.GetByID(ctx, evt.OrderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			log.Printf("loyalty: canceled order %s not found, skipping reversal", evt.OrderID)
			return nil
		}
		return fmt.Errorf("failed to load order %s: %w", evt.OrderID, err)
	}
	if order.CustomerID == "" {
		log.Printf("loyalty: canceled order %s has no customer, skipping reversal", order.ID)
		return nil
	}

	return h.engine.ReverseOrderPoints(ctx, loyalty.ReverseParams{
		CustomerID:  order.CustomerID,
		OrderID:     order.ID,
		Description: fmt.Sprintf("Points reversal for canceled order #%d", order.DisplayID),
	})
}

// HandleReturnReceived adjusts points when the carrier reports a return
// delivered. It only reverses the order's most recent earned transaction;
// refund crediting stays with the case manager's received transition, so
// there is exactly one crediting path.
func (h *LoyaltyHooks) HandleReturnReceived(ctx context.Context, payload interface{}) error {
	evt, ok := payload.(ReturnReceivedEvent)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", payload, ReturnReceived)
	}

	order, err := h.orders.GetByID(ctx, evt.OrderID)
	if err != nil {
		return fmt.Errorf("failed to load order %s: %w", evt.OrderID, err)
	}
	if order.CustomerID == "" {
		log.Printf("loyalty: return %s order has no customer, skipping adjustment", evt.ReturnID)
		return nil
	}

	return h.engine.ReverseOrderPoints(ctx, loyalty.ReverseParams{
		CustomerID:  order.CustomerID,
		OrderID:     order.ID,
		Description: fmt.Sprintf("Points reversal for returned items (return %s)", evt.ReturnID),
	})
}
