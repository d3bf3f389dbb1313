// Package returns implements the merchandise return state machine: creation
// with survey capture, status transitions and refund dispatch.
//
// Statuses run pending_survey -> survey_completed -> qr_generated ->
// shipped_by_customer -> received -> processed -> refunded, with rejected as
// an absorbing administrative override. Creation collapses the first three
// steps into one atomic operation: a new return lands at qr_generated with
// its survey already captured.
package returns

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	domainerrors "falko/internal/errors"
	"falko/internal/models"
	"falko/internal/repositories"
	"falko/internal/services/email"
	"falko/internal/services/furgonetka"
	"falko/internal/services/loyalty"
	"falko/internal/services/refund"

	"github.com/google/uuid"
)

// Service is the return case manager interface.
type Service interface {
	IsOrderEligibleForReturn(ctx context.Context, orderID string) (bool, error)
	CreateReturn(ctx context.Context, req CreateReturnRequest) (*models.Return, error)
	GetReturn(ctx context.Context, id string) (*models.Return, error)
	ListCustomerReturns(ctx context.Context, customerID string) ([]models.Return, error)
	ListReturns(ctx context.Context, filter repositories.ReturnFilter) ([]models.Return, int64, error)

	// UpdateStatus persists the new status. A transition to received
	// synchronously runs ProcessRefund; if that fails the committed status
	// stands and the error is returned alongside the updated return.
	UpdateStatus(ctx context.Context, id, status string) (*models.Return, error)

	// ProcessRefund finalizes the refund. Safe to re-run: once
	// processed_at is set it credits nothing and reports
	// ErrRefundAlreadyProcessed, so a retry never credits twice.
	ProcessRefund(ctx context.Context, id string) error
}

type service struct {
	repo    repositories.ReturnRepository
	orders  repositories.OrderRepository
	loyalty PointsAwarder
	labels  LabelProvider
	mailer  Mailer
	cards   CardRefunder
	config  Config
}

// NewService creates a new returns service. Labels, mailer and cards are
// optional collaborators; a nil value disables the corresponding side
// effect (the primary operation still completes).
func NewService(
	repo repositories.ReturnRepository,
	orders repositories.OrderRepository,
	loyaltySvc PointsAwarder,
	labels LabelProvider,
	mailer Mailer,
	cards CardRefunder,
	config Config,
) Service {
	if repo == nil {
		panic("return repository is required")
	}
	if orders == nil {
		panic("order repository is required")
	}
	if loyaltySvc == nil {
		panic("loyalty service is required")
	}

	defaults := DefaultConfig()
	if config.ReturnWindow == 0 {
		config.ReturnWindow = defaults.ReturnWindow
	}
	if config.ProcessingWindow == 0 {
		config.ProcessingWindow = defaults.ProcessingWindow
	}
	if config.PointsRefundBonus == 0 {
		config.PointsRefundBonus = defaults.PointsRefundBonus
	}

	return &service{
		repo:    repo,
		orders:  orders,
		loyalty: loyaltySvc,
		labels:  labels,
		mailer:  mailer,
		cards:   cards,
		config:  config,
	}
}

func (s *service) IsOrderEligibleForReturn(ctx context.Context, orderID string) (bool, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return false, domainerrors.ErrOrderNotFound
		}
		return false, err
	}
	return s.isEligible(order), nil
}

func (s *service) isEligible(order *models.Order) bool {
	if order.Status != models.OrderStatusCompleted {
		return false
	}
	return time.Since(order.CreatedAt) <= s.config.ReturnWindow
}

func validateRequest(req CreateReturnRequest) error {
	if req.OrderID == "" {
		return &InvalidRequestError{Field: "order_id", Reason: "is required"}
	}
	if req.CustomerID == "" {
		return &InvalidRequestError{Field: "customer_id", Reason: "is required"}
	}
	if len(req.Items) == 0 {
		return &InvalidRequestError{Field: "items", Reason: "must not be empty"}
	}
	for i, item := range req.Items {
		switch {
		case item.VariantID == "":
			return &InvalidRequestError{Field: fmt.Sprintf("items[%d].variant_id", i), Reason: "is required"}
		case item.Quantity <= 0:
			return &InvalidRequestError{Field: fmt.Sprintf("items[%d].quantity", i), Reason: "must be positive"}
		case item.UnitPrice <= 0:
			return &InvalidRequestError{Field: fmt.Sprintf("items[%d].unit_price", i), Reason: "must be positive"}
		case item.Title == "":
			return &InvalidRequestError{Field: fmt.Sprintf("items[%d].title", i), Reason: "is required"}
		}
	}
	if req.ReasonCode == "" {
		return &InvalidRequestError{Field: "reason_code", Reason: "is required"}
	}
	if req.RefundMethod != models.RefundMethodCard && req.RefundMethod != models.RefundMethodLoyaltyPoints {
		return &InvalidRequestError{Field: "refund_method", Reason: "must be card or loyalty_points"}
	}
	if req.SatisfactionRating != nil && (*req.SatisfactionRating < 1 || *req.SatisfactionRating > 5) {
		return &InvalidRequestError{Field: "satisfaction_rating", Reason: "must be between 1 and 5"}
	}
	return nil
}

func (s *service) CreateReturn(ctx context.Context, req CreateReturnRequest) (*models.Return, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if !s.isEligible(order) {
		return nil, domainerrors.ErrNotEligible
	}

	var totalAmount int64
	for _, item := range req.Items {
		totalAmount += item.UnitPrice * int64(item.Quantity)
	}

	refundAmount := totalAmount
	if req.RefundMethod == models.RefundMethodLoyaltyPoints {
		refundAmount = int64(math.Floor(float64(totalAmount) * s.config.PointsRefundBonus))
	}

	now := time.Now()
	ret := &models.Return{
		ID:           "ret_" + uuid.NewString(),
		OrderID:      req.OrderID,
		CustomerID:   req.CustomerID,
		Status:       models.ReturnStatusQRGenerated,
		ReasonCode:   req.ReasonCode,
		RefundMethod: req.RefundMethod,
		Items:        req.Items,
		TotalAmount:  totalAmount,
		RefundAmount: refundAmount,
		ExpiresAt:    now.Add(s.config.ProcessingWindow),
	}
	survey := &models.ReturnSurvey{
		ID:                 "rsv_" + uuid.NewString(),
		ReasonCode:         req.ReasonCode,
		SatisfactionRating: req.SatisfactionRating,
		SizeIssue:          req.SizeIssue,
		QualityIssue:       req.QualityIssue,
		Description:        req.Description,
	}

	if err := s.repo.CreateWithSurvey(ctx, ret, survey); err != nil {
		return nil, fmt.Errorf("failed to persist return: %w", err)
	}

	// Label generation is degraded-but-recoverable: a failure leaves the
	// return without tracking fields, to be retried out-of-band.
	s.generateLabel(ctx, ret, order)

	if s.mailer != nil {
		if err := s.mailer.SendReturnConfirmation(ctx, email.ReturnConfirmationData{
			CustomerEmail:  order.Email,
			ReturnID:       ret.ID,
			OrderID:        ret.OrderID,
			RefundMethod:   ret.RefundMethod,
			RefundAmount:   ret.RefundAmount,
			QRCodeURL:      ret.FurgonetkaQRCode,
			TrackingNumber: ret.FurgonetkaTrackingNumber,
		}); err != nil {
			log.Printf("returns: confirmation email failed for %s: %v", ret.ID, err)
		}
	}

	return s.repo.GetByID(ctx, ret.ID)
}

func (s *service) generateLabel(ctx context.Context, ret *models.Return, order *models.Order) {
	if s.labels == nil {
		return
	}

	label, err := s.labels.CreateReturnShipment(ctx, furgonetka.ShipmentRequest{
		ReturnID:      ret.ID,
		OrderID:       ret.OrderID,
		CustomerEmail: order.Email,
		Description:   fmt.Sprintf("Return for order %d", order.DisplayID),
	})
	if err != nil {
		log.Printf("returns: label generation failed for %s: %v", ret.ID, err)
		return
	}

	if err := s.repo.SetShippingLabel(ctx, ret.ID, label.QRCodeURL, label.TrackingNumber); err != nil {
		log.Printf("returns: failed to store label for %s: %v", ret.ID, err)
		return
	}
	ret.FurgonetkaQRCode = label.QRCodeURL
	ret.FurgonetkaTrackingNumber = label.TrackingNumber

	// Best-effort side write; not part of the state machine's correctness.
	if err := s.orders.StampTrackingNumber(ctx, ret.OrderID, label.TrackingNumber); err != nil {
		log.Printf("returns: failed to stamp tracking on order %s: %v", ret.OrderID, err)
	}
}

func (s *service) GetReturn(ctx context.Context, id string) (*models.Return, error) {
	ret, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrReturnNotFound) {
			return nil, domainerrors.ErrReturnNotFound
		}
		return nil, err
	}
	return ret, nil
}

func (s *service) ListCustomerReturns(ctx context.Context, customerID string) ([]models.Return, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *service) ListReturns(ctx context.Context, filter repositories.ReturnFilter) ([]models.Return, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id, status string) (*models.Return, error) {
	if !models.ValidReturnStatus(status) {
		return nil, domainerrors.ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repositories.ErrReturnNotFound) {
			return nil, domainerrors.ErrReturnNotFound
		}
		return nil, err
	}

	if status == models.ReturnStatusReceived {
		// The status update above has committed; a refund failure leaves
		// the return at received and the refund retryable. An
		// already-processed signal means a retry hit the double-credit
		// guard, which is the desired outcome, not a failure.
		if err := s.ProcessRefund(ctx, id); err != nil && !errors.Is(err, domainerrors.ErrRefundAlreadyProcessed) {
			ret, getErr := s.repo.GetByID(ctx, id)
			if getErr != nil {
				return nil, fmt.Errorf("refund processing failed: %w", err)
			}
			return ret, fmt.Errorf("refund processing failed: %w", err)
		}
	}

	return s.repo.GetByID(ctx, id)
}

func (s *service) ProcessRefund(ctx context.Context, id string) error {
	ret, err := s.GetReturn(ctx, id)
	if err != nil {
		return err
	}

	if ret.ProcessedAt != nil || ret.Status == models.ReturnStatusRefunded {
		log.Printf("returns: refund already processed for %s, skipping", ret.ID)
		return domainerrors.ErrRefundAlreadyProcessed
	}

	order, orderErr := s.orders.GetByID(ctx, ret.OrderID)
	if orderErr != nil {
		log.Printf("returns: order %s not found while refunding %s: %v", ret.OrderID, ret.ID, orderErr)
	}

	pointsAdded := 0
	if ret.RefundMethod == models.RefundMethodLoyaltyPoints {
		pointsAdded = int(ret.RefundAmount / 100)
		if pointsAdded > 0 {
			err := s.loyalty.AwardPoints(ctx, loyalty.AwardParams{
				CustomerID:  ret.CustomerID,
				Points:      pointsAdded,
				OrderID:     ret.OrderID,
				Description: fmt.Sprintf("Refund for order %s (+10%% bonus)", ret.OrderID),
				Metadata: models.NewJSON(map[string]interface{}{
					"return_id": ret.ID,
					"source":    "returns",
				}),
			})
			if err != nil {
				return fmt.Errorf("failed to credit refund points: %w", err)
			}
		}
	} else if s.cards != nil {
		paymentIntentID := ""
		if order != nil {
			paymentIntentID = order.PaymentIntentID()
		}
		err := s.cards.RefundCard(ctx, refund.CardRefundRequest{
			ReturnID:        ret.ID,
			OrderID:         ret.OrderID,
			PaymentIntentID: paymentIntentID,
			Amount:          ret.RefundAmount,
			// Deterministic per return so retries cannot refund twice.
			IdempotencyKey: "return-refund-" + ret.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to dispatch card refund: %w", err)
		}
	}

	if err := s.repo.MarkRefunded(ctx, ret.ID, time.Now()); err != nil {
		return fmt.Errorf("failed to finalize refund: %w", err)
	}

	if s.mailer != nil && order != nil {
		if err := s.mailer.SendReturnProcessed(ctx, email.ReturnProcessedData{
			CustomerEmail: order.Email,
			ReturnID:      ret.ID,
			OrderID:       ret.OrderID,
			RefundMethod:  ret.RefundMethod,
			RefundAmount:  ret.RefundAmount,
			PointsAdded:   pointsAdded,
		}); err != nil {
			log.Printf("returns: processed email failed for %s: %v", ret.ID, err)
		}
	}

	return nil
}
