// Package handlers contains the fiber HTTP handlers for the store and
// admin APIs.
package handlers

import (
	"errors"
	"strconv"

	domainerrors "falko/internal/errors"
	"falko/internal/middleware"
	"falko/internal/services/loyalty"
	"falko/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type LoyaltyHandler struct {
	loyaltyService loyalty.Service
}

func NewLoyaltyHandler(loyaltyService loyalty.Service) *LoyaltyHandler {
	return &LoyaltyHandler{loyaltyService: loyaltyService}
}

// GetPoints handles GET /store/loyalty/points.
func (h *LoyaltyHandler) GetPoints(c *fiber.Ctx) error {
	customerID, ok := middleware.CustomerID(c)
	if !ok {
		return utils.Unauthorized(c, "customer authentication required")
	}

	summary, err := h.loyaltyService.GetAccountSummary(c.Context(), customerID)
	if err != nil {
		return utils.InternalError(c, "failed to fetch loyalty points")
	}

	return utils.Success(c, fiber.Map{
		"customer_id":      summary.CustomerID,
		"points":           summary.Points,
		"lifetime_earned":  summary.LifetimeEarned,
		"lifetime_spent":   summary.LifetimeSpent,
		"tier":             summary.Tier,
		"next_tier_points": summary.NextTierPoints,
	})
}

// GetHistory handles GET /store/loyalty/history?limit=N.
func (h *LoyaltyHandler) GetHistory(c *fiber.Ctx) error {
	customerID, ok := middleware.CustomerID(c)
	if !ok {
		return utils.Unauthorized(c, "customer authentication required")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	txs, total, err := h.loyaltyService.GetHistory(c.Context(), customerID, limit)
	if err != nil {
		return utils.InternalError(c, "failed to fetch loyalty history")
	}

	return utils.Success(c, fiber.Map{
		"customer_id":  customerID,
		"transactions": txs,
		"total_count":  total,
	})
}

// RedeemReward handles POST /store/loyalty/redeem.
func (h *LoyaltyHandler) RedeemReward(c *fiber.Ctx) error {
	customerID, ok := middleware.CustomerID(c)
	if !ok {
		return utils.Unauthorized(c, "customer authentication required")
	}

	var input struct {
		RewardID uint `json:"reward_id" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_data", "invalid request format")
	}
	if err := validate.Struct(input); err != nil {
		return utils.BadRequest(c, "invalid_data", "reward_id is required")
	}

	result, err := h.loyaltyService.RedeemReward(c.Context(), customerID, input.RewardID)
	if err != nil {
		var insufficient *loyalty.InsufficientPointsError
		if errors.As(err, &insufficient) {
			return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{
				"type":      "insufficient_points",
				"message":   insufficient.Error(),
				"required":  insufficient.Required,
				"available": insufficient.Available,
			})
		}
		if errors.Is(err, domainerrors.ErrRewardNotFound) {
			return utils.NotFound(c, "not_found", "reward not found")
		}
		if errors.Is(err, domainerrors.ErrRewardInactive) || errors.Is(err, domainerrors.ErrRewardExpired) {
			return utils.BadRequest(c, "invalid_data", "reward is no longer available")
		}
		return utils.InternalError(c, "failed to redeem reward")
	}

	return utils.Success(c, fiber.Map{
		"success":            true,
		"transaction":        result.Transaction,
		"new_points_balance": result.NewPointsBalance,
	})
}

// GetRewards handles GET /store/loyalty/rewards.
func (h *LoyaltyHandler) GetRewards(c *fiber.Ctx) error {
	rewards, err := h.loyaltyService.ListRewards(c.Context())
	if err != nil {
		return utils.InternalError(c, "failed to fetch rewards")
	}
	return utils.Success(c, fiber.Map{"rewards": rewards})
}
