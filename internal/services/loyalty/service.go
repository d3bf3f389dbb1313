// Package loyalty implements the points business rules on top of the
// ledger repository: the earning formula, tier calculation, redemption and
// order-level reversal.
package loyalty

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
)

// Service is the loyalty engine interface.
type Service interface {
	// CalculatePointsForOrder is a pure function of the order plus one read
	// (the prior earned-transaction count). It has no side effects.
	CalculatePointsForOrder(ctx context.Context, order *models.Order) (int, error)

	// AwardPoints credits the customer. Idempotency is the caller's job:
	// the orchestration triggers must invoke this at most once per order.
	AwardPoints(ctx context.Context, p AwardParams) error

	ReverseOrderPoints(ctx context.Context, p ReverseParams) error
	RedeemReward(ctx context.Context, customerID string, rewardID uint) (*RedemptionResult, error)
	GetAccountSummary(ctx context.Context, customerID string) (*AccountSummary, error)
	GetHistory(ctx context.Context, customerID string, limit int) ([]models.LoyaltyTransaction, int64, error)
	ListRewards(ctx context.Context) ([]models.Reward, error)
}

type service struct {
	ledger  repositories.LedgerRepository
	rewards repositories.RewardRepository
	cache   Cache
	config  Config
}

// NewService creates a new loyalty service. Cache is optional.
func NewService(ledger repositories.LedgerRepository, rewards repositories.RewardRepository, cache Cache, config Config) Service {
	if ledger == nil {
		panic("ledger repository is required")
	}
	if rewards == nil {
		panic("reward repository is required")
	}

	defaults := DefaultConfig()
	if config.PointsPerUnit == 0 {
		config.PointsPerUnit = defaults.PointsPerUnit
	}
	if config.FirstOrderBonus == 0 {
		config.FirstOrderBonus = defaults.FirstOrderBonus
	}
	if config.MinimumOrderValue == 0 {
		config.MinimumOrderValue = defaults.MinimumOrderValue
	}
	if config.MaxPointsPerOrder == 0 {
		config.MaxPointsPerOrder = defaults.MaxPointsPerOrder
	}
	if config.CategoryMultipliers == nil {
		config.CategoryMultipliers = defaults.CategoryMultipliers
	}
	if config.DefaultHistoryLimit == 0 {
		config.DefaultHistoryLimit = defaults.DefaultHistoryLimit
	}

	return &service{
		ledger:  ledger,
		rewards: rewards,
		cache:   cache,
		config:  config,
	}
}

func (s *service) CalculatePointsForOrder(ctx context.Context, order *models.Order) (int, error) {
	if order.Total < s.config.MinimumOrderValue {
		return 0, nil
	}

	// Minor units to major units for the base calculation.
	points := math.Floor(float64(order.Total) / 100 * s.config.PointsPerUnit)

	earnedCount, err := s.ledger.CountEarned(ctx, order.CustomerID)
	if err != nil {
		return 0, fmt.Errorf("failed to check first order: %w", err)
	}
	if earnedCount == 0 {
		points *= s.config.FirstOrderBonus
	}

	if category := order.Category(); category != "" {
		if multiplier, ok := s.config.CategoryMultipliers[category]; ok {
			points *= multiplier
		}
	}

	final := int(math.Floor(points))
	if final > s.config.MaxPointsPerOrder {
		final = s.config.MaxPointsPerOrder
	}
	return final, nil
}

func (s *service) AwardPoints(ctx context.Context, p AwardParams) error {
	if p.Points <= 0 {
		return domainerrors.ErrInvalidPoints
	}

	if err := s.ledger.Credit(ctx, p.CustomerID, p.Points, p.OrderID, p.Description, p.Metadata); err != nil {
		return fmt.Errorf("failed to award points: %w", err)
	}

	s.invalidateSummary(ctx, p.CustomerID)
	log.Printf("loyalty: awarded %d points to customer %s for order %s", p.Points, p.CustomerID, p.OrderID)
	return nil
}

func (s *service) ReverseOrderPoints(ctx context.Context, p ReverseParams) error {
	points, err := s.ledger.Reverse(ctx, p.CustomerID, p.OrderID, p.Description)
	if err != nil {
		if errors.Is(err, repositories.ErrNothingToReverse) {
			log.Printf("loyalty: no points to reverse for order %s", p.OrderID)
			return nil
		}
		return fmt.Errorf("failed to reverse points: %w", err)
	}

	s.invalidateSummary(ctx, p.CustomerID)
	log.Printf("loyalty: reversed %d points for customer %s from order %s", points, p.CustomerID, p.OrderID)
	return nil
}

func (s *service) RedeemReward(ctx context.Context, customerID string, rewardID uint) (*RedemptionResult, error) {
	reward, err := s.rewards.GetByID(ctx, rewardID)
	if err != nil {
		if errors.Is(err, repositories.ErrRewardNotFound) {
			return nil, domainerrors.ErrRewardNotFound
		}
		return nil, fmt.Errorf("failed to look up reward: %w", err)
	}
	if !reward.IsActive {
		return nil, domainerrors.ErrRewardInactive
	}
	if reward.ValidUntil != nil && reward.ValidUntil.Before(time.Now()) {
		return nil, domainerrors.ErrRewardExpired
	}

	description := fmt.Sprintf("Redeemed points for: %s", reward.Title)
	entry, err := s.ledger.Debit(ctx, customerID, reward.PointsCost, fmt.Sprintf("%d", reward.ID), description)
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientPoints) {
			available := 0
			if account, accErr := s.ledger.GetAccount(ctx, customerID); accErr == nil {
				available = account.TotalPoints
			}
			return nil, &InsufficientPointsError{Required: reward.PointsCost, Available: available}
		}
		return nil, fmt.Errorf("failed to debit points: %w", err)
	}

	s.invalidateSummary(ctx, customerID)

	account, err := s.ledger.GetAccount(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance after redemption: %w", err)
	}

	return &RedemptionResult{
		Transaction:      entry,
		NewPointsBalance: account.TotalPoints,
	}, nil
}

func (s *service) GetAccountSummary(ctx context.Context, customerID string) (*AccountSummary, error) {
	if s.cache != nil {
		var cached AccountSummary
		key := s.cache.GenerateKey(accountCacheEntity, accountCacheKind, customerID)
		if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
			return &cached, nil
		}
	}

	account, err := s.ledger.GetAccount(ctx, customerID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			// Accounts are created lazily; a missing row is a zero balance.
			return &AccountSummary{
				CustomerID:     customerID,
				Tier:           TierBronze,
				NextTierPoints: PointsToNextTier(0),
			}, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	summary := &AccountSummary{
		CustomerID:     account.CustomerID,
		Points:         account.TotalPoints,
		LifetimeEarned: account.LifetimeEarned,
		LifetimeSpent:  account.LifetimeSpent,
		Tier:           TierFor(account.LifetimeEarned),
		NextTierPoints: PointsToNextTier(account.LifetimeEarned),
	}

	if s.cache != nil {
		key := s.cache.GenerateKey(accountCacheEntity, accountCacheKind, customerID)
		if err := s.cache.SetWithTTL(ctx, key, summary, accountCacheTTL); err != nil {
			log.Printf("loyalty: failed to cache summary for %s: %v", customerID, err)
		}
	}
	return summary, nil
}

func (s *service) GetHistory(ctx context.Context, customerID string, limit int) ([]models.LoyaltyTransaction, int64, error) {
	if limit <= 0 || limit > s.config.DefaultHistoryLimit {
		limit = s.config.DefaultHistoryLimit
	}

	txs, err := s.ledger.GetTransactions(ctx, customerID, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get history: %w", err)
	}
	total, err := s.ledger.CountTransactions(ctx, customerID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count history: %w", err)
	}
	return txs, total, nil
}

func (s *service) ListRewards(ctx context.Context) ([]models.Reward, error) {
	return s.rewards.ListActive(ctx, time.Now())
}

func (s *service) invalidateSummary(ctx context.Context, customerID string) {
	if s.cache == nil {
		return
	}
	key := s.cache.GenerateKey(accountCacheEntity, accountCacheKind, customerID)
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Printf("loyalty: failed to invalidate cache for %s: %v", customerID, err)
	}
}
