package loyalty

import (
	"context"
	"errors"
	"testing"
	"time"

	domainerrors "falko/internal/errors"
	"falko/internal/models"
	"falko/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Credit(ctx context.Context, customerID string, points int, orderID, description string, metadata models.JSON) error {
	args := m.Called(ctx, customerID, points, orderID, description, metadata)
	return args.Error(0)
}

func (m *MockLedger) Debit(ctx context.Context, customerID string, points int, rewardID, description string) (*models.LoyaltyTransaction, error) {
	args := m.Called(ctx, customerID, points, rewardID, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoyaltyTransaction), args.Error(1)
}

func (m *MockLedger) Reverse(ctx context.Context, customerID, orderID, description string) (int, error) {
	args := m.Called(ctx, customerID, orderID, description)
	return args.Int(0), args.Error(1)
}

func (m *MockLedger) GetAccount(ctx context.Context, customerID string) (*models.LoyaltyAccount, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoyaltyAccount), args.Error(1)
}

func (m *MockLedger) GetTransactions(ctx context.Context, customerID string, limit int) ([]models.LoyaltyTransaction, error) {
	args := m.Called(ctx, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LoyaltyTransaction), args.Error(1)
}

func (m *MockLedger) CountTransactions(ctx context.Context, customerID string) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedger) CountEarned(ctx context.Context, customerID string) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

type MockRewards struct {
	mock.Mock
}

func (m *MockRewards) GetByID(ctx context.Context, id uint) (*models.Reward, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reward), args.Error(1)
}

func (m *MockRewards) ListActive(ctx context.Context, now time.Time) ([]models.Reward, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reward), args.Error(1)
}

func newTestService(ledger *MockLedger, rewards *MockRewards) Service {
	return NewService(ledger, rewards, nil, Config{})
}

func TestCalculatePointsForOrder(t *testing.T) {
	tests := []struct {
		name        string
		order       *models.Order
		earnedCount int64
		want        int
	}{
		{
			name:        "standard order earns one point per unit",
			order:       &models.Order{CustomerID: "cus_1", Total: 20000},
			earnedCount: 3,
			want:        200,
		},
		{
			name:        "below minimum earns nothing",
			order:       &models.Order{CustomerID: "cus_1", Total: 4999},
			earnedCount: 0,
			want:        0,
		},
		{
			name:        "exactly at minimum earns",
			order:       &models.Order{CustomerID: "cus_1", Total: 5000},
			earnedCount: 3,
			want:        50,
		},
		{
			name:        "first order doubles the earning",
			order:       &models.Order{CustomerID: "cus_new", Total: 20000},
			earnedCount: 0,
			want:        400,
		},
		{
			name: "new arrivals multiplier",
			order: &models.Order{
				CustomerID: "cus_1",
				Total:      20000,
				Metadata:   models.NewJSON(map[string]interface{}{"category": "new-arrivals"}),
			},
			earnedCount: 3,
			want:        300,
		},
		{
			name: "sale multiplier halves",
			order: &models.Order{
				CustomerID: "cus_1",
				Total:      20000,
				Metadata:   models.NewJSON(map[string]interface{}{"category": "sale"}),
			},
			earnedCount: 3,
			want:        100,
		},
		{
			name: "first order and category stack",
			order: &models.Order{
				CustomerID: "cus_new",
				Total:      20000,
				Metadata:   models.NewJSON(map[string]interface{}{"category": "new-arrivals"}),
			},
			earnedCount: 0,
			want:        600,
		},
		{
			name:        "unknown category is ignored",
			order:       &models.Order{CustomerID: "cus_1", Total: 20000, Metadata: models.NewJSON(map[string]interface{}{"category": "mystery"})},
			earnedCount: 3,
			want:        200,
		},
		{
			name:        "cap applies after multipliers",
			order:       &models.Order{CustomerID: "cus_new", Total: 300000},
			earnedCount: 0,
			want:        1000,
		},
		{
			name:        "fractional points floor",
			order:       &models.Order{CustomerID: "cus_1", Total: 20050},
			earnedCount: 3,
			want:        200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := new(MockLedger)
			rewards := new(MockRewards)
			if tt.order.Total >= 5000 {
				ledger.On("CountEarned", mock.Anything, tt.order.CustomerID).Return(tt.earnedCount, nil)
			}

			s := newTestService(ledger, rewards)
			got, err := s.CalculatePointsForOrder(context.Background(), tt.order)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			ledger.AssertExpectations(t)
		})
	}
}

func TestAwardPoints(t *testing.T) {
	t.Run("credits the ledger", func(t *testing.T) {
		ledger := new(MockLedger)
		rewards := new(MockRewards)
		ledger.On("Credit", mock.Anything, "cus_1", 200, "order_1", "Points for order #42", mock.Anything).Return(nil)

		s := newTestService(ledger, rewards)
		err := s.AwardPoints(context.Background(), AwardParams{
			CustomerID:  "cus_1",
			Points:      200,
			OrderID:     "order_1",
			Description: "Points for order #42",
		})

		assert.NoError(t, err)
		ledger.AssertExpectations(t)
	})

	t.Run("rejects non-positive points", func(t *testing.T) {
		ledger := new(MockLedger)
		rewards := new(MockRewards)

		s := newTestService(ledger, rewards)
		err := s.AwardPoints(context.Background(), AwardParams{CustomerID: "cus_1", Points: 0})

		assert.ErrorIs(t, err, domainerrors.ErrInvalidPoints)
		ledger.AssertNotCalled(t, "Credit")
	})
}

func TestReverseOrderPoints(t *testing.T) {
	t.Run("reverses through the ledger", func(t *testing.T) {
		ledger := new(MockLedger)
		rewards := new(MockRewards)
		ledger.On("Reverse", mock.Anything, "cus_1", "order_1", "Points reversal for canceled order #42").Return(200, nil)

		s := newTestService(ledger, rewards)
		err := s.ReverseOrderPoints(context.Background(), ReverseParams{
			CustomerID:  "cus_1",
			OrderID:     "order_1",
			Description: "Points reversal for canceled order #42",
		})

		assert.NoError(t, err)
		ledger.AssertExpectations(t)
	})

	t.Run("nothing to reverse is not an error", func(t *testing.T) {
		ledger := new(MockLedger)
		rewards := new(MockRewards)
		ledger.On("Reverse", mock.Anything, "cus_1", "order_1", mock.Anything).Return(0, repositories.ErrNothingToReverse)

		s := newTestService(ledger, rewards)
		err := s.ReverseOrderPoints(context.Background(), ReverseParams{CustomerID: "cus_1", OrderID: "order_1"})

		assert.NoError(t, err)
	})

	t.Run("other ledger failures propagate", func(t *testing.T) {
		ledger := new(MockLedger)
		rewards := new(MockRewards)
		ledger.On("Reverse", mock.Anything, "cus_1", "order_1", mock.Anything).Return(0, errors.New("connection reset"))

		s := newTestService(ledger, rewards)
		err := s.ReverseOrderPoints(context.Background(), ReverseParams{CustomerID: "cus_1", OrderID: "order_1"})

		assert.Error(t, err)
	})
}

func TestRedeemReward(t *testing.T) {
	activeReward := func() *models.Reward {
		return &models.Reward{ID: 7, Title: "Darmowa dostawa", PointsCost: 300, IsActive: true}
	}

	t.Run("successful redemption", func(t *testing.T) {
		ledger := new(MockLedger)
		rewards := new(MockRewards)
		rewards.On("GetByID", mock.Anything, uint(7)).Return(activeReward(), nil)
		entry := &models.LoyaltyTransaction{CustomerID: "cus_1", Type: models.TransactionTypeSpent, Points: 300}
		ledger.On("Debit", mock.Anything, "cus_1", 300, "7", "Redeemed points for: Darmowa dostawa").Return(entry, nil)
		ledger.On("GetAccount", mock.Anything, "cus_1").Return(&models.LoyaltyAccount{CustomerID: "cus_1", TotalPoints: 200}, nil)

		s := newTestService(ledger, rewards)
		result, err := s.RedeemReward(context.Background(), "cus_1", 7)

		assert.NoError(t, err)
		assert.Equal(t, entry, result.Transaction)
		assert.Equal(t, 200, result.NewPointsBalance)
		ledger.AssertExpectations(t)
	})

	t.Run("partial redemption leaves the remainder", func(t *testing.T) {
		ledger := new(MockLedger)
		rewards := new(MockRewards)
		rewards.On("GetByID", mock.Anything, uint(3)).Return(&models.Reward{ID: 3, Title: "50 PLN Zniżka", PointsCost: 500, IsActive: true}, nil)
		entry := &models.LoyaltyTransaction{Points: 500}
		ledger.On("Debit", mock.Anything, "cus_1", 500, "3", mock.Anything).Return(entry, nil)
		ledger.On("GetAccount", mock.Anything, "cus_1").Return(&models.LoyaltyAccount{CustomerID: "cus_1", TotalPoints: 750}, nil)

		s := newTestService(ledger, rewards)
		result, err := s.RedeemReward(context.Background(), "cus_1", 3)

		assert.NoError(t, err)
		assert.Equal(t, 750, result.NewPointsBalance)
	})

	t.Run("exact balance redeems to zero", func(t *testing.T) {
		ledger := new(MockLedger)
		rewards := new(MockRewards)
		rewards.On("GetByID", mock.Anything, uint(7)).Return(activeReward(), nil)
		entry := &models.LoyaltyTransaction{Points: 300}
		ledger.On("Debit", mock.Anything, "cus_1", 300, "7", mock.Anything).Return(entry, nil)
		ledger.On("GetAccount", mock.Anything, "cus_1").Return(&models.LoyaltyAccount{CustomerID: "cus_1", TotalPoints: 0}, nil)

		s := newTestService(ledger, rewards)
		result, err := s.RedeemReward(context.Background(), "cus_1", 7)

		assert.NoError(t, err)
		assert.Equal(t, 0, result.NewPointsBalance)
	})

	t.Run("insufficient points reports required and available", func(t *testing.T) {
		ledger := new(MockLedger)
		rewards := new(MockRewards)
		rewards.On("GetByID", mock.Anything, uint(7)).Return(activeReward(), nil)
		ledger.On("Debit", mock.Anything, "cus_1", 300, "7", mock.Anything).Return(nil, repositories.ErrInsufficientPoints)
		ledger.On("GetAccount", mock.Anything, "cus_1").Return(&models.LoyaltyAccount{CustomerID: "cus_1", TotalPoints: 299}, nil)

		s := newTestService(ledger, rewards)
		result, err := s.RedeemReward(context.Background(), "cus_1", 7)

		assert.Nil(t, result)
		var insufficient *InsufficientPointsError
		assert.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 300, insufficient.Required)
		assert.Equal(t, 299, insufficient.Available)
	})

	t.Run("unknown reward", func(t *testing.T) {
		ledger := new(MockLedger)
		rewards := new(MockRewards)
		rewards.On("GetByID", mock.Anything, uint(99)).Return(nil, repositories.ErrRewardNotFound)

		s := newTestService(ledger, rewards)
		_, err := s.RedeemReward(context.Background(), "cus_1", 99)

		assert.ErrorIs(t, err, domainerrors.ErrRewardNotFound)
		ledger.AssertNotCalled(t, "Debit")
	})

	t.Run("inactive reward", func(t *testing.T) {
		ledger := new(MockLedger)
		rewards := new(MockRewards)
		reward := activeReward()
		reward.IsActive = false
		rewards.On("GetByID", mock.Anything, uint(7)).Return(reward, nil)

		s := newTestService(ledger, rewards)
		_, err := s.RedeemReward(context.Background(), "cus_1", 7)

		assert.ErrorIs(t, err, domainerrors.ErrRewardInactive)
		ledger.AssertNotCalled(t, "Debit")
	})

	t.Run("expired reward", func(t *testing.T) {
		ledger := new(MockLedger)
		rewards := new(MockRewards)
		reward := activeReward()
		past := time.Now().Add(-time.Hour)
		reward.ValidUntil = &past
		rewards.On("GetByID", mock.Anything, uint(7)).Return(reward, nil)

		s := newTestService(ledger, rewards)
		_, err := s.RedeemReward(context.Background(), "cus_1", 7)

		assert.ErrorIs(t, err, domainerrors.ErrRewardExpired)
		ledger.AssertNotCalled(t, "Debit")
	})
}

func TestGetAccountSummary(t *testing.T) {
	t.Run("existing account", func(t *testing.T) {
		ledger := new(MockLedger)
		rewards := new(MockRewards)
		ledger.On("GetAccount", mock.Anything, "cus_1").Return(&models.LoyaltyAccount{
			CustomerID:     "cus_1",
			TotalPoints:    450,
			LifetimeEarned: 1200,
			LifetimeSpent:  750,
		}, nil)

		s := newTestService(ledger, rewards)
		summary, err := s.GetAccountSummary(context.Background(), "cus_1")

		assert.NoError(t, err)
		assert.Equal(t, 450, summary.Points)
		assert.Equal(t, TierSilver, summary.Tier)
		assert.Equal(t, 800, summary.NextTierPoints)
	})

	t.Run("missing account is a zero balance", func(t *testing.T) {
		ledger := new(MockLedger)
		rewards := new(MockRewards)
		ledger.On("GetAccount", mock.Anything, "cus_ghost").Return(nil, repositories.ErrAccountNotFound)

		s := newTestService(ledger, rewards)
		summary, err := s.GetAccountSummary(context.Background(), "cus_ghost")

		assert.NoError(t, err)
		assert.Equal(t, 0, summary.Points)
		assert.Equal(t, TierBronze, summary.Tier)
		assert.Equal(t, 1000, summary.NextTierPoints)
	})
}

func TestGetHistory(t *testing.T) {
	ledger := new(MockLedger)
	rewards := new(MockRewards)
	txs := []models.LoyaltyTransaction{
		{CustomerID: "cus_1", Type: models.TransactionTypeEarned, Points: 200},
		{CustomerID: "cus_1", Type: models.TransactionTypeSpent, Points: 300},
	}
	ledger.On("GetTransactions", mock.Anything, "cus_1", 50).Return(txs, nil)
	ledger.On("CountTransactions", mock.Anything, "cus_1").Return(int64(12), nil)

	s := newTestService(ledger, rewards)
	got, total, err := s.GetHistory(context.Background(), "cus_1", 0)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(12), total)
}
