package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"falko/internal/models"

	"gorm.io/gorm"
)

var ErrRewardNotFound = errors.New("reward not found")

// RewardRepository reads the redeemable rewards catalog.
type RewardRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Reward, error)
	ListActive(ctx context.Context, now time.Time) ([]models.Reward, error)
}

type rewardRepository struct {
	db *gorm.DB
}

func NewRewardRepository(db *gorm.DB) RewardRepository {
	return &rewardRepository{db: db}
}

func (r *rewardRepository) GetByID(ctx context.Context, id uint) (*models.Reward, error) {
	var reward models.Reward
	if err := r.db.WithContext(ctx).First(&reward, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRewardNotFound
		}
		return nil, fmt.Errorf("failed to get reward: %w", err)
	}
	return &reward, nil
}

func (r *rewardRepository) ListActive(ctx context.Context, now time.Time) ([]models.Reward, error) {
	var rewards []models.Reward
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("valid_until IS NULL OR valid_until > ?", now).
		Order("points_cost ASC").
		Find(&rewards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}
	return rewards, nil
}
