package repositories

import (
	"context"
	"fmt"

	"falko/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

// lockAccount loads the customer's account under FOR UPDATE, creating it
// first when missing. The insert uses ON CONFLICT DO NOTHING so two
// first-time writers cannot both create the row.
func lockAccount(tx *gorm.DB, customerID string) (*models.LoyaltyAccount, error) {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.LoyaltyAccount{CustomerID: customerID}).Error; err != nil {
		return nil, fmt.Errorf("failed to ensure account: %w", err)
	}

	var account models.LoyaltyAccount
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ?", customerID).
		First(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	return &account, nil
}

func (r *ledgerRepository) Credit(ctx context.Context, customerID string, points int, orderID, description string, metadata models.JSON) error {
	if points <= 0 {
		return ErrInvalidPoints
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, customerID)
		if err != nil {
			return err
		}

		entry := &models.LoyaltyTransaction{
			CustomerID:  customerID,
			Type:        models.TransactionTypeEarned,
			Points:      points,
			Description: description,
			OrderID:     orderID,
			Metadata:    metadata,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to record earned transaction: %w", err)
		}

		account.TotalPoints += points
		account.LifetimeEarned += points
		if err := tx.Save(account).Error; err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}
		return nil
	})
}

func (r *ledgerRepository) Debit(ctx context.Context, customerID string, points int, rewardID, description string) (*models.LoyaltyTransaction, error) {
	if points <= 0 {
		return nil, ErrInvalidPoints
	}

	var entry *models.LoyaltyTransaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account models.LoyaltyAccount
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("customer_id = ?", customerID).
			First(&account).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrInsufficientPoints
			}
			return fmt.Errorf("failed to lock account: %w", err)
		}

		if account.TotalPoints < points {
			return ErrInsufficientPoints
		}

		entry = &models.LoyaltyTransaction{
			CustomerID:  customerID,
			Type:        models.TransactionTypeSpent,
			Points:      points,
			Description: description,
			RewardID:    rewardID,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to record spent transaction: %w", err)
		}

		account.TotalPoints -= points
		account.LifetimeSpent += points
		if err := tx.Save(&account).Error; err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *ledgerRepository) Reverse(ctx context.Context, customerID, orderID, description string) (int, error) {
	reversed := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account models.LoyaltyAccount
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("customer_id = ?", customerID).
			First(&account).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNothingToReverse
			}
			return fmt.Errorf("failed to lock account: %w", err)
		}

		var earned models.LoyaltyTransaction
		err := tx.Where("customer_id = ? AND order_id = ? AND type = ?",
			customerID, orderID, models.TransactionTypeEarned).
			Order("created_at DESC").
			First(&earned).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNothingToReverse
			}
			return fmt.Errorf("failed to find earned transaction: %w", err)
		}

		// A refunded entry newer than the earning means this earning was
		// already reversed; a second reversal would double-deduct.
		var alreadyReversed int64
		err = tx.Model(&models.LoyaltyTransaction{}).
			Where("customer_id = ? AND order_id = ? AND type = ? AND created_at >= ?",
				customerID, orderID, models.TransactionTypeRefunded, earned.CreatedAt).
			Count(&alreadyReversed).Error
		if err != nil {
			return fmt.Errorf("failed to check prior reversals: %w", err)
		}
		if alreadyReversed > 0 {
			return ErrNothingToReverse
		}

		entry := &models.LoyaltyTransaction{
			CustomerID:  customerID,
			Type:        models.TransactionTypeRefunded,
			Points:      earned.Points,
			Description: description,
			OrderID:     orderID,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to record refunded transaction: %w", err)
		}

		// Prior debits may already have consumed the points; floor at zero.
		account.TotalPoints -= earned.Points
		if account.TotalPoints < 0 {
			account.TotalPoints = 0
		}
		if err := tx.Save(&account).Error; err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}

		reversed = earned.Points
		return nil
	})
	if err != nil {
		return 0, err
	}
	return reversed, nil
}

func (r *ledgerRepository) GetAccount(ctx context.Context, customerID string) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *ledgerRepository) GetTransactions(ctx context.Context, customerID string, limit int) ([]models.LoyaltyTransaction, error) {
	var txs []models.LoyaltyTransaction
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return txs, nil
}

func (r *ledgerRepository) CountTransactions(ctx context.Context, customerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LoyaltyTransaction{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func (r *ledgerRepository) CountEarned(ctx context.Context, customerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LoyaltyTransaction{}).
		Where("customer_id = ? AND type = ?", customerID, models.TransactionTypeEarned).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count earned transactions: %w", err)
	}
	return count, nil
}
