package repositories

import (
	"context"
	"errors"
	"fmt"

	"falko/internal/models"

	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository is a read-only view over the storefront's orders. The one
// write, StampTrackingNumber, is a best-effort side write and not part of
// the return state machine's correctness.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*models.Order, error)
	StampTrackingNumber(ctx context.Context, id, trackingNumber string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) StampTrackingNumber(ctx context.Context, id, trackingNumber string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("furgonetka_tracking_number", trackingNumber)
	if result.Error != nil {
		return fmt.Errorf("failed to stamp tracking number: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
