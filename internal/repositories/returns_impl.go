package repositories

import (
	"context"
	"fmt"
	"time"

	"falko/internal/models"

	"gorm.io/gorm"
)

type returnRepository struct {
	db *gorm.DB
}

func NewReturnRepository(db *gorm.DB) ReturnRepository {
	return &returnRepository{db: db}
}

func (r *returnRepository) CreateWithSurvey(ctx context.Context, ret *models.Return, survey *models.ReturnSurvey) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ret).Error; err != nil {
			return fmt.Errorf("failed to create return: %w", err)
		}
		survey.ReturnID = ret.ID
		if err := tx.Create(survey).Error; err != nil {
			return fmt.Errorf("failed to create return survey: %w", err)
		}
		return nil
	})
}

func (r *returnRepository) GetByID(ctx context.Context, id string) (*models.Return, error) {
	var ret models.Return
	if err := r.db.WithContext(ctx).Preload("Survey").First(&ret, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrReturnNotFound
		}
		return nil, fmt.Errorf("failed to get return: %w", err)
	}
	return &ret, nil
}

func (r *returnRepository) ListByCustomer(ctx context.Context, customerID string) ([]models.Return, error) {
	var rets []models.Return
	err := r.db.WithContext(ctx).
		Preload("Survey").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&rets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list customer returns: %w", err)
	}
	return rets, nil
}

func (r *returnRepository) List(ctx context.Context, filter ReturnFilter) ([]models.Return, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Return{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.OrderID != "" {
		q = q.Where("order_id = ?", filter.OrderID)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count returns: %w", err)
	}

	var rets []models.Return
	err := q.Preload("Survey").
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rets).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list returns: %w", err)
	}
	return rets, total, nil
}

func (r *returnRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Return{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update return status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReturnNotFound
	}
	return nil
}

func (r *returnRepository) SetShippingLabel(ctx context.Context, id, qrCode, trackingNumber string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Return{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"furgonetka_qr_code":         qrCode,
			"furgonetka_tracking_number": trackingNumber,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set shipping label: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReturnNotFound
	}
	return nil
}

func (r *returnRepository) MarkRefunded(ctx context.Context, id string, processedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Return{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.ReturnStatusRefunded,
			"processed_at": processedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark return refunded: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReturnNotFound
	}
	return nil
}
