package repositories

import (
	"context"
	"errors"
	"time"

	"falko/internal/models"
)

var (
	ErrReturnNotFound = errors.New("return not found")
)

// ReturnFilter narrows the admin listing.
type ReturnFilter struct {
	Status     string
	OrderID    string
	CustomerID string
	Limit      int
	Offset     int
}

// ReturnRepository persists returns and their surveys. The return row and
// its survey are created in one database transaction; the survey is
// lifetime-bound to the return (cascade delete).
type ReturnRepository interface {
	CreateWithSurvey(ctx context.Context, ret *models.Return, survey *models.ReturnSurvey) error
	GetByID(ctx context.Context, id string) (*models.Return, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Return, error)
	List(ctx context.Context, filter ReturnFilter) ([]models.Return, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SetShippingLabel(ctx context.Context, id, qrCode, trackingNumber string) error
	MarkRefunded(ctx context.Context, id string, processedAt time.Time) error
}
