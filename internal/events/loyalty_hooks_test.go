package events

import (
	"context"
	"testing"
	"time"

	"falko/internal/models"
	"falko/internal/repositories"
	"falko/internal/services/email"
	"falko/internal/services/loyalty"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockOrders struct {
	mock.Mock
}

func (m *MockOrders) GetByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrders) StampTrackingNumber(ctx context.Context, id, trackingNumber string) error {
	args := m.Called(ctx, id, trackingNumber)
	return args.Error(0)
}

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) CalculatePointsForOrder(ctx context.Context, order *models.Order) (int, error) {
	args := m.Called(ctx, order)
	return args.Int(0), args.Error(1)
}

func (m *MockEngine) AwardPoints(ctx context.Context, p loyalty.AwardParams) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockEngine) ReverseOrderPoints(ctx context.Context, p loyalty.ReverseParams) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockPointsMailer struct {
	mock.Mock
}

func (m *MockPointsMailer) SendPointsEarned(ctx context.Context, data email.PointsEarnedData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func paidOrder() *models.Order {
	return &models.Order{
		ID:         "order_1",
		DisplayID:  42,
		CustomerID: "cus_1",
		Email:      "anna@example.com",
		Status:     models.OrderStatusCompleted,
		Total:      20000,
		CreatedAt:  time.Now().Add(-time.Hour),
	}
}

func TestHandleOrderPaymentCaptured(t *testing.T) {
	t.Run("awards calculated points", func(t *testing.T) {
		orders := new(MockOrders)
		engine := new(MockEngine)
		mailer := new(MockPointsMailer)

		orders.On("GetByID", mock.Anything, "order_1").Return(paidOrder(), nil)
		engine.On("CalculatePointsForOrder", mock.Anything, mock.Anything).Return(200, nil)
		engine.On("AwardPoints", mock.Anything, mock.MatchedBy(func(p loyalty.AwardParams) bool {
			return p.CustomerID == "cus_1" && p.Points == 200 && p.OrderID == "order_1"
		})).Return(nil)
		mailer.On("SendPointsEarned", mock.Anything, mock.Anything).Return(nil)

		h := NewLoyaltyHooks(orders, engine, mailer)
		err := h.HandleOrderPaymentCaptured(context.Background(), OrderEvent{OrderID: "order_1"})

		assert.NoError(t, err)
		engine.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("guest order earns nothing", func(t *testing.T) {
		orders := new(MockOrders)
		engine := new(MockEngine)

		guest := paidOrder()
		guest.CustomerID = ""
		orders.On("GetByID", mock.Anything, "order_1").Return(guest, nil)

		h := NewLoyaltyHooks(orders, engine, nil)
		err := h.HandleOrderPaymentCaptured(context.Background(), OrderEvent{OrderID: "order_1"})

		assert.NoError(t, err)
		engine.AssertNotCalled(t, "AwardPoints")
	})

	t.Run("zero-value order earns nothing", func(t *testing.T) {
		orders := new(MockOrders)
		engine := new(MockEngine)

		free := paidOrder()
		free.Total = 0
		orders.On("GetByID", mock.Anything, "order_1").Return(free, nil)

		h := NewLoyaltyHooks(orders, engine, nil)
		err := h.HandleOrderPaymentCaptured(context.Background(), OrderEvent{OrderID: "order_1"})

		assert.NoError(t, err)
		engine.AssertNotCalled(t, "CalculatePointsForOrder")
	})

	t.Run("below-minimum order skips the award", func(t *testing.T) {
		orders := new(MockOrders)
		engine := new(MockEngine)

		orders.On("GetByID", mock.Anything, "order_1").Return(paidOrder(), nil)
		engine.On("CalculatePointsForOrder", mock.Anything, mock.Anything).Return(0, nil)

		h := NewLoyaltyHooks(orders, engine, nil)
		err := h.HandleOrderPaymentCaptured(context.Background(), OrderEvent{OrderID: "order_1"})

		assert.NoError(t, err)
		engine.AssertNotCalled(t, "AwardPoints")
	})

	t.Run("wrong payload type", func(t *testing.T) {
		h := NewLoyaltyHooks(new(MockOrders), new(MockEngine), nil)
		err := h.HandleOrderPaymentCaptured(context.Background(), "not an event")
		assert.Error(t, err)
	})
}

func TestHandleOrderCanceled(t *testing.T) {
	t.Run("reverses the order points", func(t *testing.T) {
		orders := new(MockOrders)
		engine := new(MockEngine)

		orders.On("GetByID", mock.Anything, "order_1").Return(paidOrder(), nil)
		engine.On("ReverseOrderPoints", mock.Anything, mock.MatchedBy(func(p loyalty.ReverseParams) bool {
			return p.CustomerID == "cus_1" && p.OrderID == "order_1"
		})).Return(nil)

		h := NewLoyaltyHooks(orders, engine, nil)
		err := h.HandleOrderCanceled(context.Background(), OrderEvent{OrderID: "order_1"})

		assert.NoError(t, err)
		engine.AssertExpectations(t)
	})

	t.Run("missing order is skipped", func(t *testing.T) {
		orders := new(MockOrders)
		engine := new(MockEngine)

		orders.On("GetByID", mock.Anything, "order_x").Return(nil, repositories.ErrOrderNotFound)

		h := NewLoyaltyHooks(orders, engine, nil)
		err := h.HandleOrderCanceled(context.Background(), OrderEvent{OrderID: "order_x"})

		assert.NoError(t, err)
		engine.AssertNotCalled(t, "ReverseOrderPoints")
	})
}

func TestHandleReturnReceived(t *testing.T) {
	orders := new(MockOrders)
	engine := new(MockEngine)

	orders.On("GetByID", mock.Anything, "order_1").Return(paidOrder(), nil)
	engine.On("ReverseOrderPoints", mock.Anything, mock.MatchedBy(func(p loyalty.ReverseParams) bool {
		return p.CustomerID == "cus_1" && p.OrderID == "order_1"
	})).Return(nil)

	h := NewLoyaltyHooks(orders, engine, nil)
	err := h.HandleReturnReceived(context.Background(), ReturnReceivedEvent{ReturnID: "ret_1", OrderID: "order_1"})

	assert.NoError(t, err)
	engine.AssertExpectations(t)
}

func TestRegisterRoutesEventsToHandlers(t *testing.T) {
	orders := new(MockOrders)
	engine := new(MockEngine)

	orders.On("GetByID", mock.Anything, "order_1").Return(paidOrder(), nil)
	engine.On("ReverseOrderPoints", mock.Anything, mock.Anything).Return(nil)

	d := NewDispatcher()
	NewLoyaltyHooks(orders, engine, nil).Register(d)

	d.Publish(context.Background(), OrderCanceled, OrderEvent{OrderID: "order_1"})

	engine.AssertCalled(t, "ReverseOrderPoints", mock.Anything, mock.Anything)
}
