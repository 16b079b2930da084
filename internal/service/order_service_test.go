package service

import (
	"context"
	"errors"
	"testing"

	"shopkart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderService_BuildOrder(t *testing.T) {
	logger := zerolog.Nop()
	userID := uuid.New()

	newCart := func() *model.Cart {
		return &model.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Items: []model.CartItem{
				{
					ID:                  uuid.New(),
					ProductID:           uuid.New(),
					Size:                "M",
					Quantity:            3,
					UnitPrice:           500,
					UnitDiscountedPrice: 450,
					Price:               1500,
					DiscountedPrice:     1350,
				},
				{
					ID:                  uuid.New(),
					ProductID:           uuid.New(),
					Size:                "6",
					Quantity:            1,
					UnitPrice:           1200,
					UnitDiscountedPrice: 1000,
					Price:               1200,
					DiscountedPrice:     1000,
				},
			},
		}
	}

	t.Run("snapshots cart into a pending order", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		cartRepo := new(MockCartRepository)
		tx := new(MockTx)
		svc := NewOrderService(orderRepo, cartRepo, logger)

		cart := newCart()
		cartRepo.On("GetByUserID", mock.Anything, userID).Return(cart, nil)
		orderRepo.On("BeginTx", mock.Anything).Return(tx, nil)
		orderRepo.On("Create", mock.Anything, tx, mock.MatchedBy(func(o *model.Order) bool {
			return o.UserID == userID &&
				o.OrderStatus == model.OrderStatusPending &&
				o.Payment.Status == model.PaymentStatusPending &&
				o.Payment.PaymentID == nil &&
				o.GatewayOrderID == nil
		})).Return(nil)
		orderRepo.On("CreateItems", mock.Anything, tx, mock.Anything).Return(nil)
		tx.On("Commit", mock.Anything).Return(nil)

		order, err := svc.BuildOrder(context.Background(), userID)

		require.NoError(t, err)
		assert.Equal(t, int64(2700), order.TotalPrice)
		assert.Equal(t, int64(2350), order.TotalDiscountedPrice)
		assert.Len(t, order.Items, 2)
		assert.True(t, tx.committed)
		orderRepo.AssertExpectations(t)
	})

	t.Run("order items are value copies independent of the cart", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		cartRepo := new(MockCartRepository)
		tx := new(MockTx)
		svc := NewOrderService(orderRepo, cartRepo, logger)

		cart := newCart()
		cartRepo.On("GetByUserID", mock.Anything, userID).Return(cart, nil)
		orderRepo.On("BeginTx", mock.Anything).Return(tx, nil)
		orderRepo.On("Create", mock.Anything, tx, mock.Anything).Return(nil)
		orderRepo.On("CreateItems", mock.Anything, tx, mock.Anything).Return(nil)
		tx.On("Commit", mock.Anything).Return(nil)

		order, err := svc.BuildOrder(context.Background(), userID)
		require.NoError(t, err)

		// Mutating the cart after checkout must not change the snapshot.
		cart.Items[0].Quantity = 99
		cart.Items[0].Price = 49500

		assert.Equal(t, 3, order.Items[0].Quantity)
		assert.Equal(t, int64(1500), order.Items[0].Price)
		assert.NotEqual(t, cart.Items[0].ID, order.Items[0].ID)
		assert.Equal(t, order.ID, order.Items[0].OrderID)
	})

	t.Run("cart is left untouched", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		cartRepo := new(MockCartRepository)
		tx := new(MockTx)
		svc := NewOrderService(orderRepo, cartRepo, logger)

		cart := newCart()
		cartRepo.On("GetByUserID", mock.Anything, userID).Return(cart, nil)
		orderRepo.On("BeginTx", mock.Anything).Return(tx, nil)
		orderRepo.On("Create", mock.Anything, tx, mock.Anything).Return(nil)
		orderRepo.On("CreateItems", mock.Anything, tx, mock.Anything).Return(nil)
		tx.On("Commit", mock.Anything).Return(nil)

		_, err := svc.BuildOrder(context.Background(), userID)
		require.NoError(t, err)

		assert.Len(t, cart.Items, 2)
		cartRepo.AssertNotCalled(t, "DeleteItem", mock.Anything, mock.Anything)
		cartRepo.AssertNotCalled(t, "UpdateItemQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty cart", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		cartRepo := new(MockCartRepository)
		svc := NewOrderService(orderRepo, cartRepo, logger)

		cartRepo.On("GetByUserID", mock.Anything, userID).Return(&model.Cart{ID: uuid.New(), UserID: userID}, nil)

		order, err := svc.BuildOrder(context.Background(), userID)

		assert.ErrorIs(t, err, model.ErrEmptyCart)
		assert.Nil(t, order)
		orderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
	})

	t.Run("user without cart", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		cartRepo := new(MockCartRepository)
		svc := NewOrderService(orderRepo, cartRepo, logger)

		cartRepo.On("GetByUserID", mock.Anything, userID).Return(nil, nil)

		order, err := svc.BuildOrder(context.Background(), userID)

		assert.ErrorIs(t, err, model.ErrCartNotFound)
		assert.Nil(t, order)
	})

	t.Run("item insert failure rolls the transaction back", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		cartRepo := new(MockCartRepository)
		tx := new(MockTx)
		svc := NewOrderService(orderRepo, cartRepo, logger)

		cartRepo.On("GetByUserID", mock.Anything, userID).Return(newCart(), nil)
		orderRepo.On("BeginTx", mock.Anything).Return(tx, nil)
		orderRepo.On("Create", mock.Anything, tx, mock.Anything).Return(nil)
		orderRepo.On("CreateItems", mock.Anything, tx, mock.Anything).Return(errors.New("insert failed"))
		tx.On("Rollback", mock.Anything).Return(nil)

		order, err := svc.BuildOrder(context.Background(), userID)

		assert.Error(t, err)
		assert.Nil(t, order)
		assert.True(t, tx.rolledBack)
		tx.AssertNotCalled(t, "Commit", mock.Anything)
	})
}

func TestOrderService_GetByID(t *testing.T) {
	logger := zerolog.Nop()
	userID := uuid.New()
	orderID := uuid.New()

	t.Run("returns own order", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		cartRepo := new(MockCartRepository)
		svc := NewOrderService(orderRepo, cartRepo, logger)

		order := &model.Order{ID: orderID, UserID: userID}
		orderRepo.On("GetByID", mock.Anything, orderID).Return(order, nil)

		got, err := svc.GetByID(context.Background(), userID, orderID)

		require.NoError(t, err)
		assert.Equal(t, orderID, got.ID)
	})

	t.Run("another user's order is reported as not found", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		cartRepo := new(MockCartRepository)
		svc := NewOrderService(orderRepo, cartRepo, logger)

		order := &model.Order{ID: orderID, UserID: uuid.New()}
		orderRepo.On("GetByID", mock.Anything, orderID).Return(order, nil)

		got, err := svc.GetByID(context.Background(), userID, orderID)

		assert.ErrorIs(t, err, model.ErrOrderNotFound)
		assert.Nil(t, got)
	})

	t.Run("unknown order", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		cartRepo := new(MockCartRepository)
		svc := NewOrderService(orderRepo, cartRepo, logger)

		orderRepo.On("GetByID", mock.Anything, orderID).Return(nil, nil)

		got, err := svc.GetByID(context.Background(), userID, orderID)

		assert.ErrorIs(t, err, model.ErrOrderNotFound)
		assert.Nil(t, got)
	})
}

func TestOrderService_History(t *testing.T) {
	logger := zerolog.Nop()
	userID := uuid.New()

	t.Run("returns user's orders", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		cartRepo := new(MockCartRepository)
		svc := NewOrderService(orderRepo, cartRepo, logger)

		orders := []model.Order{
			{ID: uuid.New(), UserID: userID, OrderStatus: model.OrderStatusPlaced},
			{ID: uuid.New(), UserID: userID, OrderStatus: model.OrderStatusPending},
		}
		orderRepo.On("GetByUserID", mock.Anything, userID).Return(orders, nil)

		got, err := svc.History(context.Background(), userID)

		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("no orders yields empty slice", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		cartRepo := new(MockCartRepository)
		svc := NewOrderService(orderRepo, cartRepo, logger)

		orderRepo.On("GetByUserID", mock.Anything, userID).Return([]model.Order{}, nil)

		got, err := svc.History(context.Background(), userID)

		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
