package service

import (
	"context"
	"fmt"
	"time"

	"shopkart/internal/model"
	"shopkart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderService converts cart snapshots into immutable orders. The source
// cart is never mutated or deleted: cart and order lifetimes are independent
// so a failed payment cannot lose pre-checkout state.
type OrderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// BuildOrder snapshots the user's cart into a new immutable order. Every
// line item is value-copied, totals are summed independently of the cart's
// aggregates, and the order starts as (PENDING, PENDING).
func (s *OrderService) BuildOrder(ctx context.Context, userID uuid.UUID) (*model.Order, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		return nil, model.ErrCartNotFound
	}
	if len(cart.Items) == 0 {
		return nil, model.ErrEmptyCart
	}

	order := &model.Order{
		ID:          uuid.New(),
		UserID:      userID,
		OrderStatus: model.OrderStatusPending,
		Payment:     model.PaymentDetails{Status: model.PaymentStatusPending},
		CreatedAt:   time.Now(),
	}

	items := make([]model.OrderItem, len(cart.Items))
	for i, ci := range cart.Items {
		items[i] = model.OrderItem{
			ID:              uuid.New(),
			OrderID:         order.ID,
			ProductID:       ci.ProductID,
			Size:            ci.Size,
			Quantity:        ci.Quantity,
			UnitPrice:       ci.UnitPrice,
			Price:           ci.Price,
			DiscountedPrice: ci.DiscountedPrice,
		}
		order.TotalPrice += ci.Price
		order.TotalDiscountedPrice += ci.DiscountedPrice
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to build order: %w", err)
	}

	if err = s.orderRepo.CreateItems(ctx, tx, items); err != nil {
		return nil, fmt.Errorf("failed to build order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to build order: %w", err)
	}

	order.Items = items

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Int("item_count", len(items)).
		Int64("total", order.TotalPrice).
		Msg("order built from cart")

	return order, nil
}

// GetByID retrieves one of the user's orders. Orders belonging to other
// users are reported as not found.
func (s *OrderService) GetByID(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// History retrieves the user's orders, newest first.
func (s *OrderService) History(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order history: %w", err)
	}

	return orders, nil
}
