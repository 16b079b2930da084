package service

import (
	"context"
	"fmt"

	"shopkart/internal/model"
	"shopkart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartItemService owns mutation of individual cart line items by id.
// Ownership is always re-checked against the requesting user.
type CartItemService struct {
	cartRepo repository.CartRepository
	logger   zerolog.Logger
}

// NewCartItemService creates a new cart item service.
func NewCartItemService(cartRepo repository.CartRepository, logger zerolog.Logger) *CartItemService {
	return &CartItemService{
		cartRepo: cartRepo,
		logger:   logger.With().Str("service", "cart_item").Logger(),
	}
}

// UpdateItem changes an item's quantity and re-derives its price fields.
func (s *CartItemService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req *model.UpdateItemRequest) (*model.CartItem, error) {
	if req.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	price := model.ComputeLineTotal(item.UnitPrice, req.Quantity)
	discounted := model.ComputeLineTotal(item.UnitDiscountedPrice, req.Quantity)

	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.cartRepo.UpdateItemQuantity(ctx, tx, item.ID, req.Quantity, price, discounted); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	item.Quantity = req.Quantity
	item.Price = price
	item.DiscountedPrice = discounted

	s.logger.Debug().
		Str("item_id", item.ID.String()).
		Int("quantity", req.Quantity).
		Msg("cart item updated")

	return item, nil
}

// RemoveItem deletes an item from the requesting user's cart.
func (s *CartItemService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	if err := s.cartRepo.DeleteItem(ctx, item.ID); err != nil {
		return err
	}

	s.logger.Debug().
		Str("item_id", item.ID.String()).
		Str("user_id", userID.String()).
		Msg("cart item removed")

	return nil
}

// ownedItem loads an item and verifies the requesting user owns its cart.
func (s *CartItemService) ownedItem(ctx context.Context, userID, itemID uuid.UUID) (*model.CartItem, error) {
	item, err := s.cartRepo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up cart item: %w", err)
	}
	if item == nil {
		return nil, model.ErrCartItemNotFound
	}

	ownerID, err := s.cartRepo.GetCartOwner(ctx, item.CartID)
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		s.logger.Warn().
			Str("item_id", itemID.String()).
			Str("user_id", userID.String()).
			Msg("cart item ownership check failed")
		return nil, model.ErrNotCartOwner
	}

	return item, nil
}
