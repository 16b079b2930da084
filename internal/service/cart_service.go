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

// CartService owns cart creation and the merge-on-add rule: at most one line
// item exists per (product, size) tuple, and adding the same combination
// again increments the existing row.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, logger zerolog.Logger) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// CreateCart creates and persists exactly one empty cart for the user.
// A second call for the same user fails with model.ErrDuplicateCart.
func (s *CartService) CreateCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	now := time.Now()
	cart := &model.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("cart_id", cart.ID.String()).
		Str("user_id", userID.String()).
		Msg("cart created")

	return cart, nil
}

// AddItem adds a product to the user's cart. If a line item for the same
// (product, size) already exists its quantity is incremented and its price
// fields re-derived; otherwise a new line item is created. The whole
// read-check-write sequence runs under the cart's row lock so concurrent
// adds cannot produce duplicate rows.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req *model.AddItemRequest) (*model.CartItem, error) {
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		s.logger.Warn().Str("product_id", req.ProductID.String()).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	cart, err := s.cartRepo.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	if cart == nil {
		err = model.ErrCartNotFound
		return nil, err
	}

	existing, err := s.cartRepo.GetItemInCart(ctx, tx, cart.ID, product.ID, req.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	var item *model.CartItem
	if existing != nil {
		newQuantity := existing.Quantity + quantity
		price := model.ComputeLineTotal(existing.UnitPrice, newQuantity)
		discounted := model.ComputeLineTotal(existing.UnitDiscountedPrice, newQuantity)

		if err = s.cartRepo.UpdateItemQuantity(ctx, tx, existing.ID, newQuantity, price, discounted); err != nil {
			return nil, fmt.Errorf("failed to merge cart item: %w", err)
		}

		existing.Quantity = newQuantity
		existing.Price = price
		existing.DiscountedPrice = discounted
		item = existing

		s.logger.Debug().
			Str("item_id", existing.ID.String()).
			Int("quantity", newQuantity).
			Msg("cart item merged")
	} else {
		item = &model.CartItem{
			ID:                  uuid.New(),
			CartID:              cart.ID,
			ProductID:           product.ID,
			Size:                req.Size,
			Quantity:            quantity,
			UnitPrice:           product.Price,
			UnitDiscountedPrice: product.DiscountedPrice,
			Price:               model.ComputeLineTotal(product.Price, quantity),
			DiscountedPrice:     model.ComputeLineTotal(product.DiscountedPrice, quantity),
			CreatedAt:           time.Now(),
		}

		if err = s.cartRepo.InsertItem(ctx, tx, item); err != nil {
			return nil, fmt.Errorf("failed to insert cart item: %w", err)
		}

		s.logger.Debug().
			Str("item_id", item.ID.String()).
			Str("product_id", product.ID.String()).
			Msg("cart item added")
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return item, nil
}

// FindUserCart returns the user's cart with all live items and freshly
// aggregated totals. A cart with no items yields zero totals, not an error.
func (s *CartService) FindUserCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	if cart == nil {
		return nil, model.ErrCartNotFound
	}

	cart.TotalPrice, cart.TotalDiscountedPrice = model.ComputeCartTotals(cart.Items)

	return cart, nil
}
