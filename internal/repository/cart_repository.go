package repository

import (
	"context"
	"errors"
	"fmt"

	"shopkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *cartRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create persists a new empty cart. The one-cart-per-user constraint is
// enforced by the database; a violation surfaces as model.ErrDuplicateCart.
func (r *cartRepository) Create(ctx context.Context, cart *model.Cart) error {
	query := `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, cart.ID, cart.UserID, cart.CreatedAt, cart.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Warn().Str("user_id", cart.UserID.String()).Msg("user already has a cart")
			return model.ErrDuplicateCart
		}
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to create cart")
		return fmt.Errorf("failed to create cart: %w", err)
	}

	r.logger.Debug().Str("cart_id", cart.ID.String()).Msg("cart created successfully")

	return nil
}

// GetByUserID retrieves a user's cart with its items in insertion order.
func (r *cartRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cartQuery := `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	var cart model.Cart
	err := r.pool.QueryRow(ctx, cartQuery, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("user_id", userID.String()).Msg("cart not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	itemsQuery := `
		SELECT id, cart_id, product_id, size, quantity,
		       unit_price, unit_discounted_price, price, discounted_price, created_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.CartItem
		err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Size,
			&item.Quantity,
			&item.UnitPrice,
			&item.UnitDiscountedPrice,
			&item.Price,
			&item.DiscountedPrice,
			&item.CreatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return &cart, nil
}

// GetCartOwner returns the owning user of a cart.
func (r *cartRepository) GetCartOwner(ctx context.Context, cartID uuid.UUID) (uuid.UUID, error) {
	query := `SELECT user_id FROM carts WHERE id = $1`

	var ownerID uuid.UUID
	err := r.pool.QueryRow(ctx, query, cartID).Scan(&ownerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return uuid.Nil, model.ErrCartNotFound
		}
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to query cart owner")
		return uuid.Nil, fmt.Errorf("failed to query cart owner: %w", err)
	}

	return ownerID, nil
}

// GetForUpdate locks a user's cart row for the duration of the transaction.
// Concurrent additions to the same cart queue behind this lock, which keeps
// the read-check-write merge sequence atomic per cart.
func (r *cartRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.Cart, error) {
	query := `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
		FOR UPDATE
	`

	var cart model.Cart
	err := tx.QueryRow(ctx, query, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to lock cart")
		return nil, fmt.Errorf("failed to lock cart: %w", err)
	}

	return &cart, nil
}

// GetItemInCart looks up the line item for a (cart, product, size) tuple.
func (r *cartRepository) GetItemInCart(ctx context.Context, tx pgx.Tx, cartID, productID uuid.UUID, size string) (*model.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, size, quantity,
		       unit_price, unit_discounted_price, price, discounted_price, created_at
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2 AND size = $3
	`

	var item model.CartItem
	err := tx.QueryRow(ctx, query, cartID, productID, size).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Size,
		&item.Quantity,
		&item.UnitPrice,
		&item.UnitDiscountedPrice,
		&item.Price,
		&item.DiscountedPrice,
		&item.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to query cart item")
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}

	return &item, nil
}

// InsertItem inserts a new line item within the provided transaction.
func (r *cartRepository) InsertItem(ctx context.Context, tx pgx.Tx, item *model.CartItem) error {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, size, quantity,
		                        unit_price, unit_discounted_price, price, discounted_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := tx.Exec(ctx, query,
		item.ID,
		item.CartID,
		item.ProductID,
		item.Size,
		item.Quantity,
		item.UnitPrice,
		item.UnitDiscountedPrice,
		item.Price,
		item.DiscountedPrice,
		item.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("cart_id", item.CartID.String()).
			Str("product_id", item.ProductID.String()).
			Msg("failed to insert cart item")
		return fmt.Errorf("failed to insert cart item: %w", err)
	}

	r.logger.Debug().
		Str("cart_id", item.CartID.String()).
		Str("product_id", item.ProductID.String()).
		Msg("cart item inserted")

	return nil
}

// UpdateItemQuantity rewrites an item's quantity and derived price fields.
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, tx pgx.Tx, itemID uuid.UUID, quantity int, price, discountedPrice int64) error {
	query := `
		UPDATE cart_items
		SET quantity = $2, price = $3, discounted_price = $4
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, itemID, quantity, price, discountedPrice)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to update cart item")
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}

	return nil
}

// GetItemByID retrieves a single line item.
func (r *cartRepository) GetItemByID(ctx context.Context, itemID uuid.UUID) (*model.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, size, quantity,
		       unit_price, unit_discounted_price, price, discounted_price, created_at
		FROM cart_items
		WHERE id = $1
	`

	var item model.CartItem
	err := r.pool.QueryRow(ctx, query, itemID).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Size,
		&item.Quantity,
		&item.UnitPrice,
		&item.UnitDiscountedPrice,
		&item.Price,
		&item.DiscountedPrice,
		&item.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to query cart item")
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}

	return &item, nil
}

// DeleteItem removes a line item.
func (r *cartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, itemID)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to delete cart item")
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}

	r.logger.Debug().Str("item_id", itemID.String()).Msg("cart item deleted")

	return nil
}
