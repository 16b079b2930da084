package repository

import (
	"context"
	"fmt"

	"shopkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a new order within the provided transaction.
func (r *orderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, user_id, total_price, total_discounted_price,
		                    gateway_order_id, order_status, payment_id, payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.Exec(ctx, query,
		order.ID,
		order.UserID,
		order.TotalPrice,
		order.TotalDiscountedPrice,
		order.GatewayOrderID,
		order.OrderStatus,
		order.Payment.PaymentID,
		order.Payment.Status,
		order.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// CreateItems inserts the order's line items within the provided transaction.
func (r *orderRepository) CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, size, quantity,
		                         unit_price, price, discounted_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.Size,
			item.Quantity,
			item.UnitPrice,
			item.Price,
			item.DiscountedPrice,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID.String()).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	orderQuery := `
		SELECT id, user_id, total_price, total_discounted_price,
		       gateway_order_id, order_status, payment_id, payment_status, created_at
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID,
		&order.UserID,
		&order.TotalPrice,
		&order.TotalDiscountedPrice,
		&order.GatewayOrderID,
		&order.OrderStatus,
		&order.Payment.PaymentID,
		&order.Payment.Status,
		&order.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, product_id, size, quantity, unit_price, price, discounted_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Size,
			&item.Quantity,
			&item.UnitPrice,
			&item.Price,
			&item.DiscountedPrice,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return &order, nil
}

// GetByUserID retrieves a user's orders, newest first, without items.
func (r *orderRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	query := `
		SELECT id, user_id, total_price, total_discounted_price,
		       gateway_order_id, order_status, payment_id, payment_status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var order model.Order
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.TotalPrice,
			&order.TotalDiscountedPrice,
			&order.GatewayOrderID,
			&order.OrderStatus,
			&order.Payment.PaymentID,
			&order.Payment.Status,
			&order.CreatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// SetGatewayOrderID stores the gateway-side correlation key at most once.
func (r *orderRepository) SetGatewayOrderID(ctx context.Context, orderID uuid.UUID, gatewayOrderID string) (bool, error) {
	query := `
		UPDATE orders
		SET gateway_order_id = $2
		WHERE id = $1 AND gateway_order_id IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, orderID, gatewayOrderID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Msg("failed to set gateway order id")
		return false, fmt.Errorf("failed to set gateway order id: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// GetForUpdate locks the order row for the duration of the transaction.
func (r *orderRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	query := `
		SELECT id, user_id, total_price, total_discounted_price,
		       gateway_order_id, order_status, payment_id, payment_status, created_at
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`

	var order model.Order
	err := tx.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.TotalPrice,
		&order.TotalDiscountedPrice,
		&order.GatewayOrderID,
		&order.OrderStatus,
		&order.Payment.PaymentID,
		&order.Payment.Status,
		&order.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to lock order")
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}

	return &order, nil
}

// MarkPlaced performs the atomic settlement write. The guard on order_status
// makes the PENDING -> PLACED transition happen at most once even under
// concurrent reconciliations.
func (r *orderRepository) MarkPlaced(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, paymentID string) error {
	query := `
		UPDATE orders
		SET payment_id = $2, payment_status = $3, order_status = $4
		WHERE id = $1 AND order_status = $5
	`

	tag, err := tx.Exec(ctx, query,
		orderID,
		paymentID,
		model.PaymentStatusCompleted,
		model.OrderStatusPlaced,
		model.OrderStatusPending,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to mark order placed")
		return fmt.Errorf("failed to mark order placed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Already settled by a concurrent reconcile; the caller treats this
		// as an idempotent no-op after re-reading the row under lock.
		r.logger.Debug().Str("order_id", orderID.String()).Msg("order already placed")
	}

	return nil
}
