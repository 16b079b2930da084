package repository

import (
	"context"

	"shopkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when the
	// product does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

// UserRepository defines the interface for user data access operations.
// Account creation lives in the identity provider; this service only reads.
type UserRepository interface {
	// GetByID retrieves a user by ID. Returns nil when the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// CartRepository defines the interface for cart and cart-item data access.
type CartRepository interface {
	// Create persists a new empty cart. Returns model.ErrDuplicateCart when
	// the user already owns one.
	Create(ctx context.Context, cart *model.Cart) error

	// GetByUserID retrieves a user's cart with its items in insertion order.
	// Returns nil when the user has no cart.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// GetCartOwner returns the owning user of a cart.
	GetCartOwner(ctx context.Context, cartID uuid.UUID) (uuid.UUID, error)

	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// GetForUpdate locks a user's cart row for the duration of the
	// transaction, serialising concurrent mutations of the same cart.
	// Returns nil when the user has no cart.
	GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.Cart, error)

	// GetItemInCart looks up the line item for a (cart, product, size) tuple
	// within the provided transaction. Returns nil when absent.
	GetItemInCart(ctx context.Context, tx pgx.Tx, cartID, productID uuid.UUID, size string) (*model.CartItem, error)

	// InsertItem inserts a new line item within the provided transaction.
	InsertItem(ctx context.Context, tx pgx.Tx, item *model.CartItem) error

	// UpdateItemQuantity rewrites an item's quantity and derived price fields
	// within the provided transaction.
	UpdateItemQuantity(ctx context.Context, tx pgx.Tx, itemID uuid.UUID, quantity int, price, discountedPrice int64) error

	// GetItemByID retrieves a single line item. Returns nil when absent.
	GetItemByID(ctx context.Context, itemID uuid.UUID) (*model.CartItem, error)

	// DeleteItem removes a line item.
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new order within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateItems inserts the order's line items within the provided transaction.
	CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByUserID retrieves a user's orders, newest first, without items.
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// SetGatewayOrderID stores the gateway-side correlation key. The write is
	// guarded so the field is set exactly once; the return value reports
	// whether this call performed the write.
	SetGatewayOrderID(ctx context.Context, orderID uuid.UUID, gatewayOrderID string) (bool, error)

	// GetForUpdate locks the order row for the duration of the transaction,
	// serialising concurrent reconciliations of the same order. Items are not
	// loaded. Returns nil when the order does not exist.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)

	// MarkPlaced performs the atomic settlement write: payment id, payment
	// status COMPLETED and order status PLACED in a single guarded UPDATE
	// that only applies while the order is still PENDING.
	MarkPlaced(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, paymentID string) error
}
