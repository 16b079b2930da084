package model

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the per-user mutable pre-checkout state. A user owns at most one
// cart; aggregate totals are recomputed eagerly on every mutation.
type Cart struct {
	ID                   uuid.UUID  `json:"id" db:"id"`
	UserID               uuid.UUID  `json:"userId" db:"user_id"`
	Items                []CartItem `json:"items"`
	TotalPrice           int64      `json:"totalPrice"`
	TotalDiscountedPrice int64      `json:"totalDiscountedPrice"`
	CreatedAt            time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time  `json:"updatedAt" db:"updated_at"`
}

// CartItem is one line within a cart, keyed by (product, size). Adding the
// same combination again merges into the existing row.
type CartItem struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	CartID              uuid.UUID `json:"-" db:"cart_id"`
	ProductID           uuid.UUID `json:"productId" db:"product_id"`
	Size                string    `json:"size" db:"size"`
	Quantity            int       `json:"quantity" db:"quantity"`
	UnitPrice           int64     `json:"unitPrice" db:"unit_price"`
	UnitDiscountedPrice int64     `json:"unitDiscountedPrice" db:"unit_discounted_price"`
	Price               int64     `json:"price" db:"price"`
	DiscountedPrice     int64     `json:"discountedPrice" db:"discounted_price"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
}

// AddItemRequest represents the request payload for adding an item to a cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Size      string    `json:"size"`
	Quantity  int       `json:"quantity"`
}

// UpdateItemRequest represents the request payload for changing an item's quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}
