package model

import (
	"time"

	"github.com/google/uuid"
)

// Product represents an item in the catalogue. Prices are whole currency
// units; the payment gateway boundary converts to minor units.
type Product struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Brand           string    `json:"brand" db:"brand"`
	Price           int64     `json:"price" db:"price"`
	DiscountedPrice int64     `json:"discountedPrice" db:"discounted_price"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}
