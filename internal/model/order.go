package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks an order through its lifecycle. Only the
// PENDING -> PLACED transition is owned by this service; fulfilment states
// are driven by downstream systems.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// PaymentStatus tracks the settlement state of an order's payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// PaymentDetails is the embedded settlement record of an order. PaymentID is
// written at most once; once Status is COMPLETED it is permanent.
type PaymentDetails struct {
	PaymentID *string       `json:"paymentId,omitempty" db:"payment_id"`
	Status    PaymentStatus `json:"status" db:"payment_status"`
}

// Order is an immutable checkout record built from a cart snapshot. Only
// OrderStatus and the embedded PaymentDetails mutate after creation.
// GatewayOrderID is the gateway-side correlation key, set exactly once when
// the payment link is created.
type Order struct {
	ID                   uuid.UUID      `json:"id" db:"id"`
	UserID               uuid.UUID      `json:"userId" db:"user_id"`
	Items                []OrderItem    `json:"items"`
	TotalPrice           int64          `json:"totalPrice" db:"total_price"`
	TotalDiscountedPrice int64          `json:"totalDiscountedPrice" db:"total_discounted_price"`
	GatewayOrderID       *string        `json:"gatewayOrderId,omitempty" db:"gateway_order_id"`
	OrderStatus          OrderStatus    `json:"orderStatus" db:"order_status"`
	Payment              PaymentDetails `json:"paymentDetails"`
	CreatedAt            time.Time      `json:"createdAt" db:"created_at"`
}

// OrderItem is a line item value-copied from a cart item at build time. It
// shares no mutable state with the cart it came from.
type OrderItem struct {
	ID              uuid.UUID `json:"-" db:"id"`
	OrderID         uuid.UUID `json:"-" db:"order_id"`
	ProductID       uuid.UUID `json:"productId" db:"product_id"`
	Size            string    `json:"size" db:"size"`
	Quantity        int       `json:"quantity" db:"quantity"`
	UnitPrice       int64     `json:"unitPrice" db:"unit_price"`
	Price           int64     `json:"price" db:"price"`
	DiscountedPrice int64     `json:"discountedPrice" db:"discounted_price"`
}

// Settled reports whether the order has reached its terminal success state.
func (o *Order) Settled() bool {
	return o.OrderStatus == OrderStatusPlaced && o.Payment.Status == PaymentStatusCompleted
}

// PaymentLinkResponse is returned to the caller after initiating a payment.
type PaymentLinkResponse struct {
	PaymentLinkURL string `json:"paymentLinkUrl"`
	PaymentLinkID  string `json:"paymentLinkId"`
}

// CallbackResponse is the duplicate-tolerant payment callback result.
type CallbackResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}
