// Package events publishes order lifecycle events for downstream consumers
// (fulfilment, analytics). Publishing is best-effort: a broker outage must
// never affect order state.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderPlacedEvent is emitted exactly once per order, on the first successful
// settlement.
type OrderPlacedEvent struct {
	OrderID              uuid.UUID `json:"orderId"`
	UserID               uuid.UUID `json:"userId"`
	PaymentID            string    `json:"paymentId"`
	TotalDiscountedPrice int64     `json:"totalDiscountedPrice"`
	PlacedAt             time.Time `json:"placedAt"`
}

// Publisher delivers order events to the configured transport.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error
	Close()
}

// NopPublisher discards events. Used when event publishing is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error {
	return nil
}

func (NopPublisher) Close() {}
