// Package gateway abstracts the third-party payment processor. The core never
// assumes synchronous settlement: links are created here, and settlement is
// confirmed later by fetching the authoritative payment state.
package gateway

import (
	"context"
	"errors"
)

// Status is the normalised settlement state reported by the processor.
type Status string

const (
	// StatusCaptured means the payment has settled.
	StatusCaptured Status = "captured"
	// StatusPending means the payment has not settled yet.
	StatusPending Status = "pending"
	// StatusFailed means the processor reported a terminal failure.
	StatusFailed Status = "failed"
)

// Sentinel errors classifying gateway failures. ErrUnavailable is transient
// and safe to retry; ErrRejected is permanent for the given request shape.
var (
	ErrUnavailable = errors.New("payment gateway unavailable")
	ErrRejected    = errors.New("payment gateway rejected the request")
)

// CreateLinkRequest carries everything the processor needs to host a payment
// page for one order. Amount is in minor currency units.
type CreateLinkRequest struct {
	Amount          int64
	Currency        string
	Description     string
	ReferenceID     string
	CustomerName    string
	CustomerEmail   string
	CustomerContact string
}

// PaymentLink is a hosted payment page created for an order.
type PaymentLink struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentLinkDetails is the processor-side view of a previously created link.
// GatewayOrderID is the correlation key tied back to the local order.
type PaymentLinkDetails struct {
	ID             string
	GatewayOrderID string
	Status         string
}

// Payment is the authoritative settlement state of a single payment attempt.
type Payment struct {
	ID     string
	Status Status
	Amount int64
}

// Client is the boundary to the payment processor. Multiple processors are a
// realistic variation point, so this stays an interface.
type Client interface {
	// CreatePaymentLink creates a hosted payment link sized to the order total.
	CreatePaymentLink(ctx context.Context, req CreateLinkRequest) (*PaymentLink, error)

	// FetchPaymentLink retrieves the processor-side details of a link,
	// including the gateway order id used to correlate callbacks.
	FetchPaymentLink(ctx context.Context, linkID string) (*PaymentLinkDetails, error)

	// FetchPayment retrieves the authoritative state of a payment.
	FetchPayment(ctx context.Context, paymentID string) (*Payment, error)
}
