// Package notify sends transactional email. Delivery is best-effort; a
// failed confirmation never blocks or reverses a settled order.
package notify

import "context"

// Sender delivers customer-facing notifications.
type Sender interface {
	SendOrderConfirmation(ctx context.Context, toEmail, toName, orderID string) error
}

// NopSender discards notifications. Used when email is disabled.
type NopSender struct{}

func (NopSender) SendOrderConfirmation(ctx context.Context, toEmail, toName, orderID string) error {
	return nil
}
