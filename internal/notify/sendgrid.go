package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender implements Sender using the SendGrid API.
type SendGridSender struct {
	apiKey string
	from   string
	logger zerolog.Logger
}

// NewSendGridSender creates a SendGrid-backed notification sender.
func NewSendGridSender(apiKey, from string, logger zerolog.Logger) *SendGridSender {
	return &SendGridSender{
		apiKey: apiKey,
		from:   from,
		logger: logger.With().Str("sender", "sendgrid").Logger(),
	}
}

// SendOrderConfirmation emails the customer that their order has been placed.
func (s *SendGridSender) SendOrderConfirmation(ctx context.Context, toEmail, toName, orderID string) error {
	if toEmail == "" {
		return fmt.Errorf("recipient address is empty")
	}

	body := fmt.Sprintf("Thank you for your order! Your order id is %s. We are processing it now.", orderID)
	message := mail.NewSingleEmail(
		mail.NewEmail("Shopkart", s.from),
		"Order confirmation",
		mail.NewEmail(toName, toEmail),
		body,
		body,
	)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	if response.StatusCode >= 400 {
		s.logger.Error().
			Int("status", response.StatusCode).
			Str("order_id", orderID).
			Msg("confirmation email rejected")
		return fmt.Errorf("confirmation email rejected with status %d", response.StatusCode)
	}

	s.logger.Info().
		Str("order_id", orderID).
		Msg("order confirmation email sent")

	return nil
}
