package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// StripeClient implements Client on top of Stripe checkout sessions. A
// session doubles as the hosted payment link; its payment intent is the
// gateway-side order the callback correlates against.
type StripeClient struct {
	api         *client.API
	callbackURL string
	timeout     time.Duration
	logger      zerolog.Logger
}

// NewStripeClient creates a Stripe-backed gateway client. Every outbound call
// is bounded by the configured timeout.
func NewStripeClient(apiKey, callbackURL string, timeout time.Duration, logger zerolog.Logger) *StripeClient {
	api := &client.API{}
	api.Init(apiKey, nil)

	return &StripeClient{
		api:         api,
		callbackURL: callbackURL,
		timeout:     timeout,
		logger:      logger.With().Str("gateway", "stripe").Logger(),
	}
}

// CreatePaymentLink creates a checkout session for the order amount.
func (c *StripeClient) CreatePaymentLink(ctx context.Context, req CreateLinkRequest) (*PaymentLink, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SubmitType: stripe.String("pay"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(req.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(req.ReferenceID),
		CustomerEmail:     stripe.String(req.CustomerEmail),
		SuccessURL:        stripe.String(fmt.Sprintf("%s?order_id=%s", c.callbackURL, req.ReferenceID)),
		CancelURL:         stripe.String(fmt.Sprintf("%s?order_id=%s&cancelled=true", c.callbackURL, req.ReferenceID)),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{
				"order_id": req.ReferenceID,
			},
		},
	}
	params.Context = ctx

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		c.logger.Error().Err(err).Str("reference_id", req.ReferenceID).Msg("failed to create checkout session")
		return nil, classify(err)
	}

	c.logger.Info().
		Str("link_id", session.ID).
		Str("reference_id", req.ReferenceID).
		Int64("amount", req.Amount).
		Msg("payment link created")

	return &PaymentLink{ID: session.ID, URL: session.URL}, nil
}

// FetchPaymentLink retrieves a checkout session and its payment intent id.
func (c *StripeClient) FetchPaymentLink(ctx context.Context, linkID string) (*PaymentLinkDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("payment_intent")

	session, err := c.api.CheckoutSessions.Get(linkID, params)
	if err != nil {
		c.logger.Error().Err(err).Str("link_id", linkID).Msg("failed to fetch checkout session")
		return nil, classify(err)
	}

	details := &PaymentLinkDetails{
		ID:     session.ID,
		Status: string(session.Status),
	}
	if session.PaymentIntent != nil {
		details.GatewayOrderID = session.PaymentIntent.ID
	}

	return details, nil
}

// FetchPayment retrieves the authoritative state of a payment intent.
func (c *StripeClient) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := c.api.PaymentIntents.Get(paymentID, params)
	if err != nil {
		c.logger.Error().Err(err).Str("payment_id", paymentID).Msg("failed to fetch payment intent")
		return nil, classify(err)
	}

	return &Payment{
		ID:     intent.ID,
		Status: statusFromIntent(intent.Status),
		Amount: intent.Amount,
	}, nil
}

// statusFromIntent normalises Stripe's payment intent states. Anything that
// is not an explicit success or terminal failure stays pending: "not captured
// yet" must never be mistaken for "never".
func statusFromIntent(status stripe.PaymentIntentStatus) Status {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return StatusCaptured
	case stripe.PaymentIntentStatusCanceled:
		return StatusFailed
	default:
		return StatusPending
	}
}

// classify maps Stripe errors onto the gateway error taxonomy. Malformed
// requests are permanent; everything else, including timeouts and 5xx
// responses, is treated as retryable unavailability.
func classify(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripe.ErrorTypeInvalidRequest, stripe.ErrorTypeCard, stripe.ErrorTypeIdempotency:
			return fmt.Errorf("%w: %s", ErrRejected, stripeErr.Msg)
		default:
			return fmt.Errorf("%w: %s", ErrUnavailable, stripeErr.Msg)
		}
	}

	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
