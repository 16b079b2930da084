package service

import (
	"context"
	"fmt"
	"time"

	"shopkart/internal/events"
	"shopkart/internal/gateway"
	"shopkart/internal/model"
	"shopkart/internal/notify"
	"shopkart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentService reconciles local order state with the payment gateway. It
// issues payment links and consumes gateway callbacks, guaranteeing the
// PENDING -> PLACED transition happens at most once per order.
type PaymentService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	gateway   gateway.Client
	publisher events.Publisher
	sender    notify.Sender
	currency  string
	logger    zerolog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	gatewayClient gateway.Client,
	publisher events.Publisher,
	sender notify.Sender,
	currency string,
	logger zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		gateway:   gatewayClient,
		publisher: publisher,
		sender:    sender,
		currency:  currency,
		logger:    logger.With().Str("service", "payment").Logger(),
	}
}

// InitiatePayment asks the gateway for a payment link sized to the order's
// discounted total and stores the gateway-side order id on the order. No
// local state is written before the gateway calls succeed, so a gateway
// failure leaves the order untouched and the call safe to retry.
func (s *PaymentService) InitiatePayment(ctx context.Context, userID, orderID uuid.UUID) (*model.PaymentLinkResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, model.ErrOrderNotFound
	}

	user, err := s.userRepo.GetByID(ctx, order.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	link, err := s.gateway.CreatePaymentLink(ctx, gateway.CreateLinkRequest{
		Amount:          order.TotalDiscountedPrice * 100,
		Currency:        s.currency,
		Description:     fmt.Sprintf("Order %s", order.ID),
		ReferenceID:     order.ID.String(),
		CustomerName:    user.FullName(),
		CustomerEmail:   user.Email,
		CustomerContact: user.Mobile,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to create payment link")
		return nil, err
	}

	details, err := s.gateway.FetchPaymentLink(ctx, link.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("link_id", link.ID).Msg("failed to fetch payment link details")
		return nil, err
	}

	if details.GatewayOrderID != "" {
		set, err := s.orderRepo.SetGatewayOrderID(ctx, order.ID, details.GatewayOrderID)
		if err != nil {
			return nil, err
		}
		if !set {
			// Correlation key was written by an earlier initiation and is
			// never overwritten.
			s.logger.Debug().
				Str("order_id", order.ID.String()).
				Msg("gateway order id already set")
		}
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("link_id", link.ID).
		Str("gateway_order_id", details.GatewayOrderID).
		Msg("payment initiated")

	return &model.PaymentLinkResponse{
		PaymentLinkURL: link.URL,
		PaymentLinkID:  link.ID,
	}, nil
}

// Reconcile is the callback entry point. It fetches the authoritative
// payment state and, if the payment has settled, performs the atomic
// (paymentId, COMPLETED, PLACED) write. Gateways retry callbacks, so the
// whole operation is idempotent: re-reconciling a settled order is a no-op
// reporting the same success. A non-captured status mutates nothing; it
// means "not yet", never "never".
func (s *PaymentService) Reconcile(ctx context.Context, paymentID string, orderID uuid.UUID) (*model.CallbackResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if order.Settled() {
		s.logger.Debug().Str("order_id", orderID.String()).Msg("order already settled")
		return placedResponse(), nil
	}

	payment, err := s.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		// A gateway outage must never corrupt order state: log, mutate
		// nothing, and report the verification failure.
		s.logger.Error().
			Err(err).
			Str("payment_id", paymentID).
			Str("order_id", orderID.String()).
			Msg("failed to fetch payment status")
		return nil, err
	}

	if payment.Status != gateway.StatusCaptured {
		s.logger.Warn().
			Str("payment_id", paymentID).
			Str("order_id", orderID.String()).
			Str("status", string(payment.Status)).
			Msg("payment not captured, order left untouched")
		return &model.CallbackResponse{Message: "Payment not confirmed yet", Success: false}, nil
	}

	settled, err := s.settle(ctx, orderID, payment.ID)
	if err != nil {
		return nil, err
	}

	if settled {
		s.afterSettlement(ctx, order, payment.ID)
	}

	return placedResponse(), nil
}

// settle performs the atomic settlement write under the order's row lock.
// It returns true only for the invocation that actually performed the
// transition, so side effects fire exactly once.
func (s *PaymentService) settle(ctx context.Context, orderID uuid.UUID, paymentID string) (settled bool, err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to settle order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err := s.orderRepo.GetForUpdate(ctx, tx, orderID)
	if err != nil {
		return false, fmt.Errorf("failed to settle order: %w", err)
	}
	if order == nil {
		err = model.ErrOrderNotFound
		return false, err
	}

	if order.Settled() {
		// A concurrent reconcile won the race; nothing left to write.
		if err = tx.Commit(ctx); err != nil {
			return false, fmt.Errorf("failed to settle order: %w", err)
		}
		return false, nil
	}

	if err = s.orderRepo.MarkPlaced(ctx, tx, orderID, paymentID); err != nil {
		return false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to settle order: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("payment_id", paymentID).
		Msg("order settled")

	return true, nil
}

// afterSettlement fires the post-settlement side effects. Both are
// best-effort: the order is already placed and a failed event or email must
// not undo that.
func (s *PaymentService) afterSettlement(ctx context.Context, order *model.Order, paymentID string) {
	event := events.OrderPlacedEvent{
		OrderID:              order.ID,
		UserID:               order.UserID,
		PaymentID:            paymentID,
		TotalDiscountedPrice: order.TotalDiscountedPrice,
		PlacedAt:             time.Now(),
	}
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to publish order placed event")
	}

	user, err := s.userRepo.GetByID(ctx, order.UserID)
	if err != nil || user == nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to load user for confirmation email")
		return
	}

	if err := s.sender.SendOrderConfirmation(ctx, user.Email, user.FullName(), order.ID.String()); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to send confirmation email")
	}
}

func placedResponse() *model.CallbackResponse {
	return &model.CallbackResponse{
		Message: "Your order has been placed successfully",
		Success: true,
	}
}
