package handler

import (
	"context"
	"errors"
	"net/http"

	"shopkart/internal/gateway"
	"shopkart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentService is the payment surface the payment handler consumes.
type PaymentService interface {
	InitiatePayment(ctx context.Context, userID, orderID uuid.UUID) (*model.PaymentLinkResponse, error)
	Reconcile(ctx context.Context, paymentID string, orderID uuid.UUID) (*model.CallbackResponse, error)
}

// PaymentHandler handles payment-related HTTP requests.
type PaymentHandler struct {
	service PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

// Initiate handles POST /api/payments/{orderId} requests.
func (h *PaymentHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r, h.logger)
	if !ok {
		return
	}

	orderID, ok := pathID(r, "/api/payments/")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
		return
	}

	link, err := h.service.InitiatePayment(r.Context(), userID, orderID)
	if err != nil {
		status := http.StatusInternalServerError
		message := "failed to initiate payment"

		switch {
		case errors.Is(err, model.ErrOrderNotFound):
			status = http.StatusNotFound
			message = "order not found"
		case errors.Is(err, gateway.ErrRejected):
			status = http.StatusBadGateway
			message = "payment gateway rejected the request"
		case errors.Is(err, gateway.ErrUnavailable):
			status = http.StatusBadGateway
			message = "payment gateway unavailable"
		}

		writeError(w, status, message, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, link)
}

// Callback handles GET /api/payments requests. The gateway redirects the
// customer here after checkout with payment_id and order_id query
// parameters, and may deliver the same callback more than once; every
// delivery after the first reports the same success.
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	paymentID := r.URL.Query().Get("payment_id")
	if paymentID == "" {
		writeError(w, http.StatusBadRequest, "payment_id is required", h.logger)
		return
	}

	orderID, err := uuid.Parse(r.URL.Query().Get("order_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order_id format", h.logger)
		return
	}

	resp, err := h.service.Reconcile(r.Context(), paymentID, orderID)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found", h.logger)
			return
		}
		// Verification failed; the gateway will retry the callback.
		h.logger.Error().Err(err).Str("payment_id", paymentID).Msg("payment reconciliation failed")
		writeJSON(w, http.StatusBadGateway, model.CallbackResponse{
			Message: "Payment verification failed",
			Success: false,
		})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
