package handler

import (
	"context"
	"errors"
	"net/http"

	"shopkart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderService is the checkout surface the order handler consumes.
type OrderService interface {
	BuildOrder(ctx context.Context, userID uuid.UUID) (*model.Order, error)
	GetByID(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)
	History(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
}

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests. The order is built from the
// user's current cart.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r, h.logger)
	if !ok {
		return
	}

	order, err := h.service.BuildOrder(r.Context(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		message := "failed to create order"

		switch {
		case errors.Is(err, model.ErrCartNotFound):
			status = http.StatusNotFound
			message = "cart not found"
		case errors.Is(err, model.ErrEmptyCart):
			status = http.StatusBadRequest
			message = "cart is empty"
		}

		writeError(w, status, message, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r, h.logger)
	if !ok {
		return
	}

	orderID, ok := pathID(r, "/api/orders/")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), userID, orderID)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found", h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to retrieve order", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// History handles GET /api/orders requests.
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r, h.logger)
	if !ok {
		return
	}

	orders, err := h.service.History(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve orders", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}
