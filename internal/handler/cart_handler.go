package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"shopkart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartService is the cart surface the cart handler consumes.
type CartService interface {
	CreateCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *model.AddItemRequest) (*model.CartItem, error)
	FindUserCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
}

// CartItemService is the line-item surface the cart handler consumes.
type CartItemService interface {
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req *model.UpdateItemRequest) (*model.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
}

// CartHandler handles cart-related HTTP requests.
type CartHandler struct {
	carts  CartService
	items  CartItemService
	logger zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts CartService, items CartItemService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		items:  items,
		logger: logger.With().Str("handler", "cart").Logger(),
	}
}

// Create handles POST /api/cart requests.
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.carts.CreateCart(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateCart) {
			writeError(w, http.StatusConflict, "cart already exists", h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create cart", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, cart)
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.carts.FindUserCart(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrCartNotFound) {
			writeError(w, http.StatusNotFound, "cart not found", h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to retrieve cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r, h.logger)
	if !ok {
		return
	}

	var req model.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if req.ProductID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "product ID is required", h.logger)
		return
	}

	item, err := h.carts.AddItem(r.Context(), userID, &req)
	if err != nil {
		status := http.StatusInternalServerError
		message := "failed to add cart item"

		switch {
		case errors.Is(err, model.ErrProductNotFound):
			status = http.StatusBadRequest
			message = "product not found"
		case errors.Is(err, model.ErrCartNotFound):
			status = http.StatusNotFound
			message = "cart not found"
		}

		writeError(w, status, message, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// UpdateItem handles PUT /api/cart/items/{id} requests.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r, h.logger)
	if !ok {
		return
	}

	itemID, ok := pathID(r, "/api/cart/items/")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item ID format", h.logger)
		return
	}

	var req model.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	item, err := h.items.UpdateItem(r.Context(), userID, itemID, &req)
	if err != nil {
		status := http.StatusInternalServerError
		message := "failed to update cart item"

		switch {
		case errors.Is(err, model.ErrInvalidQuantity):
			status = http.StatusBadRequest
			message = "quantity must be positive"
		case errors.Is(err, model.ErrCartItemNotFound):
			status = http.StatusNotFound
			message = "cart item not found"
		case errors.Is(err, model.ErrNotCartOwner):
			status = http.StatusForbidden
			message = "cart item belongs to another user"
		}

		writeError(w, status, message, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// RemoveItem handles DELETE /api/cart/items/{id} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r, h.logger)
	if !ok {
		return
	}

	itemID, ok := pathID(r, "/api/cart/items/")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item ID format", h.logger)
		return
	}

	if err := h.items.RemoveItem(r.Context(), userID, itemID); err != nil {
		status := http.StatusInternalServerError
		message := "failed to remove cart item"

		switch {
		case errors.Is(err, model.ErrCartItemNotFound):
			status = http.StatusNotFound
			message = "cart item not found"
		case errors.Is(err, model.ErrNotCartOwner):
			status = http.StatusForbidden
			message = "cart item belongs to another user"
		}

		writeError(w, status, message, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "item removed from cart"})
}
