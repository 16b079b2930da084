package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"shopkart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProductService is the catalogue surface the product handler consumes.
type ProductService interface {
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products requests.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	limit := queryInt(r, "limit", 10)
	offset := queryInt(r, "offset", 0)

	products, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve products", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	id, ok := pathID(r, "/api/products/")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product ID format", h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found", h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to retrieve product", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// queryInt parses an integer query parameter, falling back to def.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
