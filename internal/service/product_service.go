package service

import (
	"context"
	"fmt"

	"shopkart/internal/model"
	"shopkart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProductService exposes catalogue reads.
type ProductService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination.
func (s *ProductService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	return product, nil
}
