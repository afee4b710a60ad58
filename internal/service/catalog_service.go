package service

import (
	"context"
	"fmt"

	"threadcart/internal/model"
	"threadcart/internal/repository"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalogue service.
func NewCatalogService(productRepo repository.ProductRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

// ListProducts retrieves a filtered, sorted catalogue page.
func (s *catalogService) ListProducts(ctx context.Context, filter model.ProductFilter) (*model.ProductPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	switch filter.Sort {
	case model.SortPriceAsc, model.SortPriceDesc, model.SortNewest:
	default:
		filter.Sort = model.SortNewest
	}

	items, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	totalPages := (total + model.CatalogPageSize - 1) / model.CatalogPageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if items == nil {
		items = []model.ProductDetail{}
	}

	return &model.ProductPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		TotalPages: totalPages,
	}, nil
}

// GetProduct retrieves a product detail by slug.
func (s *catalogService) GetProduct(ctx context.Context, slug string) (*model.ProductDetail, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		s.logger.Error().Err(err).Str("slug", slug).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// ListCategories retrieves all categories with product counts.
func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.productRepo.Categories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
