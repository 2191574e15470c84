package services

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"go.uber.org/zap"
)

// CatalogService handles read-only product and category queries.
type CatalogService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(products repositories.ProductRepository, categories repositories.CategoryRepository) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
	}
}

// Seed writes the default categories and products if they were never stored.
func (s *CatalogService) Seed(ctx context.Context) error {
	seeded, err := s.categories.SeedIfAbsent(ctx, DefaultCategories())
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	if seeded {
		logger.Logger.Info("seeded categories")
	}

	seeded, err = s.products.SeedIfAbsent(ctx, DefaultProducts())
	if err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	if seeded {
		logger.Logger.Info("seeded products", zap.Int("count", len(DefaultProducts())))
	}
	return nil
}

// Products returns the catalog filtered by category. An empty category or
// "All" returns everything.
func (s *CatalogService) Products(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" || category == models.CategoryAll {
		return products, nil
	}
	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Product returns a single product.
func (s *CatalogService) Product(ctx context.Context, id int64) (*models.Product, error) {
	return s.products.GetByID(ctx, id)
}

// Search matches term against product names and categories, ignoring case.
func (s *CatalogService) Search(ctx context.Context, term string) ([]models.Product, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []models.Product{}, nil
	}
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]models.Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Category), term) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// Categories returns all categories.
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categories.GetAll(ctx)
}
