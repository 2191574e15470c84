package repositories

import (
	"context"

	"storefront/internal/apperrors"
	"storefront/internal/models"
)

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	// SeedIfAbsent stores products only if the catalog was never written.
	SeedIfAbsent(ctx context.Context, products []models.Product) (bool, error)
}

// RecordProductRepository is a RecordStore implementation of ProductRepository.
type RecordProductRepository struct {
	store     RecordStore
	namespace string
}

// NewRecordProductRepository creates a new instance of RecordProductRepository.
func NewRecordProductRepository(store RecordStore, namespace string) *RecordProductRepository {
	return &RecordProductRepository{store: store, namespace: namespace}
}

// GetAll returns all products in catalog order.
func (r *RecordProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return loadList[models.Product](ctx, r.store, r.namespace, CollectionProducts)
}

// GetByID returns a product by its ID.
func (r *RecordProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	products, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, apperrors.NotFound("product", id)
}

// SeedIfAbsent seeds the catalog.
func (r *RecordProductRepository) SeedIfAbsent(ctx context.Context, products []models.Product) (bool, error) {
	return seedList(ctx, r.store, r.namespace, CollectionProducts, products)
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]models.Category, error)
	SeedIfAbsent(ctx context.Context, categories []models.Category) (bool, error)
}

// RecordCategoryRepository is a RecordStore implementation of CategoryRepository.
type RecordCategoryRepository struct {
	store     RecordStore
	namespace string
}

// NewRecordCategoryRepository creates a new instance of RecordCategoryRepository.
func NewRecordCategoryRepository(store RecordStore, namespace string) *RecordCategoryRepository {
	return &RecordCategoryRepository{store: store, namespace: namespace}
}

// GetAll returns all categories.
func (r *RecordCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	return loadList[models.Category](ctx, r.store, r.namespace, CollectionCategories)
}

// SeedIfAbsent seeds the categories.
func (r *RecordCategoryRepository) SeedIfAbsent(ctx context.Context, categories []models.Category) (bool, error) {
	return seedList(ctx, r.store, r.namespace, CollectionCategories, categories)
}
