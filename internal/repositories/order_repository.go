package repositories

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// GetAll returns orders newest first.
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// Create prepends the order, assigning an ORD-<unix ms> ID when empty.
	Create(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
}

// RecordOrderRepository is a RecordStore implementation of OrderRepository.
type RecordOrderRepository struct {
	store     RecordStore
	namespace string
}

// NewRecordOrderRepository creates a new instance of RecordOrderRepository.
func NewRecordOrderRepository(store RecordStore, namespace string) *RecordOrderRepository {
	return &RecordOrderRepository{store: store, namespace: namespace}
}

// GetAll returns all orders.
func (r *RecordOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	return loadList[models.Order](ctx, r.store, r.namespace, CollectionOrders)
}

// GetByID returns an order by its ID.
func (r *RecordOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	orders, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].OrderID == id {
			return &orders[i], nil
		}
	}
	return nil, apperrors.NotFound("order", id)
}

// Create adds a new order at the front of the collection.
func (r *RecordOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return updateList(ctx, r.store, r.namespace, CollectionOrders, func(orders []models.Order) ([]models.Order, error) {
		if order.OrderID == "" {
			order.OrderID = nextOrderID(orders, order.OrderDate)
		}
		for _, o := range orders {
			if o.OrderID == order.OrderID {
				return nil, apperrors.New(apperrors.ErrConflict, fmt.Sprintf("order %s already exists", order.OrderID))
			}
		}
		return append([]models.Order{*order}, orders...), nil
	})
}

// UpdateStatus updates the status of an order.
func (r *RecordOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	var updated models.Order
	err := updateList(ctx, r.store, r.namespace, CollectionOrders, func(orders []models.Order) ([]models.Order, error) {
		for i := range orders {
			if orders[i].OrderID == id {
				orders[i].Status = status
				updated = orders[i]
				return orders, nil
			}
		}
		return nil, apperrors.New(apperrors.ErrNotFound, fmt.Sprintf("order with ID %s not found for status update", id))
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func nextOrderID(orders []models.Order, placedAt time.Time) string {
	if placedAt.IsZero() {
		placedAt = time.Now()
	}
	taken := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		taken[o.OrderID] = struct{}{}
	}
	ms := placedAt.UnixMilli()
	for {
		id := fmt.Sprintf("ORD-%d", ms)
		if _, ok := taken[id]; !ok {
			return id
		}
		ms++
	}
}
