package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ConfirmationDelay is how long the UI shows the confirmation screen before
// returning home. It is informational only.
const ConfirmationDelay = 3 * time.Second

// ExpressDeliveryFee is charged for the express delivery option.
const ExpressDeliveryFee = 50

// ShippingForm is the checkout form.
type ShippingForm struct {
	FullName   string `json:"fullName" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Email      string `json:"email" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
}

// UserStats summarises a user's orders for the profile screen.
type UserStats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo     repositories.OrderRepository
	carts         *CartService
	auth          *AuthService
	notifications *NotificationService
	publisher     EventPublisher
	validate      *validator.Validate
	now           func() time.Time
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	carts *CartService,
	auth *AuthService,
	notifications *NotificationService,
	publisher EventPublisher,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		carts:         carts,
		auth:          auth,
		notifications: notifications,
		publisher:     publisher,
		validate:      validator.New(),
		now:           time.Now,
	}
}

// DeliveryFee returns the fee for a delivery option and the normalized
// option. Anything other than express is standard delivery.
func DeliveryFee(option string) (string, decimal.Decimal) {
	if strings.EqualFold(option, models.DeliveryExpress) {
		return models.DeliveryExpress, decimal.NewFromInt(ExpressDeliveryFee)
	}
	return models.DeliveryStandard, decimal.Zero
}

// PlaceOrder turns the client's cart into an order.
func (s *OrderService) PlaceOrder(ctx context.Context, clientID string, form ShippingForm, deliveryOption string) (*models.Order, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, apperrors.FromValidation(err)
	}

	lines, err := s.carts.Lines(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	session, err := s.auth.CurrentSession(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var userID, userName string
	if session.IsAuthenticated && session.CurrentUser != nil {
		userID = session.CurrentUser.ID
		userName = session.CurrentUser.Name
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			ID:       l.ID,
			Name:     l.Name,
			Price:    l.Price,
			Quantity: l.Quantity,
			Image:    l.Image,
			Color:    l.Color,
			Size:     l.Size,
			Subtotal: LineSubtotal(l).InexactFloat64(),
		})
	}

	option, fee := DeliveryFee(deliveryOption)
	subtotal := SubtotalOf(lines)

	order := &models.Order{
		UserID:    userID,
		UserName:  userName,
		OrderDate: s.now(),
		Status:    models.OrderStatusPending,
		Items:     items,
		Shipping: models.Shipping{
			FullName:       form.FullName,
			Phone:          form.Phone,
			Email:          form.Email,
			Address:        form.Address,
			City:           form.City,
			State:          form.State,
			PostalCode:     form.PostalCode,
			DeliveryOption: option,
		},
		Payment: models.Payment{
			Subtotal: subtotal.InexactFloat64(),
			Shipping: fee.InexactFloat64(),
			Total:    subtotal.Add(fee).InexactFloat64(),
		},
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.notifications.Notify(ctx, fmt.Sprintf("New order received: %s", order.OrderID), "fa-shopping-cart", models.NotificationTypeOrder)
	if err := s.carts.Reset(ctx, clientID); err != nil {
		logger.Logger.Warn("failed to reset cart after order", zap.String("order_id", order.OrderID), zap.Error(err))
	}

	publishEvent(s.publisher, RoutingKeyOrderCreated, map[string]any{
		"orderId": order.OrderID,
		"userId":  order.UserID,
		"status":  order.Status,
		"total":   order.Payment.Total,
		"items":   len(order.Items),
	})
	logger.Logger.Info("order placed",
		zap.String("order_id", order.OrderID),
		zap.String("client_id", clientID),
		zap.Float64("total", order.Payment.Total),
	)
	return order, nil
}

// ListOrders returns every order, newest first.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.GetAll(ctx)
}

// GetOrder retrieves a single order by its ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// OrdersForUser returns the orders placed by userID, newest first.
func (s *OrderService) OrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	mine := make([]models.Order, 0)
	for _, o := range orders {
		if o.UserID == userID {
			mine = append(mine, o)
		}
	}
	return mine, nil
}

// UserStats counts a user's orders.
func (s *OrderService) UserStats(ctx context.Context, userID string) (UserStats, error) {
	orders, err := s.OrdersForUser(ctx, userID)
	if err != nil {
		return UserStats{}, err
	}
	stats := UserStats{Total: len(orders)}
	for _, o := range orders {
		if o.Status == models.OrderStatusPending {
			stats.Pending++
		}
	}
	return stats, nil
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status string) (*models.Order, error) {
	next := models.OrderStatus(strings.ToLower(status))
	if !next.Valid() {
		return nil, apperrors.New(apperrors.ErrValidation, fmt.Sprintf("invalid order status: %s", status))
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, next)
	if err != nil {
		return nil, err
	}
	logger.Logger.Info("order status updated", zap.String("order_id", id), zap.String("status", string(next)))
	return order, nil
}
