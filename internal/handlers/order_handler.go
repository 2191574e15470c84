package handlers

import (
	"fmt"

	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// PlaceOrderRequest is the checkout request body.
type PlaceOrderRequest struct {
	Shipping       services.ShippingForm `json:"shipping"`
	DeliveryOption string                `json:"deliveryOption"`
}

// RegisterRoutes registers the public order routes. Guests may check out.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/orders", h.HandlePlaceOrder)
}

// RegisterProtectedRoutes registers order routes that need a logged-in user.
func (h *OrderHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/orders", h.HandleGetMyOrders)
	router.Get("/orders/stats", h.HandleGetMyStats)
}

// RegisterAdminRoutes registers the store-wide order view. router must be
// gated by middleware.AdminRequired.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	adminRoutes := router.Group("/orders")
	adminRoutes.Get("/", h.HandleGetOrders)
	adminRoutes.Get("/:id", h.HandleGetOrderByID)
	adminRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// HandlePlaceOrder turns the client's cart into an order.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	var req PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	order, err := h.service.PlaceOrder(c.UserContext(), middleware.ClientID(c), req.Shipping, req.DeliveryOption)
	if err != nil {
		return respondError(c, err, "Could not create order")
	}

	// Return the created order with its new ID and a 201 Created status
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":             "Order placed successfully",
		"order":               order,
		"confirmationDelayMs": services.ConfirmationDelay.Milliseconds(),
	})
}

// HandleGetMyOrders lists the logged-in user's orders.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.OrdersForUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetMyStats returns the logged-in user's order counts.
func (h *OrderHandler) HandleGetMyStats(c *fiber.Ctx) error {
	stats, err := h.service.UserStats(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve order stats")
	}
	return c.JSON(stats)
}

// HandleGetOrders retrieves all orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.UserContext())
	if err != nil {
		return respondError(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not retrieve order")
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return badBody(c, err)
	}
	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), orderID, updateData.Status)
	if err != nil {
		return respondError(c, err, "Could not update order status")
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, order.Status),
		"order":   order,
		"color":   order.Status.Color(),
	})
}
