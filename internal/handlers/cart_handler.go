package handlers

import (
	"storefront/internal/apperrors"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles the client's cart.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// AddItemRequest is the body of POST /cart/items.
type AddItemRequest struct {
	ProductID int64  `json:"productId"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:id", h.HandleSetQuantity)
	cartRoutes.Delete("/", h.HandleReset)
}

// HandleGetCart returns the cart with its count and subtotal.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	lines, err := h.service.Lines(c.UserContext(), middleware.ClientID(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve cart")
	}
	return c.JSON(cartBody(lines))
}

// HandleAddItem adds one unit of a product.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	lines, err := h.service.AddItem(c.UserContext(), middleware.ClientID(c), req.ProductID, services.AddOptions{
		Color: req.Color,
		Size:  req.Size,
	})
	if err != nil {
		return respondError(c, err, "Could not add to cart")
	}
	return c.JSON(cartBody(lines))
}

// HandleSetQuantity sets a line's quantity; below 1 removes it.
func (h *CartHandler) HandleSetQuantity(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, apperrors.New(apperrors.ErrValidation, "product ID must be a number"), "")
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	lines, err := h.service.SetQuantity(c.UserContext(), middleware.ClientID(c), int64(productID), req.Quantity)
	if err != nil {
		return respondError(c, err, "Could not update cart")
	}
	return c.JSON(cartBody(lines))
}

// HandleReset empties the cart.
func (h *CartHandler) HandleReset(c *fiber.Ctx) error {
	if err := h.service.Reset(c.UserContext(), middleware.ClientID(c)); err != nil {
		return respondError(c, err, "Could not clear cart")
	}
	return c.JSON(cartBody([]models.CartLine{}))
}

func cartBody(lines []models.CartLine) fiber.Map {
	return fiber.Map{
		"items":    lines,
		"count":    len(lines),
		"subtotal": services.SubtotalOf(lines).InexactFloat64(),
	}
}
