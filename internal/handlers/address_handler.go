package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AddressHandler manages the logged-in user's address book.
type AddressHandler struct {
	service *services.AddressService
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(service *services.AddressService) *AddressHandler {
	return &AddressHandler{service: service}
}

// RegisterRoutes registers the address routes. They need a logged-in user.
func (h *AddressHandler) RegisterRoutes(router fiber.Router) {
	addressRoutes := router.Group("/addresses")
	addressRoutes.Get("/", h.HandleList)
	addressRoutes.Post("/", h.HandleAdd)
	addressRoutes.Put("/:id", h.HandleUpdate)
	addressRoutes.Delete("/:id", h.HandleDelete)
}

// HandleList returns the user's saved addresses.
func (h *AddressHandler) HandleList(c *fiber.Ctx) error {
	addresses, err := h.service.List(c.UserContext(), middleware.ClientID(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve addresses")
	}
	return c.JSON(addresses)
}

// HandleAdd saves a new address and returns it with its generated ID.
func (h *AddressHandler) HandleAdd(c *fiber.Ctx) error {
	var address models.Address
	if err := c.BodyParser(&address); err != nil {
		return badBody(c, err)
	}
	created, err := h.service.Add(c.UserContext(), middleware.ClientID(c), address)
	if err != nil {
		return respondError(c, err, "Could not add address")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdate replaces the address named by the :id param.
func (h *AddressHandler) HandleUpdate(c *fiber.Ctx) error {
	var address models.Address
	if err := c.BodyParser(&address); err != nil {
		return badBody(c, err)
	}
	updated, err := h.service.Update(c.UserContext(), middleware.ClientID(c), c.Params("id"), address)
	if err != nil {
		return respondError(c, err, "Could not update address")
	}
	return c.JSON(updated)
}

// HandleDelete removes an address and returns the ones left.
func (h *AddressHandler) HandleDelete(c *fiber.Ctx) error {
	remaining, err := h.service.Delete(c.UserContext(), middleware.ClientID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not delete address")
	}
	return c.JSON(remaining)
}
