package handlers

import (
	"storefront/internal/apperrors"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves products and categories.
type CatalogHandler struct {
	service *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/categories", h.HandleGetCategories)
	router.Get("/products", h.HandleGetProducts)
	router.Get("/products/:id", h.HandleGetProductByID)
}

// HandleGetCategories lists the categories.
func (h *CatalogHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext())
	if err != nil {
		return respondError(c, err, "Could not retrieve categories")
	}
	return c.JSON(categories)
}

// HandleGetProducts lists products. ?q= searches, ?category= filters.
func (h *CatalogHandler) HandleGetProducts(c *fiber.Ctx) error {
	if term := c.Query("q"); term != "" {
		products, err := h.service.Search(c.UserContext(), term)
		if err != nil {
			return respondError(c, err, "Could not search products")
		}
		return c.JSON(products)
	}

	products, err := h.service.Products(c.UserContext(), c.Query("category"))
	if err != nil {
		return respondError(c, err, "Could not retrieve products")
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product.
func (h *CatalogHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, apperrors.New(apperrors.ErrValidation, "product ID must be a number"), "")
	}
	product, err := h.service.Product(c.UserContext(), int64(id))
	if err != nil {
		return respondError(c, err, "Could not retrieve product")
	}
	return c.JSON(product)
}
