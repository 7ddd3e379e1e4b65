package handlers

import (
	"leadflow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler exposes the product and order catalogs
type CatalogHandler struct {
	products *services.ProductService
	orders   *services.OrderService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(products *services.ProductService, orders *services.OrderService) *CatalogHandler {
	return &CatalogHandler{products: products, orders: orders}
}

// SearchProducts returns symptom-matched products
// GET /api/products/search?q=headache+fatigue&max=3
func (h *CatalogHandler) SearchProducts(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter 'q' is required",
		})
	}

	maxResults := c.QueryInt("max", 3)
	results := h.products.Search(query, maxResults)

	return c.JSON(fiber.Map{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}

// LookupOrder searches orders by id, customer name or phone
// GET /api/orders/lookup?q=ORD-001
func (h *CatalogHandler) LookupOrder(c *fiber.Ctx) error {
	term := c.Query("q")
	if term == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter 'q' is required",
		})
	}

	orders := h.orders.LookupOrder(term)

	return c.JSON(fiber.Map{
		"query":  term,
		"found":  len(orders) > 0,
		"orders": orders,
	})
}
