package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	productCount func() int
	orderCount   func() int
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(productCount, orderCount func() int) *HealthHandler {
	return &HealthHandler{productCount: productCount, orderCount: orderCount}
}

// Handle returns the service health status
// GET /health
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"products": h.productCount(),
		"orders":   h.orderCount(),
	})
}
