package handlers

import (
	"log"

	"leadflow/internal/models"
	"leadflow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// EmailHandler exposes notifier configuration checks
type EmailHandler struct {
	email  *services.EmailService
	router *services.RouterService
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(email *services.EmailService, router *services.RouterService) *EmailHandler {
	return &EmailHandler{email: email, router: router}
}

// SendTest sends a configuration check email to the sender address
// POST /api/email/test
func (h *EmailHandler) SendTest(c *fiber.Ctx) error {
	result, err := h.email.SendTest()
	if err != nil {
		log.Printf("❌ Test email failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":  "Test email failed",
			"detail": result,
		})
	}

	return c.JSON(fiber.Map{
		"enabled": h.email.Enabled(),
		"result":  result,
	})
}

// TestRouting sends one routing-check email per lead category
// POST /api/email/routing-test
func (h *EmailHandler) TestRouting(c *fiber.Ctx) error {
	results := make(map[string]string)
	allOK := true

	for _, leadType := range []models.LeadType{models.LeadTypeWholesale, models.LeadTypeRetail, models.LeadTypeOrderLookup} {
		name := "Test " + leadType.Title() + " Lead"
		payload := h.router.Route(leadType, name, map[string]string{})
		result, err := h.email.Send(payload.Destination, payload.Subject, payload.Body, "")
		results[string(leadType)] = result
		if err != nil {
			allOK = false
		}
	}

	status := fiber.StatusOK
	if !allOK {
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(fiber.Map{
		"enabled": h.email.Enabled(),
		"results": results,
	})
}
