package handlers

import (
	"log"

	"leadflow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// LeadHandler handles lead store admin requests
type LeadHandler struct {
	leads *services.LeadService
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leads *services.LeadService) *LeadHandler {
	return &LeadHandler{leads: leads}
}

// List returns all stored leads, newest first
// GET /api/leads
func (h *LeadHandler) List(c *fiber.Ctx) error {
	leads, err := h.leads.ListLeads()
	if err != nil {
		log.Printf("❌ Failed to list leads: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve leads",
		})
	}

	return c.JSON(fiber.Map{
		"count": len(leads),
		"leads": leads,
	})
}

// Export returns all stored leads as a downloadable JSON document
// GET /api/leads/export
func (h *LeadHandler) Export(c *fiber.Ctx) error {
	leads, err := h.leads.ListLeads()
	if err != nil {
		log.Printf("❌ Failed to export leads: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve leads",
		})
	}

	c.Set("Content-Disposition", `attachment; filename="leads_export.json"`)
	return c.JSON(leads)
}

// Clear permanently deletes all stored leads. Requires an explicit
// confirmation flag so the destructive path can't be hit by accident.
// DELETE /api/leads?confirm=true
func (h *LeadHandler) Clear(c *fiber.Ctx) error {
	if c.Query("confirm") != "true" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Pass confirm=true to permanently delete all leads",
		})
	}

	count, err := h.leads.ClearLeads()
	if err != nil {
		log.Printf("❌ Failed to clear leads: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to clear leads",
		})
	}

	return c.JSON(fiber.Map{
		"message": "All leads cleared from database",
		"deleted": count,
	})
}
