package handlers

import (
	"log"

	"leadflow/internal/logging"
	"leadflow/internal/models"
	"leadflow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	qualifier *services.QualifierService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(qualifier *services.QualifierService) *ChatHandler {
	return &ChatHandler{qualifier: qualifier}
}

// PostMessage processes one chat turn through the lead qualifier
// POST /api/chat
func (h *ChatHandler) PostMessage(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	response, err := h.qualifier.ProcessMessage(c.Context(), req.ConversationID, req.Message)
	if err != nil {
		log.Printf("❌ Failed to process chat message: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process message",
		})
	}

	logging.WithConversation(response.ConversationID, string(response.LeadType)).Debug("chat turn complete")
	return c.JSON(response)
}

// GetStatus returns a conversation's classification and size
// GET /api/conversations/:id/status
func (h *ChatHandler) GetStatus(c *fiber.Ctx) error {
	conversationID := c.Params("id")
	if conversationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Conversation ID is required",
		})
	}

	status, found := h.qualifier.Status(conversationID)
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Conversation not found",
		})
	}

	return c.JSON(status)
}

// Reset discards a conversation's session state
// POST /api/conversations/:id/reset
func (h *ChatHandler) Reset(c *fiber.Ctx) error {
	conversationID := c.Params("id")
	if conversationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Conversation ID is required",
		})
	}

	h.qualifier.Reset(conversationID)
	return c.JSON(fiber.Map{
		"message": "Conversation reset",
	})
}
