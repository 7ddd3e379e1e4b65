package handlers

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"leadflow/internal/models"
	"leadflow/internal/services"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// wsClientMessage is one inbound WebSocket frame from the chat widget.
type wsClientMessage struct {
	Type    string `json:"type"` // "chat" or "reset"
	Message string `json:"message,omitempty"`
}

// wsServerMessage is one outbound WebSocket frame.
type wsServerMessage struct {
	Type           string          `json:"type"` // "reply" or "error"
	ConversationID string          `json:"conversation_id,omitempty"`
	Reply          string          `json:"reply,omitempty"`
	LeadType       models.LeadType `json:"lead_type,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// WebSocketHandler serves the chat over a WebSocket connection. One
// connection maps to one conversation.
type WebSocketHandler struct {
	qualifier *services.QualifierService
}

// NewWebSocketHandler creates a new WebSocket chat handler
func NewWebSocketHandler(qualifier *services.QualifierService) *WebSocketHandler {
	return &WebSocketHandler{qualifier: qualifier}
}

// Handle handles a new WebSocket chat connection
// GET /ws/chat
func (h *WebSocketHandler) Handle(c *websocket.Conn) {
	conversationID := uuid.NewString()
	log.Printf("🔌 [WS] Chat connection opened (conversation %s)", conversationID)

	defer func() {
		log.Printf("🔌 [WS] Chat connection closed (conversation %s)", conversationID)
	}()

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			return
		}

		var msg wsClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.writeError(c, "Invalid message format")
			continue
		}

		switch msg.Type {
		case "reset":
			h.qualifier.Reset(conversationID)
			conversationID = uuid.NewString()
			if err := c.WriteJSON(wsServerMessage{Type: "reply", ConversationID: conversationID, LeadType: models.LeadTypeUnclassified}); err != nil {
				return
			}

		case "chat":
			if msg.Message == "" {
				h.writeError(c, "Message is required")
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
			response, err := h.qualifier.ProcessMessage(ctx, conversationID, msg.Message)
			cancel()
			if err != nil {
				h.writeError(c, "Failed to process message")
				continue
			}

			if err := c.WriteJSON(wsServerMessage{
				Type:           "reply",
				ConversationID: response.ConversationID,
				Reply:          response.Reply,
				LeadType:       response.LeadType,
			}); err != nil {
				return
			}

		default:
			h.writeError(c, "Unknown message type")
		}
	}
}

func (h *WebSocketHandler) writeError(c *websocket.Conn, message string) {
	if err := c.WriteJSON(wsServerMessage{Type: "error", Error: message}); err != nil {
		log.Printf("⚠️ [WS] Failed to write error frame: %v", err)
	}
}
