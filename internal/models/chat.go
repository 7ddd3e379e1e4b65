package models

import "time"

// ChatMessage is a single turn in a conversation transcript.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the inbound chat payload. ConversationID is optional;
// when empty the server starts a new conversation.
type ChatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

// ChatResponse is the reply to one chat turn.
type ChatResponse struct {
	ConversationID string   `json:"conversation_id"`
	Reply          string   `json:"reply"`
	LeadType       LeadType `json:"lead_type"`
}

// ConversationStatus summarizes a session for status endpoints.
type ConversationStatus struct {
	ConversationID string    `json:"conversation_id"`
	LeadType       LeadType  `json:"lead_type"`
	MessageCount   int       `json:"message_count"`
	StartedAt      time.Time `json:"started_at"`
}
