package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"leadflow/internal/config"
	"leadflow/internal/models"
	"leadflow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// stubResponder always classifies as retail on the second turn.
type stubResponder struct {
	calls int
}

func (r *stubResponder) Respond(ctx context.Context, track models.LeadType, transcript, toolContext string) (services.ResponderResult, error) {
	r.calls++
	if r.calls == 1 {
		return services.ResponderResult{Reply: "Hi! What can I help you with?"}, nil
	}
	return services.ResponderResult{Reply: "Let me find a product for you.", Handoff: models.LeadTypeRetail}, nil
}

type nopNotifier struct{}

func (nopNotifier) Send(destination, subject, body, cc string) (string, error) {
	return "Email disabled. Would send to " + destination + ": " + subject, nil
}

type nopLeadStore struct{}

func (nopLeadStore) SaveLead(record models.LeadRecord) (string, error) {
	return "stored", nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &config.Config{EmailUser: "owner@example.com", EmailRouting: map[string]string{}}

	qualifier := services.NewQualifierService(
		time.Hour,
		&stubResponder{},
		services.NewExtractorService(),
		services.NewDeduperService(300*time.Second),
		services.NewRouterService(cfg),
		nopNotifier{},
		nopLeadStore{},
		nil,
		nil,
	)

	app := fiber.New()
	chatHandler := NewChatHandler(qualifier)
	healthHandler := NewHealthHandler(func() int { return 0 }, func() int { return 0 })

	app.Get("/health", healthHandler.Handle)
	app.Post("/api/chat", chatHandler.PostMessage)
	app.Get("/api/conversations/:id/status", chatHandler.GetStatus)
	app.Post("/api/conversations/:id/reset", chatHandler.Reset)
	return app
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}

func TestChatEndpoint(t *testing.T) {
	app := newTestApp(t)

	body, _ := json.Marshal(models.ChatRequest{ConversationID: "conv-1", Message: "Hello"})
	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var chatResp models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if chatResp.ConversationID != "conv-1" {
		t.Errorf("Expected conv-1, got %q", chatResp.ConversationID)
	}
	if chatResp.Reply == "" {
		t.Error("Expected a non-empty reply")
	}
}

func TestChatEndpointRequiresMessage(t *testing.T) {
	app := newTestApp(t)

	body, _ := json.Marshal(models.ChatRequest{ConversationID: "conv-1"})
	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for missing message, got %d", resp.StatusCode)
	}
}

func TestConversationStatusEndpoint(t *testing.T) {
	app := newTestApp(t)

	body, _ := json.Marshal(models.ChatRequest{ConversationID: "conv-1", Message: "Hello"})
	req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if _, err := app.Test(req, 5000); err != nil {
		t.Fatalf("Chat request failed: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/conversations/conv-1/status", nil))
	if err != nil {
		t.Fatalf("Status request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/conversations/unknown/status", nil))
	if err != nil {
		t.Fatalf("Status request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404 for unknown conversation, got %d", resp.StatusCode)
	}
}
