package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"leadflow/internal/config"
	"leadflow/internal/models"

	"golang.org/x/time/rate"
)

// ResponderResult is one responder turn: the reply text plus an
// optional classification signal ("hand this conversation to the
// wholesale/retail/orderlookup track").
type ResponderResult struct {
	Reply   string
	Handoff models.LeadType
}

// Responder generates the conversational reply for a transcript. The
// qualifier treats it as opaque: it decides classification internally
// and signals it through the result.
type Responder interface {
	Respond(ctx context.Context, track models.LeadType, transcript, toolContext string) (ResponderResult, error)
}

// handoffMarker is the line prefix the qualifier prompt instructs the
// model to emit when it commits to a lead category.
const handoffMarker = "HANDOFF:"

var trackPrompts = map[models.LeadType]string{
	models.LeadTypeUnclassified: `You are a lead qualification assistant for a herbal products business. Greet leads professionally and collect: contact name, company and role (if applicable), email or phone, and basic requirements.

Determine the lead type from their answers:
- wholesale: business-to-business sales
- retail: individual customers seeking herbal products for health conditions
- orderlookup: customers checking on an existing order

Ask clarifying questions if the lead type is unclear. Once you are confident, put exactly one line at the very top of your reply: "HANDOFF: wholesale", "HANDOFF: retail" or "HANDOFF: orderlookup", then continue your reply on the next line.`,

	models.LeadTypeWholesale: `You are a wholesale specialist handling high-value wholesale leads. Keep a professional, consultative tone. Ask about company size, main customer types, purchase amount range and decision timeline, and propose a consultation meeting as the next step. Wholesale clients value expertise, reliability, and strategic partnership.`,

	models.LeadTypeRetail: `You are a retail sales specialist advising customers on herbal products for the symptoms they describe. Be friendly, helpful, and solutions-oriented. Ask for gender, age range and symptoms, then recommend appropriate products from the catalog excerpt provided below, with prices and an explanation of how each addresses their symptoms. Never recommend a product intended for the opposite gender. Provide dosage guidance if requested.`,

	models.LeadTypeOrderLookup: `You are a customer success specialist helping users check their order status. Be conversational, friendly and approachable. Ask for the order ID (preferred), customer name, or phone number. Use the order lookup result provided below to give clear status information, and offer helpful suggestions when no order was found.`,
}

// OpenAIResponder calls an OpenAI-compatible chat completions API.
type OpenAIResponder struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client

	// Outbound call budget shared across conversations so a burst of
	// chats cannot exhaust the provider quota.
	limiter *rate.Limiter
}

// NewOpenAIResponder creates the HTTP responder client.
func NewOpenAIResponder(cfg *config.Config) *OpenAIResponder {
	return &OpenAIResponder{
		baseURL: strings.TrimSuffix(cfg.ResponderBaseURL, "/"),
		apiKey:  cfg.ResponderAPIKey,
		model:   cfg.ResponderModel,
		client:  &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(2), 5),
	}
}

// Respond runs one completion for the conversation. toolContext (product
// recommendations, order lookup results) is injected as an extra system
// message on the specialist tracks.
func (r *OpenAIResponder) Respond(ctx context.Context, track models.LeadType, transcript, toolContext string) (ResponderResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return ResponderResult{}, fmt.Errorf("responder rate limit wait: %w", err)
	}

	messages := []map[string]interface{}{
		{"role": "system", "content": trackPrompts[track]},
	}
	if toolContext != "" {
		messages = append(messages, map[string]interface{}{
			"role":    "system",
			"content": "Tool results for this turn:\n" + toolContext,
		})
	}
	messages = append(messages, map[string]interface{}{
		"role":    "user",
		"content": transcript,
	})

	reqBody := map[string]interface{}{
		"model":    r.model,
		"messages": messages,
		"stream":   false,
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return ResponderResult{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL+"/chat/completions", bytes.NewBuffer(reqJSON))
	if err != nil {
		return ResponderResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return ResponderResult{}, fmt.Errorf("responder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return ResponderResult{}, fmt.Errorf("responder API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ResponderResult{}, fmt.Errorf("failed to decode responder response: %w", err)
	}
	if len(result.Choices) == 0 {
		return ResponderResult{}, fmt.Errorf("no choices in responder response")
	}

	content := result.Choices[0].Message.Content
	log.Printf("🤖 [RESPONDER] %s track completion: %d chars", track, len(content))

	reply, handoff := parseHandoff(content)
	return ResponderResult{Reply: reply, Handoff: handoff}, nil
}

// parseHandoff strips a leading "HANDOFF: <category>" line from the
// reply and returns the signaled category, if any.
func parseHandoff(content string) (string, models.LeadType) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(strings.ToUpper(trimmed), handoffMarker) {
		return trimmed, models.LeadTypeUnclassified
	}

	line := trimmed
	rest := ""
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		line = trimmed[:idx]
		rest = strings.TrimSpace(trimmed[idx+1:])
	}

	category := strings.TrimSpace(line[len(handoffMarker):])
	leadType := models.ParseLeadType(category)
	if leadType == models.LeadTypeUnclassified {
		// Unrecognized category: keep the whole reply untouched
		return trimmed, models.LeadTypeUnclassified
	}
	return rest, leadType
}
