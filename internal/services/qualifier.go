package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"leadflow/internal/models"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// session is the per-conversation state. A conversation is terminal
// once classified: there is no transition back to unclassified.
type session struct {
	id        string
	leadType  models.LeadType
	messages  []models.ChatMessage
	startedAt time.Time

	// Serializes turns within one conversation; independent
	// conversations run concurrently.
	mu sync.Mutex
}

// transcript renders the conversation as the text handed to the
// responder and the entity extractor.
func (s *session) transcript() string {
	var b strings.Builder
	for i, msg := range s.messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		if msg.Role == "assistant" {
			b.WriteString("Assistant: ")
		} else {
			b.WriteString("User: ")
		}
		b.WriteString(msg.Content)
	}
	return b.String()
}

// QualifierService drives a conversation from unclassified to one of
// the specialist tracks and fires the handoff side effects exactly at
// the transition point.
type QualifierService struct {
	sessions *cache.Cache

	responder Responder
	extractor *ExtractorService
	deduper   *DeduperService
	router    *RouterService
	notifier  Notifier
	store     LeadStore
	products  *ProductService
	orders    *OrderService

	// Join point for the async notification side effect, so callers
	// (and tests) can observe its completion instead of letting it run
	// fully detached.
	sideEffects sync.WaitGroup
}

// NewQualifierService wires the classification state machine.
func NewQualifierService(
	sessionTTL time.Duration,
	responder Responder,
	extractor *ExtractorService,
	deduper *DeduperService,
	router *RouterService,
	notifier Notifier,
	store LeadStore,
	products *ProductService,
	orders *OrderService,
) *QualifierService {
	return &QualifierService{
		sessions:  cache.New(sessionTTL, 10*time.Minute),
		responder: responder,
		extractor: extractor,
		deduper:   deduper,
		router:    router,
		notifier:  notifier,
		store:     store,
		products:  products,
		orders:    orders,
	}
}

// getOrCreateSession returns the session for a conversation, creating
// a fresh unclassified one when needed.
func (s *QualifierService) getOrCreateSession(conversationID string) *session {
	if value, found := s.sessions.Get(conversationID); found {
		if sess, ok := value.(*session); ok {
			return sess
		}
	}

	sess := &session{
		id:        conversationID,
		leadType:  models.LeadTypeUnclassified,
		startedAt: time.Now(),
	}
	s.sessions.Set(conversationID, sess, cache.DefaultExpiration)
	log.Printf("💬 [QUALIFIER] New conversation %s", conversationID)
	return sess
}

// ProcessMessage runs one chat turn: append the user line, invoke the
// responder, commit a handoff if one was signaled, append the reply.
// The responder call is the single suspension point; no side effect is
// committed before it returns.
func (s *QualifierService) ProcessMessage(ctx context.Context, conversationID, message string) (models.ChatResponse, error) {
	start := time.Now()

	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	if strings.TrimSpace(message) == "" {
		return models.ChatResponse{}, fmt.Errorf("message is empty")
	}

	sess := s.getOrCreateSession(conversationID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	// Touch the session so active conversations don't expire mid-chat
	s.sessions.Set(conversationID, sess, cache.DefaultExpiration)

	preview := message
	if len(preview) > 50 {
		preview = preview[:50] + "..."
	}
	log.Printf("💬 [QUALIFIER] %s (%s): %s", conversationID, sess.leadType, preview)

	// The transcript is appended to before the responder runs so the
	// responder always sees the user's latest line.
	sess.messages = append(sess.messages, models.ChatMessage{Role: "user", Content: message})

	toolContext := s.toolContext(sess.leadType, message)

	result, err := s.responder.Respond(ctx, sess.leadType, sess.transcript(), toolContext)
	if err != nil {
		log.Printf("❌ [QUALIFIER] Responder failed for %s: %v", conversationID, err)
		recordResponderError()
		return models.ChatResponse{
			ConversationID: conversationID,
			Reply:          "I apologize, but there was an error processing your message. Please try again.",
			LeadType:       sess.leadType,
		}, nil
	}

	// A handoff is committed only once per conversation; the
	// classification is terminal.
	if result.Handoff != models.LeadTypeUnclassified && sess.leadType == models.LeadTypeUnclassified {
		sess.leadType = result.Handoff
		s.handleHandoff(result.Handoff, sess.transcript())
	}

	sess.messages = append(sess.messages, models.ChatMessage{Role: "assistant", Content: result.Reply})

	recordChatRequest(time.Since(start).Seconds())

	return models.ChatResponse{
		ConversationID: conversationID,
		Reply:          result.Reply,
		LeadType:       sess.leadType,
	}, nil
}

// toolContext produces the specialist tool results for this turn:
// product recommendations on the retail track, order status on the
// orderlookup track.
func (s *QualifierService) toolContext(leadType models.LeadType, message string) string {
	switch leadType {
	case models.LeadTypeRetail:
		if s.products == nil {
			return ""
		}
		results := s.products.Search(message, 3)
		if len(results) == 0 {
			return ""
		}
		return s.products.FormatRecommendations(message, results)
	case models.LeadTypeOrderLookup:
		if s.orders == nil {
			return ""
		}
		return s.orders.FormatLookupResult(message, s.orders.LookupOrder(message))
	default:
		return ""
	}
}

// handleHandoff runs the side effects for a committed classification.
// Nothing here may abort the conversation: every failure is caught,
// logged, and swallowed at this boundary.
func (s *QualifierService) handleHandoff(leadType models.LeadType, transcript string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ [HANDOFF] Recovered from panic during %s handoff: %v", leadType, r)
		}
	}()

	log.Printf("🤝 [HANDOFF] %s lead detected", leadType.Title())

	record := s.extractor.Extract(transcript)
	record.Type = leadType
	log.Printf("🤝 [HANDOFF] Extracted %s lead: name=%s company=%q email=%q phone=%q",
		leadType, record.Name, record.Company, record.Email, record.Phone)

	switch leadType {
	case models.LeadTypeWholesale:
		// Notification runs async but joined through the WaitGroup;
		// see Flush.
		s.sideEffects.Add(1)
		go func() {
			defer s.sideEffects.Done()
			s.notifyLead(record)
		}()
	case models.LeadTypeRetail:
		log.Printf("🤝 [HANDOFF] Retail lead %s - skipping email, providing product recommendations", record.Name)
	case models.LeadTypeOrderLookup:
		log.Printf("🤝 [HANDOFF] Orderlookup lead %s - skipping email, providing order status lookup", record.Name)
	}

	// Persistence is unconditional on every qualifying transition,
	// independent of the notify outcome.
	if _, err := s.store.SaveLead(record); err != nil {
		log.Printf("❌ [HANDOFF] Failed to store %s lead %s: %v", leadType, record.Name, err)
		recordLeadStoreFailure()
	} else {
		recordLeadStored(string(leadType))
	}
}

// notifyLead runs the dedup decision and, when permitted, routes and
// sends the notification.
func (s *QualifierService) notifyLead(record models.LeadRecord) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ [NOTIFY] Recovered from panic notifying about %s: %v", record.Name, r)
		}
	}()

	decision := s.deduper.ConsiderNotify(record.Type, record.Name, record.Fields())
	if !decision.Send {
		reason := "duplicate"
		if decision.Reason == "no email yet" {
			reason = "no_email"
		}
		recordNotificationSkipped(reason)
		log.Printf("📧 [NOTIFY] Skipping %s lead %s: %s", record.Type, record.Name, decision.Reason)
		return
	}

	payload := s.router.Route(record.Type, record.Name, decision.Merged)
	result, err := s.notifier.Send(payload.Destination, payload.Subject, payload.Body, "")
	if err != nil {
		recordNotificationFailure()
	} else {
		recordNotificationSent()
	}
	log.Printf("📧 [NOTIFY] Result for %s: %s", record.Name, result)
}

// Flush blocks until all in-flight notification side effects have
// completed. Used on shutdown and by tests.
func (s *QualifierService) Flush() {
	s.sideEffects.Wait()
}

// Reset discards a conversation's session state. No side effects from
// an unfinished turn survive a reset.
func (s *QualifierService) Reset(conversationID string) {
	s.sessions.Delete(conversationID)
	log.Printf("🔄 [QUALIFIER] Conversation %s reset", conversationID)
}

// Status reports a conversation's current classification and size.
func (s *QualifierService) Status(conversationID string) (models.ConversationStatus, bool) {
	value, found := s.sessions.Get(conversationID)
	if !found {
		return models.ConversationStatus{}, false
	}
	sess, ok := value.(*session)
	if !ok {
		return models.ConversationStatus{}, false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return models.ConversationStatus{
		ConversationID: conversationID,
		LeadType:       sess.leadType,
		MessageCount:   len(sess.messages),
		StartedAt:      sess.startedAt,
	}, true
}
