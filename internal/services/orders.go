package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"leadflow/internal/models"
)

// OrderService serves the read-only orders catalog loaded from a JSON
// array file. A missing file yields an empty catalog and a warning.
type OrderService struct {
	path string

	mu     sync.RWMutex
	orders []models.Order
}

// NewOrderService loads the orders catalog.
func NewOrderService(path string) *OrderService {
	s := &OrderService{path: path}
	s.Reload()
	return s
}

// Reload re-reads the orders file from disk.
func (s *OrderService) Reload() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		log.Printf("⚠️ [ORDERS] File %s not found: %v (catalog empty)", s.path, err)
		s.mu.Lock()
		s.orders = nil
		s.mu.Unlock()
		return
	}

	var orders []models.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		log.Printf("❌ [ORDERS] Failed to parse orders file: %v", err)
		return
	}

	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()

	log.Printf("✅ [ORDERS] Loaded %d orders from %s", len(orders), s.path)
}

// Count returns the number of loaded orders.
func (s *OrderService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// LookupOrder finds orders for a search term: exact case-insensitive
// order-id match first, then substring match against customer name or
// phone. An empty result means "not found", not a failure.
func (s *OrderService) LookupOrder(term string) []models.Order {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	lower := strings.ToLower(term)
	for _, order := range s.orders {
		if strings.ToLower(order.OrderID) == lower {
			log.Printf("🔍 [ORDERS] Found order %s by ID search", order.OrderID)
			return []models.Order{order}
		}
	}

	var matches []models.Order
	for _, order := range s.orders {
		name := strings.ToLower(order.CustomerName)
		phone := strings.ToLower(order.CustomerPhone)
		// Bidirectional phone check: the customer may type more or
		// fewer digits than the record holds.
		if strings.Contains(name, lower) ||
			strings.Contains(phone, lower) ||
			(phone != "" && strings.Contains(lower, phone)) {
			matches = append(matches, order)
		}
	}

	if len(matches) > 0 {
		log.Printf("🔍 [ORDERS] Found %d orders by customer search", len(matches))
	} else {
		log.Printf("🔍 [ORDERS] No orders found for search term: %s", term)
	}
	return matches
}

// FormatLookupResult renders a lookup outcome as the order-status text
// handed to the orderlookup responder.
func (s *OrderService) FormatLookupResult(term string, orders []models.Order) string {
	switch len(orders) {
	case 0:
		var b strings.Builder
		b.WriteString("**No Order Found**\n\n")
		fmt.Fprintf(&b, "I couldn't find any orders for '%s'. Please check:\n", term)
		b.WriteString("- Order ID spelling (e.g., ORD-001)\n")
		b.WriteString("- Customer name spelling\n")
		b.WriteString("- Phone number format\n\n")
		b.WriteString("If you need further assistance, please contact customer service.")
		return b.String()
	case 1:
		order := orders[0]
		var b strings.Builder
		b.WriteString("**Order Found!**\n\n")
		fmt.Fprintf(&b, "**Order ID**: %s\n", orNA(order.OrderID))
		fmt.Fprintf(&b, "**Product**: %s\n", orNA(order.ProductName))
		fmt.Fprintf(&b, "**Customer**: %s\n", orNA(order.CustomerName))
		fmt.Fprintf(&b, "**Phone**: %s\n", orNA(order.CustomerPhone))
		fmt.Fprintf(&b, "**Status**: %s\n", strings.ToUpper(orNA(order.Status)))
		return b.String()
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "**Multiple Orders Found (%d):**\n\n", len(orders))
		for i, order := range orders {
			fmt.Fprintf(&b, "**%d. Order %s**\n", i+1, orNA(order.OrderID))
			fmt.Fprintf(&b, "   - Product: %s\n", orNA(order.ProductName))
			fmt.Fprintf(&b, "   - Status: %s\n\n", strings.ToUpper(orNA(order.Status)))
		}
		b.WriteString("Please provide a specific Order ID for detailed information.")
		return b.String()
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
