package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestOrderService(t *testing.T) *OrderService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.json")
	data := `[
		{"order_id": "ORD-001", "product_name": "Head Ease", "customer_name": "John Smith", "customer_phone": "555-123-4567", "status": "shipped"},
		{"order_id": "ORD-002", "product_name": "Vital Boost", "customer_name": "Jane Smith", "customer_phone": "555-987-6543", "status": "processing"},
		{"order_id": "ORD-003", "product_name": "Night Calm", "customer_name": "Bob Lee", "customer_phone": "555-222-3333", "status": "delivered"}
	]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write test orders: %v", err)
	}
	return NewOrderService(path)
}

func TestLookupOrderByIDCaseInsensitive(t *testing.T) {
	orders := newTestOrderService(t)

	for _, term := range []string{"ORD-001", "ord-001", "  Ord-001  "} {
		results := orders.LookupOrder(term)
		if len(results) != 1 {
			t.Fatalf("LookupOrder(%q): expected 1 order, got %d", term, len(results))
		}
		if results[0].OrderID != "ORD-001" {
			t.Errorf("LookupOrder(%q): got order %s", term, results[0].OrderID)
		}
	}
}

func TestLookupOrderIDMatchReturnsSingle(t *testing.T) {
	orders := newTestOrderService(t)

	// An exact id match never falls through to the customer search
	results := orders.LookupOrder("ORD-002")
	if len(results) != 1 || results[0].CustomerName != "Jane Smith" {
		t.Errorf("Expected single ORD-002 match, got %v", results)
	}
}

func TestLookupOrderByCustomerSubstring(t *testing.T) {
	orders := newTestOrderService(t)

	results := orders.LookupOrder("smith")
	if len(results) != 2 {
		t.Fatalf("Expected 2 orders for smith, got %d", len(results))
	}
}

func TestLookupOrderByPhone(t *testing.T) {
	orders := newTestOrderService(t)

	results := orders.LookupOrder("555-222-3333")
	if len(results) != 1 || results[0].OrderID != "ORD-003" {
		t.Errorf("Expected ORD-003 for phone lookup, got %v", results)
	}
}

func TestLookupOrderNotFound(t *testing.T) {
	orders := newTestOrderService(t)

	if results := orders.LookupOrder("ORD-999"); len(results) != 0 {
		t.Errorf("Expected no results, got %v", results)
	}
	if results := orders.LookupOrder(""); results != nil {
		t.Errorf("Expected nil for empty term, got %v", results)
	}
}

func TestLookupOrderMissingFile(t *testing.T) {
	orders := NewOrderService(filepath.Join(t.TempDir(), "missing.json"))

	if orders.Count() != 0 {
		t.Errorf("Expected empty catalog, got %d orders", orders.Count())
	}
}

func TestFormatLookupResultSingle(t *testing.T) {
	orders := newTestOrderService(t)

	text := orders.FormatLookupResult("ORD-001", orders.LookupOrder("ORD-001"))
	if !strings.Contains(text, "Order Found!") {
		t.Errorf("Expected found header:\n%s", text)
	}
	if !strings.Contains(text, "SHIPPED") {
		t.Errorf("Expected uppercased status:\n%s", text)
	}
}

func TestFormatLookupResultMultiple(t *testing.T) {
	orders := newTestOrderService(t)

	text := orders.FormatLookupResult("smith", orders.LookupOrder("smith"))
	if !strings.Contains(text, "Multiple Orders Found (2)") {
		t.Errorf("Expected multiple-orders header:\n%s", text)
	}
}

func TestFormatLookupResultNone(t *testing.T) {
	orders := newTestOrderService(t)

	text := orders.FormatLookupResult("ORD-999", nil)
	if !strings.Contains(text, "No Order Found") {
		t.Errorf("Expected not-found message:\n%s", text)
	}
	if !strings.Contains(text, "ORD-999") {
		t.Errorf("Expected search term echoed:\n%s", text)
	}
}
