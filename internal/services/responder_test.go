package services

import (
	"testing"

	"leadflow/internal/models"
)

func TestParseHandoffStripsMarkerLine(t *testing.T) {
	reply, handoff := parseHandoff("HANDOFF: wholesale\nGreat, let me connect you with our wholesale team.")
	if handoff != models.LeadTypeWholesale {
		t.Errorf("Expected wholesale handoff, got %s", handoff)
	}
	if reply != "Great, let me connect you with our wholesale team." {
		t.Errorf("Marker line not stripped: %q", reply)
	}
}

func TestParseHandoffNoMarker(t *testing.T) {
	reply, handoff := parseHandoff("Could you tell me a bit more about what you need?")
	if handoff != models.LeadTypeUnclassified {
		t.Errorf("Expected no handoff, got %s", handoff)
	}
	if reply != "Could you tell me a bit more about what you need?" {
		t.Errorf("Reply altered: %q", reply)
	}
}

func TestParseHandoffCategories(t *testing.T) {
	tests := []struct {
		content  string
		expected models.LeadType
	}{
		{"HANDOFF: retail\nLet's find the right product.", models.LeadTypeRetail},
		{"HANDOFF: orderlookup\nLet me check on that order.", models.LeadTypeOrderLookup},
		{"handoff: wholesale\nConnecting you now.", models.LeadTypeWholesale},
	}

	for _, tt := range tests {
		_, handoff := parseHandoff(tt.content)
		if handoff != tt.expected {
			t.Errorf("parseHandoff(%q): expected %s, got %s", tt.content, tt.expected, handoff)
		}
	}
}

func TestParseHandoffUnknownCategoryKeepsReply(t *testing.T) {
	content := "HANDOFF: enterprise\nWe can help with that."
	reply, handoff := parseHandoff(content)
	if handoff != models.LeadTypeUnclassified {
		t.Errorf("Unknown category must not classify, got %s", handoff)
	}
	if reply != content {
		t.Errorf("Expected untouched reply for unknown category, got %q", reply)
	}
}

func TestParseHandoffMarkerOnly(t *testing.T) {
	reply, handoff := parseHandoff("HANDOFF: retail")
	if handoff != models.LeadTypeRetail {
		t.Errorf("Expected retail handoff, got %s", handoff)
	}
	if reply != "" {
		t.Errorf("Expected empty reply, got %q", reply)
	}
}
