package models

import "strings"

// LeadType is the classification a conversation commits to.
type LeadType string

const (
	LeadTypeUnclassified LeadType = "unclassified"
	LeadTypeWholesale    LeadType = "wholesale"
	LeadTypeRetail       LeadType = "retail"
	LeadTypeOrderLookup  LeadType = "orderlookup"
)

// ParseLeadType normalizes a raw classification string. Anything
// unrecognized maps to unclassified.
func ParseLeadType(s string) LeadType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wholesale":
		return LeadTypeWholesale
	case "retail":
		return LeadTypeRetail
	case "orderlookup", "order_lookup", "order-lookup":
		return LeadTypeOrderLookup
	default:
		return LeadTypeUnclassified
	}
}

// Title returns the category in display form ("Wholesale", "Orderlookup").
func (t LeadType) Title() string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Priority levels for stored leads.
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// UnknownName is the sentinel used when no name could be extracted.
const UnknownName = "Unknown"

// LeadRecord is the structured contact data derived from a conversation.
type LeadRecord struct {
	Type     LeadType `json:"lead_type"`
	Name     string   `json:"name"`
	Company  string   `json:"company,omitempty"`
	Email    string   `json:"email,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Details  string   `json:"details,omitempty"`
	Priority string   `json:"priority"`
}

// Fields returns the merge-relevant fields as a map, the shape consumed
// by the notification deduper.
func (r LeadRecord) Fields() map[string]string {
	return map[string]string{
		"name":    r.Name,
		"company": r.Company,
		"email":   r.Email,
		"phone":   r.Phone,
		"details": r.Details,
	}
}

// StoredLead is a persisted lead row from the record store.
type StoredLead struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	LeadType  string `json:"lead_type"`
	Name      string `json:"name"`
	Company   string `json:"company"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Details   string `json:"details"`
	Priority  string `json:"priority"`
}

// NotifyDecision is the deduper's verdict for one lead mention.
type NotifyDecision struct {
	Send   bool              `json:"send"`
	Merged map[string]string `json:"merged,omitempty"`
	Reason string            `json:"reason"`
}

// NotificationPayload is a composed outbound notification, ready for the
// notifier adapter.
type NotificationPayload struct {
	Destination string `json:"destination"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}
