package services

import (
	"fmt"
	"log"
	"strings"

	"leadflow/internal/config"
	"leadflow/internal/models"
)

// RouterService maps a lead category to its destination address and
// composes the notification payload. Pure composition; delivery is the
// notifier's job.
type RouterService struct {
	cfg *config.Config
}

// NewRouterService creates a new lead router
func NewRouterService(cfg *config.Config) *RouterService {
	return &RouterService{cfg: cfg}
}

// Route builds the outbound notification for a lead. Unknown
// categories fall back to the default address.
func (s *RouterService) Route(leadType models.LeadType, name string, fields map[string]string) models.NotificationPayload {
	destination := s.cfg.RouteFor(string(leadType))
	subject := fmt.Sprintf("New %s Lead: %s", leadType.Title(), name)
	body := leadEmailBody(leadType, name, fields)

	log.Printf("📬 [ROUTING] %s lead '%s' to %s", leadType, name, destination)

	return models.NotificationPayload{
		Destination: destination,
		Subject:     subject,
		Body:        body,
	}
}

// leadEmailBody renders the fixed HTML notification template. Absent
// fields render as N/A.
func leadEmailBody(leadType models.LeadType, name string, fields map[string]string) string {
	orNA := func(key string) string {
		if v := fields[key]; v != "" {
			return v
		}
		return "N/A"
	}

	priority := fields["priority"]
	if priority == "" {
		priority = models.PriorityNormal
	}
	priority = strings.ToUpper(priority)

	return fmt.Sprintf(`
	<h2>New %s Lead (%s Priority)</h2>
	<p><strong>Name:</strong> %s</p>
	<p><strong>Company:</strong> %s</p>
	<p><strong>Email:</strong> %s</p>
	<p><strong>Phone:</strong> %s</p>
	<p><strong>Details:</strong> %s</p>
	<hr>
	<p><em>This email was automatically generated by the Lead Qualification System.</em></p>
	`, leadType.Title(), priority, name, orNA("company"), orNA("email"), orNA("phone"), orNA("details"))
}
