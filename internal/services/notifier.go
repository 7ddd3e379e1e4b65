package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"leadflow/internal/config"
)

// Notifier delivers a composed notification. The result string is a
// human-readable status for the conversation log; a non-nil error never
// escapes the handoff boundary.
type Notifier interface {
	Send(destination, subject, body, cc string) (string, error)
}

// EmailService sends notifications over SMTP with STARTTLS. When the
// sender credentials are not configured it degrades to a no-op mode
// that reports what would have been sent.
type EmailService struct {
	cfg *config.Config
}

// NewEmailService creates a new email notifier
func NewEmailService(cfg *config.Config) *EmailService {
	if !cfg.EmailEnabled() {
		log.Println("⚠️ Email sending disabled (EMAIL_USER / EMAIL_APP_PASSWORD not set)")
	} else {
		log.Printf("✅ Email enabled (%s via %s:%s)", cfg.EmailUser, cfg.SMTPHost, cfg.SMTPPort)
	}
	return &EmailService{cfg: cfg}
}

// Enabled reports whether outbound email is configured.
func (s *EmailService) Enabled() bool {
	return s.cfg.EmailEnabled()
}

// Send delivers one HTML email. cc may be empty or a comma-separated
// list. In disabled mode it returns a would-send description and no
// error.
func (s *EmailService) Send(destination, subject, body, cc string) (string, error) {
	log.Printf("📧 [EMAIL] Sending to %s - %s", destination, subject)

	if !s.cfg.EmailEnabled() {
		message := fmt.Sprintf("Email disabled. Would send to %s: %s", destination, subject)
		log.Printf("📧 [EMAIL] %s", message)
		return message, nil
	}

	recipients := []string{destination}
	if cc != "" {
		for _, addr := range strings.Split(cc, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				recipients = append(recipients, addr)
			}
		}
	}

	msg := buildMessage(s.cfg.EmailUser, destination, cc, subject, body)

	auth := smtp.PlainAuth("", s.cfg.EmailUser, s.cfg.EmailAppPassword, s.cfg.SMTPHost)
	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort

	if err := smtp.SendMail(addr, auth, s.cfg.EmailUser, recipients, msg); err != nil {
		log.Printf("❌ [EMAIL] Failed to send to %s: %v", destination, err)
		return fmt.Sprintf("Failed to send email: %v", err), fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("✅ [EMAIL] Sent successfully to %s", destination)
	return fmt.Sprintf("Email sent successfully to %s", destination), nil
}

// SendTest sends a configuration check email to the sender address.
func (s *EmailService) SendTest() (string, error) {
	body := fmt.Sprintf(`
	<h1>Test Email</h1>
	<p>This is a test email from the Lead Qualification System.</p>
	<p>If you're receiving this, your email configuration is working correctly.</p>
	<hr>
	<p><strong>Configuration:</strong></p>
	<ul>
		<li>From: %s</li>
		<li>SMTP: %s:%s</li>
		<li>Time: %s</li>
	</ul>
	`, s.cfg.EmailUser, s.cfg.SMTPHost, s.cfg.SMTPPort, time.Now().Format("2006-01-02 15:04:05"))

	return s.Send(s.cfg.EmailUser, "Test Email from Lead Qualification System", body, "")
}

// buildMessage assembles an RFC 5322 message with an HTML body.
func buildMessage(from, to, cc, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	if cc != "" {
		b.WriteString("Cc: " + cc + "\r\n")
	}
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
