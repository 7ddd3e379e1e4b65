package services

import (
	"fmt"
	"log"
	"time"

	"leadflow/internal/database"
	"leadflow/internal/models"
)

// LeadStore is the record store contract the qualifier depends on.
type LeadStore interface {
	SaveLead(record models.LeadRecord) (string, error)
}

// LeadService is the durable record store adapter for finalized leads.
type LeadService struct {
	db *database.DB
}

// NewLeadService creates a new lead store service
func NewLeadService(db *database.DB) *LeadService {
	return &LeadService{db: db}
}

// SaveLead appends a lead record. Unclassified leads are rejected:
// classification must complete before anything is persisted.
func (s *LeadService) SaveLead(record models.LeadRecord) (string, error) {
	if record.Type == models.LeadTypeUnclassified || record.Type == "" {
		return "", fmt.Errorf("refusing to store unclassified lead %q", record.Name)
	}

	priority := record.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}

	log.Printf("💾 [DATABASE] Storing %s lead for %s", record.Type, record.Name)

	id, err := s.db.InsertLead(models.StoredLead{
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
		LeadType:  string(record.Type),
		Name:      record.Name,
		Company:   record.Company,
		Email:     record.Email,
		Phone:     record.Phone,
		Details:   record.Details,
		Priority:  priority,
	})
	if err != nil {
		log.Printf("❌ [DATABASE] Failed to store lead for %s: %v", record.Name, err)
		return fmt.Sprintf("Failed to store lead: %v", err), err
	}

	log.Printf("✅ [DATABASE] Lead #%d stored for %s", id, record.Name)
	return fmt.Sprintf("Lead for %s successfully stored in database", record.Name), nil
}

// ListLeads returns all stored leads, newest first.
func (s *LeadService) ListLeads() ([]models.StoredLead, error) {
	leads, err := s.db.ListLeads()
	if err != nil {
		log.Printf("❌ [DATABASE] Failed to list leads: %v", err)
		return nil, err
	}
	log.Printf("💾 [DATABASE] Retrieved %d leads", len(leads))
	return leads, nil
}

// ClearLeads permanently deletes all stored leads.
func (s *LeadService) ClearLeads() (int64, error) {
	count, err := s.db.ClearLeads()
	if err != nil {
		log.Printf("❌ [DATABASE] Failed to clear leads: %v", err)
		return 0, err
	}
	log.Printf("🗑️ [DATABASE] Cleared %d leads", count)
	return count, nil
}
