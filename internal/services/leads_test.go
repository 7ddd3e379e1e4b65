package services

import (
	"path/filepath"
	"testing"

	"leadflow/internal/database"
	"leadflow/internal/models"
)

func newTestLeadService(t *testing.T) *LeadService {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "leads.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	return NewLeadService(db)
}

func TestSaveLeadRejectsUnclassified(t *testing.T) {
	leads := newTestLeadService(t)

	if _, err := leads.SaveLead(models.LeadRecord{Name: "Mark"}); err == nil {
		t.Error("Expected error for unclassified lead")
	}
	if _, err := leads.SaveLead(models.LeadRecord{Type: models.LeadTypeUnclassified, Name: "Mark"}); err == nil {
		t.Error("Expected error for explicit unclassified lead")
	}

	stored, err := leads.ListLeads()
	if err != nil {
		t.Fatalf("ListLeads failed: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("Rejected leads must not be persisted, got %d", len(stored))
	}
}

func TestSaveLeadDefaultsPriority(t *testing.T) {
	leads := newTestLeadService(t)

	result, err := leads.SaveLead(models.LeadRecord{
		Type: models.LeadTypeWholesale,
		Name: "Mark",
	})
	if err != nil {
		t.Fatalf("SaveLead failed: %v", err)
	}
	if result != "Lead for Mark successfully stored in database" {
		t.Errorf("Unexpected result message: %q", result)
	}

	stored, err := leads.ListLeads()
	if err != nil {
		t.Fatalf("ListLeads failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("Expected 1 lead, got %d", len(stored))
	}
	if stored[0].Priority != models.PriorityNormal {
		t.Errorf("Expected default priority, got %q", stored[0].Priority)
	}
}

func TestClearLeadsService(t *testing.T) {
	leads := newTestLeadService(t)

	for i := 0; i < 2; i++ {
		if _, err := leads.SaveLead(models.LeadRecord{Type: models.LeadTypeRetail, Name: "Alice"}); err != nil {
			t.Fatalf("SaveLead failed: %v", err)
		}
	}

	count, err := leads.ClearLeads()
	if err != nil {
		t.Fatalf("ClearLeads failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 cleared, got %d", count)
	}
}
