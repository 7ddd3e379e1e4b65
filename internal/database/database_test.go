package database

import (
	"path/filepath"
	"testing"

	"leadflow/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "leads.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	return db
}

func TestInsertAndListLeads(t *testing.T) {
	db := newTestDB(t)

	id, err := db.InsertLead(models.StoredLead{
		Timestamp: "2025-06-01 12:00:00",
		LeadType:  "wholesale",
		Name:      "Mark",
		Company:   "Wilson Digital Marketing",
		Email:     "mark@wilsondigital.com",
		Priority:  "normal",
	})
	if err != nil {
		t.Fatalf("InsertLead failed: %v", err)
	}
	if id != 1 {
		t.Errorf("Expected first id 1, got %d", id)
	}

	leads, err := db.ListLeads()
	if err != nil {
		t.Fatalf("ListLeads failed: %v", err)
	}
	if len(leads) != 1 {
		t.Fatalf("Expected 1 lead, got %d", len(leads))
	}
	if leads[0].Name != "Mark" || leads[0].Company != "Wilson Digital Marketing" {
		t.Errorf("Unexpected lead: %+v", leads[0])
	}
	if leads[0].Phone != "" || leads[0].Details != "" {
		t.Errorf("Expected empty optional columns, got %+v", leads[0])
	}
}

func TestListLeadsNewestFirst(t *testing.T) {
	db := newTestDB(t)

	timestamps := []string{"2025-06-01 10:00:00", "2025-06-01 12:00:00", "2025-06-01 11:00:00"}
	for i, ts := range timestamps {
		if _, err := db.InsertLead(models.StoredLead{
			Timestamp: ts,
			LeadType:  "retail",
			Name:      "Lead",
			Priority:  "normal",
		}); err != nil {
			t.Fatalf("InsertLead %d failed: %v", i, err)
		}
	}

	leads, err := db.ListLeads()
	if err != nil {
		t.Fatalf("ListLeads failed: %v", err)
	}
	if len(leads) != 3 {
		t.Fatalf("Expected 3 leads, got %d", len(leads))
	}
	if leads[0].Timestamp != "2025-06-01 12:00:00" || leads[2].Timestamp != "2025-06-01 10:00:00" {
		t.Errorf("Leads not ordered newest first: %s, %s, %s",
			leads[0].Timestamp, leads[1].Timestamp, leads[2].Timestamp)
	}
}

func TestClearLeads(t *testing.T) {
	db := newTestDB(t)

	for i := 0; i < 3; i++ {
		if _, err := db.InsertLead(models.StoredLead{
			Timestamp: "2025-06-01 12:00:00",
			LeadType:  "wholesale",
			Name:      "Lead",
			Priority:  "normal",
		}); err != nil {
			t.Fatalf("InsertLead failed: %v", err)
		}
	}

	count, err := db.ClearLeads()
	if err != nil {
		t.Fatalf("ClearLeads failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 deleted, got %d", count)
	}

	leads, err := db.ListLeads()
	if err != nil {
		t.Fatalf("ListLeads failed: %v", err)
	}
	if len(leads) != 0 {
		t.Errorf("Expected empty table after clear, got %d leads", len(leads))
	}
}
