package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"leadflow/internal/models"

	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection
type DB struct {
	*sql.DB
}

// New opens the SQLite leads database at the given path.
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite handles one writer at a time; keep the pool small and
	// long-lived instead of churning connections.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("✅ SQLite database connected: %s", path)

	return &DB{db}, nil
}

// Initialize creates the leads table if it does not exist yet.
func (db *DB) Initialize() error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS leads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		lead_type TEXT NOT NULL,
		name TEXT NOT NULL,
		company TEXT,
		email TEXT,
		phone TEXT,
		details TEXT,
		priority TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create leads table: %w", err)
	}

	log.Println("✅ Database initialized successfully")
	return nil
}

// InsertLead appends a lead row and returns its id.
func (db *DB) InsertLead(lead models.StoredLead) (int64, error) {
	result, err := db.Exec(`
	INSERT INTO leads (timestamp, lead_type, name, company, email, phone, details, priority)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.Timestamp, lead.LeadType, lead.Name, lead.Company,
		lead.Email, lead.Phone, lead.Details, lead.Priority)
	if err != nil {
		return 0, fmt.Errorf("failed to insert lead: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted lead id: %w", err)
	}
	return id, nil
}

// ListLeads returns all stored leads, newest first.
func (db *DB) ListLeads() ([]models.StoredLead, error) {
	rows, err := db.Query(`
	SELECT id, timestamp, lead_type, name,
	       COALESCE(company, ''), COALESCE(email, ''),
	       COALESCE(phone, ''), COALESCE(details, ''), priority
	FROM leads ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var leads []models.StoredLead
	for rows.Next() {
		var lead models.StoredLead
		if err := rows.Scan(&lead.ID, &lead.Timestamp, &lead.LeadType, &lead.Name,
			&lead.Company, &lead.Email, &lead.Phone, &lead.Details, &lead.Priority); err != nil {
			return nil, fmt.Errorf("failed to scan lead row: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lead rows: %w", err)
	}
	return leads, nil
}

// ClearLeads deletes every stored lead and returns the removed count.
func (db *DB) ClearLeads() (int64, error) {
	result, err := db.Exec("DELETE FROM leads")
	if err != nil {
		return 0, fmt.Errorf("failed to clear leads: %w", err)
	}
	count, _ := result.RowsAffected()
	return count, nil
}
