package db

import (
	"encoding/json"
	"fmt"
	"time"
)

type Lead struct {
	ID            string    `json:"id"`
	BusinessID    string    `json:"business_id"`
	Name          string    `json:"name"`
	Source        string    `json:"source"`
	PipelineStage string    `json:"pipeline_stage"`
	LeadScore     int       `json:"lead_score"`
	Conversation  []Turn    `json:"conversation_history"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Turn is a single entry in a lead's conversation history.
type Turn struct {
	Author    string `json:"author"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

const leadColumns = `id, business_id, name, source, pipeline_stage, lead_score, conversation_history, created_at, updated_at`

func scanLead(s interface{ Scan(...any) error }) (*Lead, error) {
	l := &Lead{}
	var history string
	err := s.Scan(&l.ID, &l.BusinessID, &l.Name, &l.Source, &l.PipelineStage,
		&l.LeadScore, &history, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(history), &l.Conversation); err != nil {
		return nil, fmt.Errorf("decoding conversation history: %w", err)
	}
	if l.Conversation == nil {
		l.Conversation = []Turn{}
	}
	return l, nil
}

func (db *DB) CreateLead(businessID, name, source string, firstTurn Turn) (*Lead, error) {
	id := NewID()
	history, err := json.Marshal([]Turn{firstTurn})
	if err != nil {
		return nil, fmt.Errorf("encoding conversation history: %w", err)
	}
	_, err = db.Exec(`
		INSERT INTO leads (id, business_id, name, source, conversation_history)
		VALUES (?, ?, ?, ?, ?)`, id, businessID, name, source, string(history))
	if err != nil {
		return nil, fmt.Errorf("creating lead: %w", err)
	}
	return db.GetLead(id)
}

func (db *DB) GetLead(id string) (*Lead, error) {
	row := db.QueryRow(`SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
	return scanLead(row)
}

// GetLeadByHandle resolves a lead by its dedup identity (business_id, name).
func (db *DB) GetLeadByHandle(businessID, name string) (*Lead, error) {
	row := db.QueryRow(`SELECT `+leadColumns+` FROM leads WHERE business_id = ? AND name = ?`, businessID, name)
	return scanLead(row)
}

// ListLeads returns all leads for a business in insertion order.
func (db *DB) ListLeads(businessID string) ([]*Lead, error) {
	rows, err := db.Query(`SELECT `+leadColumns+` FROM leads WHERE business_id = ? ORDER BY rowid`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// SaveLead persists score, stage and conversation history after a mutation.
func (db *DB) SaveLead(l *Lead) error {
	history, err := json.Marshal(l.Conversation)
	if err != nil {
		return fmt.Errorf("encoding conversation history: %w", err)
	}
	_, err = db.Exec(`
		UPDATE leads
		SET pipeline_stage = ?, lead_score = ?, conversation_history = ?, updated_at = datetime('now')
		WHERE id = ?`, l.PipelineStage, l.LeadScore, string(history), l.ID)
	return err
}

type LeadNote struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

func (db *DB) CreateLeadNote(leadID, note string) (*LeadNote, error) {
	id := NewID()
	_, err := db.Exec(`INSERT INTO lead_notes (id, lead_id, note) VALUES (?, ?, ?)`, id, leadID, note)
	if err != nil {
		return nil, fmt.Errorf("creating lead note: %w", err)
	}
	n := &LeadNote{}
	err = db.QueryRow(`SELECT id, lead_id, note, created_at FROM lead_notes WHERE id = ?`, id).Scan(
		&n.ID, &n.LeadID, &n.Note, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (db *DB) ListLeadNotes(leadID string) ([]*LeadNote, error) {
	rows, err := db.Query(`SELECT id, lead_id, note, created_at FROM lead_notes WHERE lead_id = ? ORDER BY rowid`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []*LeadNote{}
	for rows.Next() {
		n := &LeadNote{}
		if err := rows.Scan(&n.ID, &n.LeadID, &n.Note, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
