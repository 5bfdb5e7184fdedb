package db

import (
	"fmt"
	"time"
)

// BrainMemory is an append-only labeled note used as crude context for
// brain queries. Rows are never mutated or deleted.
type BrainMemory struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	Label      string    `json:"label"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

func (db *DB) Memorize(businessID, label, content string) error {
	_, err := db.Exec(`
		INSERT INTO brain_memory (id, business_id, label, content)
		VALUES (?, ?, ?, ?)`, NewID(), businessID, label, content)
	if err != nil {
		return fmt.Errorf("writing brain memory: %w", err)
	}
	return nil
}

// RecentMemories returns up to limit memories, newest first.
func (db *DB) RecentMemories(businessID string, limit int) ([]*BrainMemory, error) {
	rows, err := db.Query(`
		SELECT id, business_id, label, content, created_at
		FROM brain_memory WHERE business_id = ?
		ORDER BY rowid DESC LIMIT ?`, businessID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memories := []*BrainMemory{}
	for rows.Next() {
		m := &BrainMemory{}
		if err := rows.Scan(&m.ID, &m.BusinessID, &m.Label, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		memories = append(memories, m)
	}
	return memories, rows.Err()
}
