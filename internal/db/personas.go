package db

import (
	"database/sql"
	"fmt"
	"time"
)

type Persona struct {
	ID                string    `json:"id"`
	BusinessID        string    `json:"business_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Motivations       string    `json:"motivations,omitempty"`
	PainPoints        string    `json:"pain_points,omitempty"`
	PreferredChannels string    `json:"preferred_channels,omitempty"`
	FunnelStage       string    `json:"funnel_stage,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type CreatePersonaInput struct {
	BusinessID        string
	Name              string
	Description       string
	Motivations       string
	PainPoints        string
	PreferredChannels string
	FunnelStage       string
}

func (db *DB) CreatePersona(input CreatePersonaInput) (*Persona, error) {
	id := NewID()
	_, err := db.Exec(`
		INSERT INTO personas (id, business_id, name, description, motivations, pain_points, preferred_channels, funnel_stage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, input.BusinessID, input.Name, input.Description, input.Motivations,
		input.PainPoints, input.PreferredChannels, input.FunnelStage)
	if err != nil {
		return nil, fmt.Errorf("creating persona: %w", err)
	}
	row := db.QueryRow(`
		SELECT id, business_id, name, description, motivations, pain_points, preferred_channels, funnel_stage, created_at
		FROM personas WHERE id = ?`, id)
	return scanPersona(row)
}

func scanPersona(s interface{ Scan(...any) error }) (*Persona, error) {
	p := &Persona{}
	var motivations, painPoints, channels, funnelStage sql.NullString
	err := s.Scan(&p.ID, &p.BusinessID, &p.Name, &p.Description,
		&motivations, &painPoints, &channels, &funnelStage, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Motivations = motivations.String
	p.PainPoints = painPoints.String
	p.PreferredChannels = channels.String
	p.FunnelStage = funnelStage.String
	return p, nil
}

// ListPersonas returns personas in insertion order; the first one doubles as
// the insights persona focus.
func (db *DB) ListPersonas(businessID string) ([]*Persona, error) {
	rows, err := db.Query(`
		SELECT id, business_id, name, description, motivations, pain_points, preferred_channels, funnel_stage, created_at
		FROM personas WHERE business_id = ? ORDER BY rowid`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	personas := []*Persona{}
	for rows.Next() {
		p, err := scanPersona(rows)
		if err != nil {
			return nil, err
		}
		personas = append(personas, p)
	}
	return personas, rows.Err()
}
