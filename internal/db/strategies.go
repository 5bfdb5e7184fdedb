package db

import (
	"encoding/json"
	"fmt"
	"time"
)

type Strategy struct {
	ID               string             `json:"id"`
	BusinessID       string             `json:"business_id"`
	ContentPlan      map[string]float64 `json:"content_plan"`
	Platforms        map[string]int     `json:"platforms"`
	PostingFrequency string             `json:"posting_frequency"`
	Budget           int                `json:"budget"`
	CreatedAt        time.Time          `json:"created_at"`
}

func (db *DB) CreateStrategy(businessID string, plan map[string]float64, platforms map[string]int, cadence string, budget int) (*Strategy, error) {
	id := NewID()
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("encoding content plan: %w", err)
	}
	platformsJSON, err := json.Marshal(platforms)
	if err != nil {
		return nil, fmt.Errorf("encoding platforms: %w", err)
	}
	_, err = db.Exec(`
		INSERT INTO strategies (id, business_id, content_plan, platforms, posting_frequency, budget)
		VALUES (?, ?, ?, ?, ?, ?)`, id, businessID, string(planJSON), string(platformsJSON), cadence, budget)
	if err != nil {
		return nil, fmt.Errorf("creating strategy: %w", err)
	}
	return db.GetStrategy(id)
}

func (db *DB) GetStrategy(id string) (*Strategy, error) {
	row := db.QueryRow(`
		SELECT id, business_id, content_plan, platforms, posting_frequency, budget, created_at
		FROM strategies WHERE id = ?`, id)
	return scanStrategy(row)
}

func scanStrategy(s interface{ Scan(...any) error }) (*Strategy, error) {
	st := &Strategy{}
	var plan, platforms string
	err := s.Scan(&st.ID, &st.BusinessID, &plan, &platforms, &st.PostingFrequency, &st.Budget, &st.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(plan), &st.ContentPlan); err != nil {
		return nil, fmt.Errorf("decoding content plan: %w", err)
	}
	if err := json.Unmarshal([]byte(platforms), &st.Platforms); err != nil {
		return nil, fmt.Errorf("decoding platforms: %w", err)
	}
	return st, nil
}

func (db *DB) ListStrategies(businessID string) ([]*Strategy, error) {
	rows, err := db.Query(`
		SELECT id, business_id, content_plan, platforms, posting_frequency, budget, created_at
		FROM strategies WHERE business_id = ? ORDER BY rowid DESC`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	strategies := []*Strategy{}
	for rows.Next() {
		st, err := scanStrategy(rows)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, st)
	}
	return strategies, rows.Err()
}
