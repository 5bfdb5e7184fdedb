package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type DMFlow struct {
	ID           string    `json:"id"`
	BusinessID   string    `json:"business_id"`
	Name         string    `json:"name"`
	Trigger      string    `json:"trigger"`
	Script       []string  `json:"script"`
	Status       string    `json:"status"`
	SuccessCount int       `json:"success_count"`
	CreatedAt    time.Time `json:"created_at"`
}

const flowColumns = `id, business_id, name, "trigger", script, status, success_count, created_at`

func scanFlow(s interface{ Scan(...any) error }) (*DMFlow, error) {
	f := &DMFlow{}
	var script string
	err := s.Scan(&f.ID, &f.BusinessID, &f.Name, &f.Trigger, &script, &f.Status, &f.SuccessCount, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(script), &f.Script); err != nil {
		return nil, fmt.Errorf("decoding flow script: %w", err)
	}
	if f.Script == nil {
		f.Script = []string{}
	}
	return f, nil
}

func (db *DB) CreateFlow(businessID, name, trigger string, script []string, status string) (*DMFlow, error) {
	id := NewID()
	scriptJSON, err := json.Marshal(script)
	if err != nil {
		return nil, fmt.Errorf("encoding flow script: %w", err)
	}
	_, err = db.Exec(`
		INSERT INTO dm_flows (id, business_id, name, "trigger", script, status)
		VALUES (?, ?, ?, ?, ?, ?)`, id, businessID, name, trigger, string(scriptJSON), status)
	if err != nil {
		return nil, fmt.Errorf("creating dm flow: %w", err)
	}
	return db.GetFlow(id)
}

func (db *DB) GetFlow(id string) (*DMFlow, error) {
	row := db.QueryRow(`SELECT `+flowColumns+` FROM dm_flows WHERE id = ?`, id)
	return scanFlow(row)
}

func (db *DB) ListFlows(businessID string) ([]*DMFlow, error) {
	rows, err := db.Query(`SELECT `+flowColumns+` FROM dm_flows WHERE business_id = ? ORDER BY rowid`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flows := []*DMFlow{}
	for rows.Next() {
		f, err := scanFlow(rows)
		if err != nil {
			return nil, err
		}
		flows = append(flows, f)
	}
	return flows, rows.Err()
}

func (db *DB) ActivateFlow(id string) (*DMFlow, error) {
	res, err := db.Exec(`UPDATE dm_flows SET status = 'active' WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("activating dm flow: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sql.ErrNoRows
	}
	return db.GetFlow(id)
}

// FindActiveFlow returns the first active flow matching the event type (or a
// wildcard "any" trigger), in insertion order. Insertion order is the
// documented tie-break: the upstream contract leaves the choice open, so the
// oldest flow wins deterministically. Returns nil, nil when nothing matches.
func (db *DB) FindActiveFlow(businessID, eventType string) (*DMFlow, error) {
	row := db.QueryRow(`
		SELECT `+flowColumns+` FROM dm_flows
		WHERE business_id = ? AND status = 'active' AND ("trigger" = ? OR "trigger" = 'any')
		ORDER BY rowid LIMIT 1`, businessID, eventType)
	f, err := scanFlow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// IncrementFlowSuccess bumps the success counter after a flow fires.
func (db *DB) IncrementFlowSuccess(id string) error {
	_, err := db.Exec(`UPDATE dm_flows SET success_count = success_count + 1 WHERE id = ?`, id)
	return err
}
