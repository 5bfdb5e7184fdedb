package db

import (
	"encoding/json"
	"fmt"
	"time"
)

type OnboardingSession struct {
	ID                string            `json:"id"`
	BusinessID        string            `json:"business_id"`
	CurrentStep       int               `json:"current_step"`
	TotalSteps        int               `json:"total_steps"`
	Responses         map[string]string `json:"responses"`
	Completed         bool              `json:"completed"`
	QuestionsAnswered int               `json:"questions_answered"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func (db *DB) CreateSession(businessID string, totalSteps int) (*OnboardingSession, error) {
	id := NewID()
	_, err := db.Exec(`
		INSERT INTO onboarding_sessions (id, business_id, total_steps)
		VALUES (?, ?, ?)`, id, businessID, totalSteps)
	if err != nil {
		return nil, fmt.Errorf("creating onboarding session: %w", err)
	}
	return db.GetSession(id)
}

func (db *DB) GetSession(id string) (*OnboardingSession, error) {
	s := &OnboardingSession{}
	var responses string
	err := db.QueryRow(`
		SELECT id, business_id, current_step, total_steps, responses, completed, questions_answered, created_at, updated_at
		FROM onboarding_sessions WHERE id = ?`, id).Scan(
		&s.ID, &s.BusinessID, &s.CurrentStep, &s.TotalSteps, &responses,
		&s.Completed, &s.QuestionsAnswered, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(responses), &s.Responses); err != nil {
		return nil, fmt.Errorf("decoding session responses: %w", err)
	}
	if s.Responses == nil {
		s.Responses = map[string]string{}
	}
	return s, nil
}

// SaveSession persists step progress and accumulated responses.
func (db *DB) SaveSession(s *OnboardingSession) error {
	responses, err := json.Marshal(s.Responses)
	if err != nil {
		return fmt.Errorf("encoding session responses: %w", err)
	}
	_, err = db.Exec(`
		UPDATE onboarding_sessions
		SET current_step = ?, responses = ?, completed = ?, questions_answered = ?, updated_at = datetime('now')
		WHERE id = ?`, s.CurrentStep, string(responses), s.Completed, s.QuestionsAnswered, s.ID)
	return err
}
