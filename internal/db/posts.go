package db

import (
	"database/sql"
	"fmt"
	"time"
)

type ContentPost struct {
	ID               string     `json:"id"`
	BusinessID       string     `json:"business_id"`
	Platform         string     `json:"platform"`
	Body             string     `json:"body"`
	MediaPrompt      string     `json:"media_prompt,omitempty"`
	Status           string     `json:"status"`
	ScheduledAt      *time.Time `json:"scheduled_at,omitempty"`
	Persona          string     `json:"persona,omitempty"`
	Pillar           string     `json:"pillar,omitempty"`
	FunnelStage      string     `json:"funnel_stage,omitempty"`
	FeedbackReason   string     `json:"feedback_reason,omitempty"`
	FeedbackNotes    string     `json:"feedback_notes,omitempty"`
	PerformanceScore int        `json:"performance_score"`
	CreatedAt        time.Time  `json:"created_at"`
}

type CreatePostInput struct {
	BusinessID  string
	Platform    string
	Body        string
	MediaPrompt string
	Persona     string
	Pillar      string
	FunnelStage string
}

const postColumns = `id, business_id, platform, body, media_prompt, status, scheduled_at,
	persona, pillar, funnel_stage, feedback_reason, feedback_notes, performance_score, created_at`

func scanPost(s interface{ Scan(...any) error }) (*ContentPost, error) {
	p := &ContentPost{}
	var mediaPrompt, persona, pillar, funnelStage, reason, notes sql.NullString
	var scheduledAt sql.NullTime
	err := s.Scan(&p.ID, &p.BusinessID, &p.Platform, &p.Body, &mediaPrompt, &p.Status, &scheduledAt,
		&persona, &pillar, &funnelStage, &reason, &notes, &p.PerformanceScore, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.MediaPrompt = mediaPrompt.String
	p.Persona = persona.String
	p.Pillar = pillar.String
	p.FunnelStage = funnelStage.String
	p.FeedbackReason = reason.String
	p.FeedbackNotes = notes.String
	if scheduledAt.Valid {
		p.ScheduledAt = &scheduledAt.Time
	}
	return p, nil
}

func (db *DB) CreatePost(input CreatePostInput) (*ContentPost, error) {
	id := NewID()
	_, err := db.Exec(`
		INSERT INTO content_posts (id, business_id, platform, body, media_prompt, persona, pillar, funnel_stage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, input.BusinessID, input.Platform, input.Body, input.MediaPrompt,
		input.Persona, input.Pillar, input.FunnelStage)
	if err != nil {
		return nil, fmt.Errorf("creating content post: %w", err)
	}
	return db.GetPost(id)
}

func (db *DB) GetPost(id string) (*ContentPost, error) {
	row := db.QueryRow(`SELECT `+postColumns+` FROM content_posts WHERE id = ?`, id)
	return scanPost(row)
}

// ListPosts returns all posts for a business in insertion order.
func (db *DB) ListPosts(businessID string) ([]*ContentPost, error) {
	rows, err := db.Query(`SELECT `+postColumns+` FROM content_posts WHERE business_id = ? ORDER BY rowid`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*ContentPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListUnscheduledPosts returns draft and approved posts without a schedule
// slot, in insertion order. Used by the auto-scheduler.
func (db *DB) ListUnscheduledPosts(businessID string) ([]*ContentPost, error) {
	rows, err := db.Query(`
		SELECT `+postColumns+` FROM content_posts
		WHERE business_id = ? AND status IN ('draft','approved') AND scheduled_at IS NULL
		ORDER BY rowid`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*ContentPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (db *DB) UpdatePostStatus(id, status string) (*ContentPost, error) {
	res, err := db.Exec(`UPDATE content_posts SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return nil, fmt.Errorf("updating post status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sql.ErrNoRows
	}
	return db.GetPost(id)
}

func (db *DB) SchedulePost(id string, at time.Time) (*ContentPost, error) {
	res, err := db.Exec(`
		UPDATE content_posts SET scheduled_at = ?, status = 'scheduled' WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("scheduling post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sql.ErrNoRows
	}
	return db.GetPost(id)
}

// ApplyPostFeedback stores a review decision: the new status, optional
// reason/notes, and the adjusted performance score.
func (db *DB) ApplyPostFeedback(id, status, reason, notes string, performance int) (*ContentPost, error) {
	res, err := db.Exec(`
		UPDATE content_posts
		SET status = ?, feedback_reason = ?, feedback_notes = ?, performance_score = ?
		WHERE id = ?`, status, reason, notes, performance, id)
	if err != nil {
		return nil, fmt.Errorf("applying post feedback: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sql.ErrNoRows
	}
	return db.GetPost(id)
}
