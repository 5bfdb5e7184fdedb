package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hazyhaar/growthdesk/internal/content"
	"github.com/hazyhaar/growthdesk/internal/db"
)

func (a *API) handleGenerateStrategy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BusinessID string `json:"business_id"`
		Budget     int    `json:"budget"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	business := a.requireBusiness(w, r, req.BusinessID)
	if business == nil {
		return
	}
	if req.Budget < 0 {
		jsonError(w, "budget must be non-negative", http.StatusBadRequest)
		return
	}

	plan := content.BuildPlan(req.Budget)
	strategy, err := a.db.CreateStrategy(business.ID, plan.ContentPlan, plan.Platforms, plan.Cadence, req.Budget)
	if err != nil {
		slog.Error("creating strategy", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	memo := fmt.Sprintf("Budget %d cadence %s", req.Budget, strategy.PostingFrequency)
	if err := a.db.Memorize(business.ID, "strategy", memo); err != nil {
		slog.Error("memorizing strategy", "error", err)
	}

	jsonResp(w, http.StatusCreated, strategy)
}

func (a *API) handleListStrategies(w http.ResponseWriter, r *http.Request) {
	business := a.requireBusiness(w, r, r.PathValue("id"))
	if business == nil {
		return
	}
	strategies, err := a.db.ListStrategies(business.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, map[string]interface{}{
		"strategies": strategies,
		"count":      len(strategies),
	})
}

func (a *API) handleGenerateContent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req struct {
		BusinessID  string `json:"business_id"`
		Platform    string `json:"platform"`
		ContentType string `json:"content_type"`
		Topic       string `json:"topic"`
		Persona     string `json:"persona"`
		Pillar      string `json:"pillar"`
		FunnelStage string `json:"funnel_stage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	business := a.requireBusiness(w, r, req.BusinessID)
	if business == nil {
		return
	}
	if req.Platform == "" || req.Topic == "" {
		jsonError(w, "platform and topic are required", http.StatusBadRequest)
		return
	}

	in := content.CaptionInput{Topic: req.Topic, ContentType: req.ContentType, Persona: req.Persona}
	post, err := a.db.CreatePost(db.CreatePostInput{
		BusinessID:  business.ID,
		Platform:    req.Platform,
		Body:        content.CraftCaption(business, in),
		MediaPrompt: content.MediaPrompt(business, in),
		Persona:     req.Persona,
		Pillar:      req.Pillar,
		FunnelStage: req.FunnelStage,
	})
	if err != nil {
		slog.Error("creating content post", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	jsonResp(w, http.StatusCreated, post)
}

func (a *API) handleBatchContent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req struct {
		BusinessID  string   `json:"business_id"`
		Platforms   []string `json:"platforms"`
		Topics      []string `json:"topics"`
		Persona     string   `json:"persona"`
		Pillar      string   `json:"pillar"`
		FunnelStage string   `json:"funnel_stage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	business := a.requireBusiness(w, r, req.BusinessID)
	if business == nil {
		return
	}
	if len(req.Platforms) == 0 || len(req.Topics) == 0 {
		jsonError(w, "platforms and topics are required", http.StatusBadRequest)
		return
	}

	posts := make([]*db.ContentPost, 0, len(req.Platforms)*len(req.Topics))
	for _, platform := range req.Platforms {
		for _, topic := range req.Topics {
			in := content.CaptionInput{Topic: topic, ContentType: "post", Persona: req.Persona}
			post, err := a.db.CreatePost(db.CreatePostInput{
				BusinessID:  business.ID,
				Platform:    platform,
				Body:        content.CraftCaption(business, in),
				MediaPrompt: content.MediaPrompt(business, in),
				Persona:     req.Persona,
				Pillar:      req.Pillar,
				FunnelStage: req.FunnelStage,
			})
			if err != nil {
				slog.Error("creating batch post", "error", err)
				jsonError(w, "internal error", http.StatusInternalServerError)
				return
			}
			posts = append(posts, post)
		}
	}

	jsonResp(w, http.StatusCreated, map[string]interface{}{
		"posts": posts,
		"count": len(posts),
	})
}

var validPostStatus = map[string]bool{
	"draft": true, "approved": true, "rejected": true, "scheduled": true, "posted": true,
}

func (a *API) handleUpdatePostStatus(w http.ResponseWriter, r *http.Request) {
	post := a.requirePost(w, r, r.PathValue("id"))
	if post == nil {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !validPostStatus[req.Status] {
		jsonError(w, "invalid status", http.StatusBadRequest)
		return
	}

	updated, err := a.db.UpdatePostStatus(post.ID, req.Status)
	if err != nil {
		slog.Error("updating post status", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, updated)
}

func (a *API) handlePostFeedback(w http.ResponseWriter, r *http.Request) {
	post := a.requirePost(w, r, r.PathValue("id"))
	if post == nil {
		return
	}

	var req struct {
		Decision string `json:"decision"`
		Reason   string `json:"reason"`
		Notes    string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Review decisions: accept promotes and rewards, modify sends the post
	// back to draft with the reviewer's reason, reject penalizes.
	var status string
	performance := post.PerformanceScore
	switch req.Decision {
	case "accept":
		status = "approved"
		performance = clampPerformance(performance + 10)
	case "modify":
		status = "draft"
	case "reject":
		status = "rejected"
		performance = clampPerformance(performance - 5)
	default:
		jsonError(w, "decision must be accept, modify or reject", http.StatusBadRequest)
		return
	}

	updated, err := a.db.ApplyPostFeedback(post.ID, status, req.Reason, req.Notes, performance)
	if err != nil {
		slog.Error("applying post feedback", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, updated)
}

func clampPerformance(score int) int {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

func (a *API) handleCalendar(w http.ResponseWriter, r *http.Request) {
	business := a.requireBusiness(w, r, r.PathValue("id"))
	if business == nil {
		return
	}
	posts, err := a.db.ListPosts(business.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, map[string]interface{}{
		"posts": posts,
		"count": len(posts),
	})
}

func (a *API) handleSchedulePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PostID      string    `json:"post_id"`
		ScheduledAt time.Time `json:"scheduled_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ScheduledAt.IsZero() {
		jsonError(w, "scheduled_at is required", http.StatusBadRequest)
		return
	}
	post := a.requirePost(w, r, req.PostID)
	if post == nil {
		return
	}

	updated, err := a.db.SchedulePost(post.ID, req.ScheduledAt)
	if err != nil {
		slog.Error("scheduling post", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, updated)
}

func (a *API) handleAutoSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BusinessID      string     `json:"business_id"`
		StartDate       *time.Time `json:"start_date"`
		IntervalMinutes int        `json:"interval_minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	business := a.requireBusiness(w, r, req.BusinessID)
	if business == nil {
		return
	}
	if req.IntervalMinutes <= 0 {
		req.IntervalMinutes = 180
	}
	start := time.Now().UTC().Truncate(time.Hour).Add(time.Hour)
	if req.StartDate != nil {
		start = req.StartDate.UTC()
	}

	posts, err := a.db.ListUnscheduledPosts(business.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	scheduled := make([]*db.ContentPost, 0, len(posts))
	for i, post := range posts {
		at := start.Add(time.Duration(i*req.IntervalMinutes) * time.Minute)
		updated, err := a.db.SchedulePost(post.ID, at)
		if err != nil {
			slog.Error("auto-scheduling post", "error", err, "post_id", post.ID)
			jsonError(w, "internal error", http.StatusInternalServerError)
			return
		}
		scheduled = append(scheduled, updated)
	}

	jsonResp(w, http.StatusOK, map[string]interface{}{
		"posts": scheduled,
		"count": len(scheduled),
	})
}

// requirePost loads a post and checks the caller owns its business.
func (a *API) requirePost(w http.ResponseWriter, r *http.Request, postID string) *db.ContentPost {
	claims := a.auth.ExtractClaims(r)
	if claims == nil {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return nil
	}
	if postID == "" {
		jsonError(w, "post id is required", http.StatusBadRequest)
		return nil
	}
	post, err := a.db.GetPost(postID)
	if err != nil {
		if err == sql.ErrNoRows {
			jsonError(w, "post not found", http.StatusNotFound)
			return nil
		}
		slog.Error("loading post", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return nil
	}
	business, err := a.db.GetBusiness(post.BusinessID)
	if err != nil {
		slog.Error("loading post business", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return nil
	}
	if business.OwnerID != claims.UserID {
		jsonError(w, "forbidden", http.StatusForbidden)
		return nil
	}
	return post
}
