package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hazyhaar/growthdesk/internal/content"
	"github.com/hazyhaar/growthdesk/internal/db"
)

func (a *API) handleOnboardingStart(w http.ResponseWriter, r *http.Request) {
	claims := a.auth.ExtractClaims(r)
	if claims == nil {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req db.BusinessProfile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		jsonError(w, "name is required", http.StatusBadRequest)
		return
	}

	business, err := a.db.CreateBusiness(claims.UserID, req)
	if err != nil {
		slog.Error("creating business", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := a.db.Memorize(business.ID, "onboarding", fmt.Sprintf("Brand tone: %s", content.Tone(business))); err != nil {
		slog.Error("memorizing onboarding", "error", err)
	}

	jsonResp(w, http.StatusCreated, business)
}

func (a *API) handleOnboardingQuestions(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, map[string]interface{}{
		"questions": content.OnboardingQuestions,
		"count":     len(content.OnboardingQuestions),
	})
}

func (a *API) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BusinessID string `json:"business_id"`
		TotalSteps int    `json:"total_steps"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	business := a.requireBusiness(w, r, req.BusinessID)
	if business == nil {
		return
	}
	if req.TotalSteps <= 0 {
		req.TotalSteps = len(content.OnboardingQuestions)
	}

	session, err := a.db.CreateSession(business.ID, req.TotalSteps)
	if err != nil {
		slog.Error("creating onboarding session", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	jsonResp(w, http.StatusCreated, session)
}

func (a *API) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := a.db.GetSession(r.PathValue("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			jsonError(w, "session not found", http.StatusNotFound)
			return
		}
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if a.requireBusiness(w, r, session.BusinessID) == nil {
		return
	}
	jsonResp(w, http.StatusOK, session)
}

func (a *API) handleAnswerSession(w http.ResponseWriter, r *http.Request) {
	session, err := a.db.GetSession(r.PathValue("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			jsonError(w, "session not found", http.StatusNotFound)
			return
		}
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	business := a.requireBusiness(w, r, session.BusinessID)
	if business == nil {
		return
	}

	var req struct {
		StepKey   string `json:"step_key"`
		Answer    string `json:"answer"`
		StepIndex int    `json:"step_index"`
		IsFinal   bool   `json:"is_final"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.StepKey == "" {
		jsonError(w, "step_key is required", http.StatusBadRequest)
		return
	}
	if session.Completed {
		jsonError(w, "session already completed", http.StatusBadRequest)
		return
	}

	session.Responses[req.StepKey] = req.Answer
	session.QuestionsAnswered++
	session.CurrentStep = req.StepIndex + 1
	if req.IsFinal || session.QuestionsAnswered >= session.TotalSteps {
		session.Completed = true
	}

	// Profile keys flow straight onto the business record.
	if err := a.db.SetBusinessField(business.ID, req.StepKey, req.Answer); err != nil {
		slog.Error("applying onboarding answer", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := a.db.SaveSession(session); err != nil {
		slog.Error("saving onboarding session", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	if session.Completed {
		summary := fmt.Sprintf("Onboarding complete: %d answers recorded", session.QuestionsAnswered)
		if err := a.db.Memorize(business.ID, "onboarding", summary); err != nil {
			slog.Error("memorizing onboarding completion", "error", err)
		}
	}

	jsonResp(w, http.StatusOK, session)
}

func (a *API) handleGetBusiness(w http.ResponseWriter, r *http.Request) {
	business := a.requireBusiness(w, r, r.PathValue("id"))
	if business == nil {
		return
	}
	jsonResp(w, http.StatusOK, business)
}

func (a *API) handleUpdateBusiness(w http.ResponseWriter, r *http.Request) {
	business := a.requireBusiness(w, r, r.PathValue("id"))
	if business == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req db.BusinessProfile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		req.Name = business.Name
	}

	updated, err := a.db.UpdateBusiness(business.ID, req)
	if err != nil {
		slog.Error("updating business", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := a.db.Memorize(updated.ID, "profile", fmt.Sprintf("Updated objectives: %s", updated.Objective)); err != nil {
		slog.Error("memorizing profile update", "error", err)
	}

	jsonResp(w, http.StatusOK, updated)
}

func (a *API) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	business := a.requireBusiness(w, r, r.PathValue("id"))
	if business == nil {
		return
	}
	jsonResp(w, http.StatusOK, content.Analyze(business))
}
