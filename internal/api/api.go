// Package api exposes the growthdesk HTTP surface: auth, onboarding,
// content, lead pipeline, DM flows, brain memory and analytics.
package api

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/hazyhaar/growthdesk/internal/auth"
	"github.com/hazyhaar/growthdesk/internal/db"
)

// maxBodySize is the maximum HTTP body size for write endpoints.
const maxBodySize = 200 * 1024 // 200KB

// TriggerRateLimiter throttles the inbound engagement webhook (120 req/60s per IP).
var TriggerRateLimiter = NewRateLimiter(120, 60*time.Second)

type API struct {
	db   *db.DB
	auth *auth.Auth
}

func New(database *db.DB, a *auth.Auth) *API {
	return &API{db: database, auth: a}
}

func (a *API) RegisterRoutes(mux *http.ServeMux) {
	// Auth
	mux.HandleFunc("POST /api/register", a.handleRegister)
	mux.HandleFunc("POST /api/login", a.handleLogin)
	mux.HandleFunc("GET /api/me", a.handleGetMe)

	// Onboarding & business profile
	mux.HandleFunc("POST /api/onboarding/start", a.handleOnboardingStart)
	mux.HandleFunc("GET /api/onboarding/questions", a.handleOnboardingQuestions)
	mux.HandleFunc("POST /api/onboarding/session", a.handleCreateSession)
	mux.HandleFunc("GET /api/onboarding/session/{id}", a.handleGetSession)
	mux.HandleFunc("POST /api/onboarding/session/{id}/answer", a.handleAnswerSession)
	mux.HandleFunc("GET /api/business/{id}", a.handleGetBusiness)
	mux.HandleFunc("PUT /api/business/{id}", a.handleUpdateBusiness)
	mux.HandleFunc("GET /api/business/{id}/analysis", a.handleAnalysis)

	// Strategy
	mux.HandleFunc("POST /api/strategy", a.handleGenerateStrategy)
	mux.HandleFunc("GET /api/business/{id}/strategies", a.handleListStrategies)

	// Content & scheduling
	mux.HandleFunc("POST /api/content/generate", a.handleGenerateContent)
	mux.HandleFunc("POST /api/content/batch", a.handleBatchContent)
	mux.HandleFunc("PUT /api/content/{id}/status", a.handleUpdatePostStatus)
	mux.HandleFunc("POST /api/content/{id}/feedback", a.handlePostFeedback)
	mux.HandleFunc("GET /api/business/{id}/calendar", a.handleCalendar)
	mux.HandleFunc("POST /api/schedule", a.handleSchedulePost)
	mux.HandleFunc("POST /api/schedule/auto", a.handleAutoSchedule)

	// Lead pipeline & DM automation
	mux.HandleFunc("POST /api/dm/trigger", RateLimitMiddleware(TriggerRateLimiter, a.handleDMTrigger))
	mux.HandleFunc("POST /api/dm/send", a.handleDMSend)
	mux.HandleFunc("GET /api/business/{id}/pipeline", a.handlePipeline)
	mux.HandleFunc("PUT /api/lead/{id}/stage", a.handleSetLeadStage)
	mux.HandleFunc("POST /api/lead/{id}/note", a.handleCreateLeadNote)
	mux.HandleFunc("GET /api/lead/{id}/notes", a.handleListLeadNotes)
	mux.HandleFunc("POST /api/flows", a.handleCreateFlow)
	mux.HandleFunc("PUT /api/flows/{id}/activate", a.handleActivateFlow)
	mux.HandleFunc("GET /api/business/{id}/flows", a.handleListFlows)

	// Brain memory
	mux.HandleFunc("POST /api/brain/query", a.handleBrainQuery)
	mux.HandleFunc("GET /api/business/{id}/memories", a.handleListMemories)

	// Dashboard & analytics
	mux.HandleFunc("GET /api/business/{id}/dashboard", a.handleDashboard)
	mux.HandleFunc("GET /api/business/{id}/analytics", a.handleAnalytics)
	mux.HandleFunc("GET /api/business/{id}/insights", a.handleInsights)

	// Personas & resource assets
	mux.HandleFunc("POST /api/personas/generate", a.handleGeneratePersonas)
	mux.HandleFunc("GET /api/business/{id}/personas", a.handleListPersonas)
	mux.HandleFunc("POST /api/assets", a.handleCreateAsset)
	mux.HandleFunc("GET /api/business/{id}/assets", a.handleListAssets)
}

// --- Auth ---

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		jsonError(w, "name, email and password are required", http.StatusBadRequest)
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		jsonError(w, "invalid email address", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 8 {
		jsonError(w, "password must be at least 8 characters", http.StatusBadRequest)
		return
	}

	hash, err := a.auth.HashPassword(req.Password)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	user, err := a.db.CreateUser(db.CreateUserInput{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			jsonError(w, "email already registered", http.StatusConflict)
			return
		}
		slog.Error("creating user", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	token, err := a.auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	jsonResp(w, http.StatusCreated, map[string]interface{}{
		"user":       user,
		"token":      token,
		"expires_at": time.Now().Add(a.auth.Expiry()).UTC(),
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, passwordHash, err := a.db.GetUserByEmail(req.Email)
	if err != nil {
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if !a.auth.CheckPassword(passwordHash, req.Password) {
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := a.auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	jsonResp(w, http.StatusOK, map[string]interface{}{
		"user":       user,
		"token":      token,
		"expires_at": time.Now().Add(a.auth.Expiry()).UTC(),
	})
}

func (a *API) handleGetMe(w http.ResponseWriter, r *http.Request) {
	claims := a.auth.ExtractClaims(r)
	if claims == nil {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	user, err := a.db.GetUserByID(claims.UserID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	jsonResp(w, http.StatusOK, user)
}

// --- Helpers ---

// requireBusiness authenticates the request and loads the business, checking
// ownership. Writes the error response and returns nil on any failure.
func (a *API) requireBusiness(w http.ResponseWriter, r *http.Request, businessID string) *db.Business {
	claims := a.auth.ExtractClaims(r)
	if claims == nil {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return nil
	}
	if businessID == "" {
		jsonError(w, "business_id is required", http.StatusBadRequest)
		return nil
	}
	business, err := a.db.GetBusiness(businessID)
	if err != nil {
		if err == sql.ErrNoRows {
			jsonError(w, "business not found", http.StatusNotFound)
			return nil
		}
		slog.Error("loading business", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return nil
	}
	if business.OwnerID != claims.UserID {
		jsonError(w, "forbidden", http.StatusForbidden)
		return nil
	}
	return business
}

// requireLead loads a lead and checks the caller owns its business.
func (a *API) requireLead(w http.ResponseWriter, r *http.Request, leadID string) *db.Lead {
	claims := a.auth.ExtractClaims(r)
	if claims == nil {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return nil
	}
	lead, err := a.db.GetLead(leadID)
	if err != nil {
		if err == sql.ErrNoRows {
			jsonError(w, "lead not found", http.StatusNotFound)
			return nil
		}
		slog.Error("loading lead", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return nil
	}
	business, err := a.db.GetBusiness(lead.BusinessID)
	if err != nil {
		slog.Error("loading lead business", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return nil
	}
	if business.OwnerID != claims.UserID {
		jsonError(w, "forbidden", http.StatusForbidden)
		return nil
	}
	return lead
}

func jsonResp(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
