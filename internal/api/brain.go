package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hazyhaar/growthdesk/internal/content"
)

// brainContextSize is how many recent memories feed a brain answer.
const brainContextSize = 3

func (a *API) handleBrainQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BusinessID string `json:"business_id"`
		Query      string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	business := a.requireBusiness(w, r, req.BusinessID)
	if business == nil {
		return
	}
	if req.Query == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}

	memories, err := a.db.RecentMemories(business.ID, brainContextSize)
	if err != nil {
		slog.Error("loading brain memories", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	context := "calm tone"
	references := []string{}
	if len(memories) > 0 {
		parts := make([]string, 0, len(memories))
		for _, m := range memories {
			parts = append(parts, m.Content)
			references = append(references, m.Label)
		}
		context = strings.Join(parts, ", ")
	}

	jsonResp(w, http.StatusOK, map[string]interface{}{
		"answer":     content.BrainAnswer(req.Query, business, context),
		"references": references,
	})
}

func (a *API) handleListMemories(w http.ResponseWriter, r *http.Request) {
	business := a.requireBusiness(w, r, r.PathValue("id"))
	if business == nil {
		return
	}
	memories, err := a.db.RecentMemories(business.ID, 100)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, map[string]interface{}{
		"memories": memories,
		"count":    len(memories),
	})
}
