package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hazyhaar/growthdesk/internal/content"
	"github.com/hazyhaar/growthdesk/internal/db"
)

func (a *API) handleGeneratePersonas(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BusinessID string `json:"business_id"`
		Count      int    `json:"count"`
		Focus      string `json:"focus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	business := a.requireBusiness(w, r, req.BusinessID)
	if business == nil {
		return
	}

	personas := []*db.Persona{}
	for _, input := range content.GeneratePersonas(business, req.Count, req.Focus) {
		p, err := a.db.CreatePersona(input)
		if err != nil {
			slog.Error("creating persona", "error", err)
			jsonError(w, "internal error", http.StatusInternalServerError)
			return
		}
		personas = append(personas, p)
	}

	jsonResp(w, http.StatusCreated, map[string]interface{}{
		"personas": personas,
		"count":    len(personas),
	})
}

func (a *API) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	business := a.requireBusiness(w, r, r.PathValue("id"))
	if business == nil {
		return
	}
	personas, err := a.db.ListPersonas(business.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, map[string]interface{}{
		"personas": personas,
		"count":    len(personas),
	})
}

func (a *API) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BusinessID string `json:"business_id"`
		AssetType  string `json:"asset_type"`
		Label      string `json:"label"`
		URL        string `json:"url"`
		Status     string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	business := a.requireBusiness(w, r, req.BusinessID)
	if business == nil {
		return
	}
	if req.AssetType == "" || req.Label == "" {
		jsonError(w, "asset_type and label are required", http.StatusBadRequest)
		return
	}

	asset, err := a.db.CreateAsset(business.ID, req.AssetType, req.Label, req.URL, req.Status)
	if err != nil {
		slog.Error("creating resource asset", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusCreated, asset)
}

func (a *API) handleListAssets(w http.ResponseWriter, r *http.Request) {
	business := a.requireBusiness(w, r, r.PathValue("id"))
	if business == nil {
		return
	}
	assets, err := a.db.ListAssets(business.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, map[string]interface{}{
		"assets": assets,
		"count":  len(assets),
	})
}
