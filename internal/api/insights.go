package api

import (
	"net/http"
	"time"

	"github.com/hazyhaar/growthdesk/internal/insights"
)

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	business := a.requireBusiness(w, r, r.PathValue("id"))
	if business == nil {
		return
	}
	posts, err := a.db.ListPosts(business.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	leads, err := a.db.ListLeads(business.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, insights.Overview(business, posts, leads, time.Now()))
}

func (a *API) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	business := a.requireBusiness(w, r, r.PathValue("id"))
	if business == nil {
		return
	}
	posts, err := a.db.ListPosts(business.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	leads, err := a.db.ListLeads(business.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, insights.PerformanceReport(business, posts, leads))
}

func (a *API) handleInsights(w http.ResponseWriter, r *http.Request) {
	business := a.requireBusiness(w, r, r.PathValue("id"))
	if business == nil {
		return
	}
	posts, err := a.db.ListPosts(business.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	leads, err := a.db.ListLeads(business.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	personas, err := a.db.ListPersonas(business.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	assets, err := a.db.ListAssets(business.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, insights.Report(business, posts, leads, personas, assets))
}
