package api

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hazyhaar/growthdesk/internal/db"
	"github.com/hazyhaar/growthdesk/internal/pipeline"
)

// handleDMTrigger ingests one inbound engagement event: it finds or creates
// the lead, applies the scoring delta, and fires the first matching active
// DM flow if one exists.
func (a *API) handleDMTrigger(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req struct {
		BusinessID string `json:"business_id"`
		Handle     string `json:"handle"`
		EventType  string `json:"event_type"`
		Message    string `json:"message"`
		Source     string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	business := a.requireBusiness(w, r, req.BusinessID)
	if business == nil {
		return
	}
	if req.Handle == "" || req.EventType == "" {
		jsonError(w, "handle and event_type are required", http.StatusBadRequest)
		return
	}

	message := req.Message
	if message == "" {
		message = req.EventType
	}
	now := time.Now().UTC().Format(time.RFC3339)

	lead, err := a.db.GetLeadByHandle(business.ID, req.Handle)
	switch {
	case err == sql.ErrNoRows:
		source := req.Source
		if source == "" {
			source = "dm"
		}
		lead, err = a.db.CreateLead(business.ID, req.Handle, source, db.Turn{
			Author:    "lead",
			Message:   message,
			Timestamp: now,
		})
		if err != nil {
			slog.Error("creating lead from trigger", "error", err)
			jsonError(w, "internal error", http.StatusInternalServerError)
			return
		}
	case err != nil:
		slog.Error("loading lead by handle", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	default:
		lead.Conversation = append(lead.Conversation, db.Turn{
			Author:    "lead",
			Message:   message,
			Timestamp: now,
		})
	}

	lead.LeadScore, lead.PipelineStage = pipeline.ApplyEvent(lead.LeadScore, req.EventType)

	var flowReply string
	var firedFlow *db.DMFlow
	flow, err := a.db.FindActiveFlow(business.ID, req.EventType)
	if err != nil {
		slog.Error("matching dm flow", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if flow != nil && len(flow.Script) > 0 {
		// Flow fires the opening line only; follow-ups stay manual. The
		// bonus moves the score but never the stage.
		flowReply = flow.Script[0]
		lead.Conversation = append(lead.Conversation, db.Turn{
			Author:    pipeline.AuthorAI,
			Message:   flowReply,
			Timestamp: now,
		})
		lead.LeadScore += pipeline.FlowReplyBonus
		if lead.LeadScore > 100 {
			lead.LeadScore = 100
		}
		if err := a.db.IncrementFlowSuccess(flow.ID); err != nil {
			slog.Error("incrementing flow success", "error", err, "flow_id", flow.ID)
		}
		firedFlow = flow
	}

	if err := a.db.SaveLead(lead); err != nil {
		slog.Error("saving lead", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := map[string]interface{}{
		"lead":       lead,
		"flow_fired": firedFlow != nil,
	}
	if firedFlow != nil {
		resp["flow_id"] = firedFlow.ID
		resp["reply"] = flowReply
	}
	jsonResp(w, http.StatusOK, resp)
}

func (a *API) handleDMSend(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req struct {
		LeadID  string `json:"lead_id"`
		Author  string `json:"author"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		jsonError(w, "message is required", http.StatusBadRequest)
		return
	}
	lead := a.requireLead(w, r, req.LeadID)
	if lead == nil {
		return
	}

	author := req.Author
	if author == "" {
		author = "owner"
	}
	lead.Conversation = append(lead.Conversation, db.Turn{
		Author:    author,
		Message:   req.Message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	lead.LeadScore, lead.PipelineStage = pipeline.ApplySend(lead.LeadScore, lead.PipelineStage, author)

	if err := a.db.SaveLead(lead); err != nil {
		slog.Error("saving lead after send", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, lead)
}

func (a *API) handlePipeline(w http.ResponseWriter, r *http.Request) {
	business := a.requireBusiness(w, r, r.PathValue("id"))
	if business == nil {
		return
	}
	leads, err := a.db.ListLeads(business.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	byStage := map[string]int{}
	for _, l := range leads {
		byStage[l.PipelineStage]++
	}
	jsonResp(w, http.StatusOK, map[string]interface{}{
		"leads":    leads,
		"count":    len(leads),
		"by_stage": byStage,
	})
}

func (a *API) handleSetLeadStage(w http.ResponseWriter, r *http.Request) {
	lead := a.requireLead(w, r, r.PathValue("id"))
	if lead == nil {
		return
	}

	var req struct {
		Stage string `json:"stage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !pipeline.ValidStage(req.Stage) {
		jsonError(w, "invalid pipeline stage", http.StatusBadRequest)
		return
	}

	lead.LeadScore = pipeline.ApplyStageOverride(lead.LeadScore, req.Stage)
	lead.PipelineStage = req.Stage

	if err := a.db.SaveLead(lead); err != nil {
		slog.Error("saving lead stage", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, lead)
}

func (a *API) handleCreateLeadNote(w http.ResponseWriter, r *http.Request) {
	lead := a.requireLead(w, r, r.PathValue("id"))
	if lead == nil {
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Note == "" {
		jsonError(w, "note is required", http.StatusBadRequest)
		return
	}

	note, err := a.db.CreateLeadNote(lead.ID, req.Note)
	if err != nil {
		slog.Error("creating lead note", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusCreated, note)
}

func (a *API) handleListLeadNotes(w http.ResponseWriter, r *http.Request) {
	lead := a.requireLead(w, r, r.PathValue("id"))
	if lead == nil {
		return
	}
	notes, err := a.db.ListLeadNotes(lead.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, map[string]interface{}{
		"notes": notes,
		"count": len(notes),
	})
}

func (a *API) handleCreateFlow(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req struct {
		BusinessID string   `json:"business_id"`
		Name       string   `json:"name"`
		Trigger    string   `json:"trigger"`
		Script     []string `json:"script"`
		Status     string   `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	business := a.requireBusiness(w, r, req.BusinessID)
	if business == nil {
		return
	}
	if req.Name == "" || req.Trigger == "" {
		jsonError(w, "name and trigger are required", http.StatusBadRequest)
		return
	}
	if len(req.Script) == 0 {
		jsonError(w, "script must have at least one line", http.StatusBadRequest)
		return
	}
	status := req.Status
	if status == "" {
		status = "draft"
	}
	if status != "draft" && status != "active" {
		jsonError(w, "status must be draft or active", http.StatusBadRequest)
		return
	}

	flow, err := a.db.CreateFlow(business.ID, req.Name, req.Trigger, req.Script, status)
	if err != nil {
		slog.Error("creating dm flow", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusCreated, flow)
}

func (a *API) handleActivateFlow(w http.ResponseWriter, r *http.Request) {
	flowID := r.PathValue("id")
	flow, err := a.db.GetFlow(flowID)
	if err != nil {
		if err == sql.ErrNoRows {
			jsonError(w, "flow not found", http.StatusNotFound)
			return
		}
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if a.requireBusiness(w, r, flow.BusinessID) == nil {
		return
	}

	activated, err := a.db.ActivateFlow(flowID)
	if err != nil {
		slog.Error("activating dm flow", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, activated)
}

func (a *API) handleListFlows(w http.ResponseWriter, r *http.Request) {
	business := a.requireBusiness(w, r, r.PathValue("id"))
	if business == nil {
		return
	}
	flows, err := a.db.ListFlows(business.ID)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, map[string]interface{}{
		"flows": flows,
		"count": len(flows),
	})
}
