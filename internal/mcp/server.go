// Package mcp registers the core growthdesk tools on an MCP server.
// These tools give an MCP client the same engagement, pipeline and brain
// operations the HTTP API exposes.
package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/growthdesk/internal/content"
	"github.com/hazyhaar/growthdesk/internal/db"
	"github.com/hazyhaar/growthdesk/internal/insights"
	"github.com/hazyhaar/growthdesk/internal/pipeline"
	"github.com/hazyhaar/pkg/audit"
	"github.com/hazyhaar/pkg/kit"
)

// NewServer creates an MCPServer with all core growthdesk tools registered.
func NewServer(database *db.DB, auditLog audit.Logger) *server.MCPServer {
	srv := server.NewMCPServer(
		"growthdesk",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	registerTriggerEvent(srv, database, auditLog)
	registerGetDashboard(srv, database)
	registerListPipeline(srv, database)
	registerBrainQuery(srv, database)

	return srv
}

// --- trigger_event ---

func registerTriggerEvent(srv *server.MCPServer, database *db.DB, auditLog audit.Logger) {
	var endpoint kit.Endpoint = func(ctx context.Context, request any) (any, error) {
		r := request.(*triggerEventReq)
		message := r.Message
		if message == "" {
			message = r.EventType
		}
		now := time.Now().UTC().Format(time.RFC3339)

		lead, err := database.GetLeadByHandle(r.BusinessID, r.Handle)
		if err == sql.ErrNoRows {
			source := r.Source
			if source == "" {
				source = "dm"
			}
			lead, err = database.CreateLead(r.BusinessID, r.Handle, source, db.Turn{
				Author: "lead", Message: message, Timestamp: now,
			})
			if err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		} else {
			lead.Conversation = append(lead.Conversation, db.Turn{
				Author: "lead", Message: message, Timestamp: now,
			})
		}

		lead.LeadScore, lead.PipelineStage = pipeline.ApplyEvent(lead.LeadScore, r.EventType)

		flow, err := database.FindActiveFlow(r.BusinessID, r.EventType)
		if err != nil {
			return nil, err
		}
		result := map[string]any{"flow_fired": false}
		if flow != nil && len(flow.Script) > 0 {
			lead.Conversation = append(lead.Conversation, db.Turn{
				Author: pipeline.AuthorAI, Message: flow.Script[0], Timestamp: now,
			})
			lead.LeadScore += pipeline.FlowReplyBonus
			if lead.LeadScore > 100 {
				lead.LeadScore = 100
			}
			if err := database.IncrementFlowSuccess(flow.ID); err != nil {
				return nil, err
			}
			result["flow_fired"] = true
			result["flow_id"] = flow.ID
			result["reply"] = flow.Script[0]
		}

		if err := database.SaveLead(lead); err != nil {
			return nil, err
		}
		result["lead"] = lead
		return result, nil
	}
	if auditLog != nil {
		endpoint = audit.Middleware(auditLog, "trigger_event")(endpoint)
	}

	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"business_id": map[string]string{"type": "string", "description": "Business ID"},
			"handle":      map[string]string{"type": "string", "description": "Lead handle, e.g. social username"},
			"event_type":  map[string]string{"type": "string", "description": "One of: comment, message, follow, story_reply, or any custom event"},
			"message":     map[string]string{"type": "string", "description": "Message text for message events"},
			"source":      map[string]string{"type": "string", "description": "Acquisition source for new leads"},
		},
		"required": []string{"business_id", "handle", "event_type"},
	})
	tool := mcp.NewToolWithRawSchema("trigger_event", "Record an inbound engagement event, rescore the lead and fire a matching DM flow", schema)

	kit.RegisterMCPTool(srv, tool, endpoint, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		return &kit.MCPDecodeResult{Request: &triggerEventReq{
			BusinessID: stringArg(args, "business_id"),
			Handle:     stringArg(args, "handle"),
			EventType:  stringArg(args, "event_type"),
			Message:    stringArg(args, "message"),
			Source:     stringArg(args, "source"),
		}}, nil
	})
}

type triggerEventReq struct {
	BusinessID string `json:"business_id"`
	Handle     string `json:"handle"`
	EventType  string `json:"event_type"`
	Message    string `json:"message"`
	Source     string `json:"source"`
}

// --- get_dashboard ---

func registerGetDashboard(srv *server.MCPServer, database *db.DB) {
	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"business_id": map[string]string{"type": "string", "description": "Business ID"},
		},
		"required": []string{"business_id"},
	})
	tool := mcp.NewToolWithRawSchema("get_dashboard", "Get the daily dashboard overview for a business", schema)

	kit.RegisterMCPTool(srv, tool, func(ctx context.Context, request any) (any, error) {
		r := request.(*businessReq)
		business, err := database.GetBusiness(r.BusinessID)
		if err != nil {
			return nil, err
		}
		posts, err := database.ListPosts(business.ID)
		if err != nil {
			return nil, err
		}
		leads, err := database.ListLeads(business.ID)
		if err != nil {
			return nil, err
		}
		return insights.Overview(business, posts, leads, time.Now()), nil
	}, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		return &kit.MCPDecodeResult{Request: &businessReq{BusinessID: stringArg(args, "business_id")}}, nil
	})
}

type businessReq struct {
	BusinessID string `json:"business_id"`
}

// --- list_pipeline ---

func registerListPipeline(srv *server.MCPServer, database *db.DB) {
	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"business_id": map[string]string{"type": "string", "description": "Business ID"},
		},
		"required": []string{"business_id"},
	})
	tool := mcp.NewToolWithRawSchema("list_pipeline", "List all leads for a business with per-stage counts", schema)

	kit.RegisterMCPTool(srv, tool, func(ctx context.Context, request any) (any, error) {
		r := request.(*businessReq)
		leads, err := database.ListLeads(r.BusinessID)
		if err != nil {
			return nil, err
		}
		byStage := map[string]int{}
		for _, l := range leads {
			byStage[l.PipelineStage]++
		}
		return map[string]any{"leads": leads, "count": len(leads), "by_stage": byStage}, nil
	}, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		return &kit.MCPDecodeResult{Request: &businessReq{BusinessID: stringArg(args, "business_id")}}, nil
	})
}

// --- brain_query ---

func registerBrainQuery(srv *server.MCPServer, database *db.DB) {
	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"business_id": map[string]string{"type": "string", "description": "Business ID"},
			"query":       map[string]string{"type": "string", "description": "Question for the marketing brain"},
		},
		"required": []string{"business_id", "query"},
	})
	tool := mcp.NewToolWithRawSchema("brain_query", "Ask the marketing brain a question grounded in recent memories", schema)

	kit.RegisterMCPTool(srv, tool, func(ctx context.Context, request any) (any, error) {
		r := request.(*brainQueryReq)
		business, err := database.GetBusiness(r.BusinessID)
		if err != nil {
			return nil, err
		}
		memories, err := database.RecentMemories(business.ID, 3)
		if err != nil {
			return nil, err
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
		return map[string]any{
			"answer":     content.BrainAnswer(r.Query, business, context),
			"references": references,
		}, nil
	}, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		return &kit.MCPDecodeResult{Request: &brainQueryReq{
			BusinessID: stringArg(args, "business_id"),
			Query:      stringArg(args, "query"),
		}}, nil
	})
}

type brainQueryReq struct {
	BusinessID string `json:"business_id"`
	Query      string `json:"query"`
}

// --- helpers ---

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}
