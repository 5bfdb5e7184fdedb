// Package insights derives dashboard counts, analytics summaries and
// free-text recommendations from a snapshot of a business's posts, leads,
// personas and assets. All functions are pure: they read the snapshot and
// never touch storage.
package insights

import (
	"fmt"
	"math"
	"time"

	"github.com/hazyhaar/growthdesk/internal/db"
	"github.com/hazyhaar/growthdesk/internal/pipeline"
)

type DashboardOverview struct {
	BusinessID          string   `json:"business_id"`
	PostsScheduledToday int      `json:"posts_scheduled_today"`
	NewLeads            int      `json:"new_leads"`
	ActiveConversations int      `json:"active_conversations"`
	AutomationActions   []string `json:"automation_actions"`
	Recommendation      string   `json:"recommendation"`
}

type Performance struct {
	BusinessID            string         `json:"business_id"`
	TotalPosts            int            `json:"total_posts"`
	ApprovedPosts         int            `json:"approved_posts"`
	ScheduledPosts        int            `json:"scheduled_posts"`
	PostedPosts           int            `json:"posted_posts"`
	TotalLeads            int            `json:"total_leads"`
	HotLeads              int            `json:"hot_leads"`
	AvgLeadScore          float64        `json:"avg_lead_score"`
	PlatformBreakdown     map[string]int `json:"platform_breakdown"`
	FunnelRecommendations []string       `json:"funnel_recommendations"`
}

type Insights struct {
	BusinessID   string   `json:"business_id"`
	Insights     []string `json:"insights"`
	ResourceGaps []string `json:"resource_gaps"`
	PersonaFocus string   `json:"persona_focus,omitempty"`
}

// Overview computes the dashboard snapshot. now fixes "today" so callers
// (and tests) control the calendar date; the comparison is in UTC.
func Overview(business *db.Business, posts []*db.ContentPost, leads []*db.Lead, now time.Time) DashboardOverview {
	today := now.UTC().Truncate(24 * time.Hour)

	var scheduledToday, drafts, scheduled int
	for _, p := range posts {
		switch p.Status {
		case "draft":
			drafts++
		case "scheduled":
			scheduled++
		}
		if p.ScheduledAt != nil && p.ScheduledAt.UTC().Truncate(24*time.Hour).Equal(today) {
			scheduledToday++
		}
	}

	var newLeads, active, hot int
	for _, l := range leads {
		switch l.PipelineStage {
		case pipeline.StageNew:
			newLeads++
		case pipeline.StageWarm, pipeline.StageHot, pipeline.StageBooked:
			active++
		}
		if l.PipelineStage == pipeline.StageHot {
			hot++
		}
	}

	// Fixed shape, fixed order: drafts, scheduled, hot leads. Always three
	// entries even when every count is zero.
	actions := []string{
		fmt.Sprintf("%d draft posts waiting for review", drafts),
		fmt.Sprintf("%d posts queued on the calendar", scheduled),
		fmt.Sprintf("%d hot leads to follow up today", hot),
	}

	// First-match rule order matters: the thin-calendar check wins over the
	// no-leads check when both hold.
	var recommendation string
	switch {
	case scheduled < 3:
		recommendation = "Your calendar is thin — schedule at least 3 posts this week to stay visible."
	case hot == 0 && len(leads) > 0:
		recommendation = "No hot leads right now — push social proof content to warm up the pipeline."
	case len(leads) == 0:
		recommendation = "No leads yet — activate a DM flow so inbound engagement starts a conversation."
	default:
		recommendation = fmt.Sprintf("%s looks healthy — keep the current mix running.", business.Name)
	}

	return DashboardOverview{
		BusinessID:          business.ID,
		PostsScheduledToday: scheduledToday,
		NewLeads:            newLeads,
		ActiveConversations: active,
		AutomationActions:   actions,
		Recommendation:      recommendation,
	}
}

// PerformanceReport computes funnel counters and recommendations. Unlike the
// dashboard recommendation, funnel checks are non-exclusive: every rule that
// holds contributes a message.
func PerformanceReport(business *db.Business, posts []*db.ContentPost, leads []*db.Lead) Performance {
	report := Performance{
		BusinessID:        business.ID,
		TotalPosts:        len(posts),
		TotalLeads:        len(leads),
		PlatformBreakdown: map[string]int{},
	}

	for _, p := range posts {
		report.PlatformBreakdown[p.Platform]++
		switch p.Status {
		case "approved":
			report.ApprovedPosts++
		case "scheduled":
			report.ScheduledPosts++
		case "posted":
			report.PostedPosts++
		}
	}

	var scoreSum int
	for _, l := range leads {
		scoreSum += l.LeadScore
		if l.PipelineStage == pipeline.StageHot {
			report.HotLeads++
		}
	}
	if len(leads) > 0 {
		avg := float64(scoreSum) / float64(len(leads))
		report.AvgLeadScore = math.Round(avg*100) / 100
	}

	var recs []string
	if report.TotalPosts == 0 {
		recs = append(recs, "No content yet — generate a first batch of posts to fill the funnel.")
	}
	if report.TotalPosts > 0 && report.ScheduledPosts < scheduledFloor(report.TotalPosts) {
		recs = append(recs, "Less than half your content is scheduled — move approved posts onto the calendar.")
	}
	if report.HotLeads == 0 {
		recs = append(recs, "Zero hot leads — add social proof and a clear call to action to heat up the pipeline.")
	}
	if report.TotalPosts > 0 && report.AvgLeadScore < 40 {
		recs = append(recs, "Average lead score is low — tighten targeting so content reaches buyers, not browsers.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Your current mix is working — keep posting and following up.")
	}
	report.FunnelRecommendations = recs

	return report
}

// scheduledFloor is the minimum acceptable scheduled-post count: half the
// total, never below 2.
func scheduledFloor(total int) int {
	half := total / 2
	if half < 2 {
		return 2
	}
	return half
}

// Report builds the insights view: scheduling and pipeline observations,
// resource gaps, and the first persona on record as the suggested focus.
func Report(business *db.Business, posts []*db.ContentPost, leads []*db.Lead, personas []*db.Persona, assets []*db.ResourceAsset) Insights {
	var scheduled, hot int
	for _, p := range posts {
		if p.Status == "scheduled" {
			scheduled++
		}
	}
	for _, l := range leads {
		if l.PipelineStage == pipeline.StageHot {
			hot++
		}
	}

	var messages []string
	if len(posts) == 0 {
		messages = append(messages, "No posts yet — content is the first lever, start there.")
	} else {
		messages = append(messages, fmt.Sprintf("%d posts are scheduled out of %d total.", scheduled, len(posts)))
	}
	if hot > 0 {
		messages = append(messages, fmt.Sprintf("%d hot leads are waiting — prioritize follow-ups before new outreach.", hot))
	} else {
		messages = append(messages, "No hot leads at the moment — engagement is not converting yet.")
	}

	result := Insights{
		BusinessID:   business.ID,
		Insights:     messages,
		ResourceGaps: ResourceGaps(assets),
	}
	if len(personas) > 0 {
		result.PersonaFocus = personas[0].Name
	}
	return result
}

// requiredAssetTypes are the categories every MVP content kit needs.
var requiredAssetTypes = []string{"logo", "photo", "video"}

// ResourceGaps reports which required asset categories are missing. No
// assets at all collapses to a single upload-everything message; a complete
// kit yields a single all-clear.
func ResourceGaps(assets []*db.ResourceAsset) []string {
	if len(assets) == 0 {
		return []string{"Upload your logo, product photos and testimonials to unlock content generation."}
	}

	present := map[string]bool{}
	for _, a := range assets {
		present[a.AssetType] = true
	}

	var gaps []string
	for _, required := range requiredAssetTypes {
		if !present[required] {
			gaps = append(gaps, fmt.Sprintf("Missing %s assets — add at least one.", required))
		}
	}
	if len(gaps) == 0 {
		return []string{"Asset library is sufficient for the MVP content plan."}
	}
	return gaps
}
