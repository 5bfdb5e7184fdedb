package insights

import (
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/growthdesk/internal/db"
)

var testBusiness = &db.Business{ID: "b1", Name: "Corner Bakery"}

func post(status string) *db.ContentPost {
	return &db.ContentPost{BusinessID: "b1", Platform: "instagram", Status: status}
}

func scheduledPost(at time.Time) *db.ContentPost {
	p := post("scheduled")
	p.ScheduledAt = &at
	return p
}

func lead(stage string, score int) *db.Lead {
	return &db.Lead{BusinessID: "b1", PipelineStage: stage, LeadScore: score}
}

func TestOverviewCountsScheduledToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	posts := []*db.ContentPost{
		scheduledPost(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)),
		scheduledPost(time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)),
		scheduledPost(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)),
		post("draft"),
	}
	o := Overview(testBusiness, posts, nil, now)
	if o.PostsScheduledToday != 2 {
		t.Errorf("PostsScheduledToday = %d, want 2", o.PostsScheduledToday)
	}
	if len(o.AutomationActions) != 3 {
		t.Fatalf("AutomationActions has %d entries, want 3", len(o.AutomationActions))
	}
}

func TestOverviewRecommendationOrder(t *testing.T) {
	now := time.Now()
	threeScheduled := []*db.ContentPost{post("scheduled"), post("scheduled"), post("scheduled")}

	// Thin calendar wins even when there are no leads at all.
	o := Overview(testBusiness, nil, nil, now)
	if !strings.Contains(o.Recommendation, "calendar is thin") {
		t.Errorf("empty business recommendation = %q, want thin calendar", o.Recommendation)
	}

	// Full calendar, leads but none hot: social proof.
	o = Overview(testBusiness, threeScheduled, []*db.Lead{lead("new", 10)}, now)
	if !strings.Contains(o.Recommendation, "social proof") {
		t.Errorf("no-hot recommendation = %q, want social proof", o.Recommendation)
	}

	// Full calendar, no leads: automation.
	o = Overview(testBusiness, threeScheduled, nil, now)
	if !strings.Contains(o.Recommendation, "DM flow") {
		t.Errorf("no-leads recommendation = %q, want DM flow", o.Recommendation)
	}

	// Full calendar and a hot lead: healthy.
	o = Overview(testBusiness, threeScheduled, []*db.Lead{lead("hot", 80)}, now)
	if !strings.Contains(o.Recommendation, "healthy") {
		t.Errorf("healthy recommendation = %q", o.Recommendation)
	}
}

func TestOverviewLeadCounts(t *testing.T) {
	leads := []*db.Lead{
		lead("new", 10),
		lead("warm", 60),
		lead("hot", 80),
		lead("booked", 90),
		lead("lost", 0),
	}
	o := Overview(testBusiness, nil, leads, time.Now())
	if o.NewLeads != 1 {
		t.Errorf("NewLeads = %d, want 1", o.NewLeads)
	}
	if o.ActiveConversations != 3 {
		t.Errorf("ActiveConversations = %d, want 3", o.ActiveConversations)
	}
}

func TestPerformanceReportCounts(t *testing.T) {
	posts := []*db.ContentPost{
		post("draft"), post("approved"), post("scheduled"), post("posted"),
	}
	posts[0].Platform = "tiktok"
	leads := []*db.Lead{lead("hot", 80), lead("new", 10), lead("warm", 60)}

	r := PerformanceReport(testBusiness, posts, leads)
	if r.TotalPosts != 4 || r.ApprovedPosts != 1 || r.ScheduledPosts != 1 || r.PostedPosts != 1 {
		t.Errorf("post counts = %d/%d/%d/%d", r.TotalPosts, r.ApprovedPosts, r.ScheduledPosts, r.PostedPosts)
	}
	if r.PlatformBreakdown["tiktok"] != 1 || r.PlatformBreakdown["instagram"] != 3 {
		t.Errorf("platform breakdown = %v", r.PlatformBreakdown)
	}
	if r.HotLeads != 1 {
		t.Errorf("HotLeads = %d, want 1", r.HotLeads)
	}
	if r.AvgLeadScore != 50 {
		t.Errorf("AvgLeadScore = %v, want 50", r.AvgLeadScore)
	}
}

func TestPerformanceReportAvgRounding(t *testing.T) {
	leads := []*db.Lead{lead("new", 10), lead("new", 25), lead("new", 30)}
	r := PerformanceReport(testBusiness, nil, leads)
	if r.AvgLeadScore != 21.67 {
		t.Errorf("AvgLeadScore = %v, want 21.67", r.AvgLeadScore)
	}
}

func TestFunnelRecommendationsAccumulate(t *testing.T) {
	// Empty business trips both the no-content and the zero-hot-leads rules.
	r := PerformanceReport(testBusiness, nil, nil)
	if len(r.FunnelRecommendations) != 2 {
		t.Fatalf("recommendations = %v, want 2 entries", r.FunnelRecommendations)
	}
	if !strings.Contains(r.FunnelRecommendations[0], "No content yet") {
		t.Errorf("first rec = %q", r.FunnelRecommendations[0])
	}
	if !strings.Contains(r.FunnelRecommendations[1], "Zero hot leads") {
		t.Errorf("second rec = %q", r.FunnelRecommendations[1])
	}
}

func TestFunnelRecommendationsThinSchedule(t *testing.T) {
	// 6 posts, 2 scheduled: below the half floor of 3.
	posts := []*db.ContentPost{
		post("scheduled"), post("scheduled"),
		post("approved"), post("approved"), post("draft"), post("draft"),
	}
	leads := []*db.Lead{lead("hot", 80)}
	r := PerformanceReport(testBusiness, posts, leads)
	found := false
	for _, rec := range r.FunnelRecommendations {
		if strings.Contains(rec, "Less than half") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing thin-schedule recommendation in %v", r.FunnelRecommendations)
	}
}

func TestFunnelRecommendationsFallback(t *testing.T) {
	// Everything healthy: exactly one all-clear message.
	posts := []*db.ContentPost{post("scheduled"), post("scheduled")}
	leads := []*db.Lead{lead("hot", 80)}
	r := PerformanceReport(testBusiness, posts, leads)
	if len(r.FunnelRecommendations) != 1 || !strings.Contains(r.FunnelRecommendations[0], "mix is working") {
		t.Errorf("recommendations = %v, want single all-clear", r.FunnelRecommendations)
	}
}

func TestScheduledFloor(t *testing.T) {
	tests := []struct{ total, want int }{
		{1, 2}, {2, 2}, {4, 2}, {5, 2}, {6, 3}, {10, 5},
	}
	for _, tt := range tests {
		if got := scheduledFloor(tt.total); got != tt.want {
			t.Errorf("scheduledFloor(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestResourceGaps(t *testing.T) {
	asset := func(kind string) *db.ResourceAsset {
		return &db.ResourceAsset{BusinessID: "b1", AssetType: kind}
	}

	gaps := ResourceGaps(nil)
	if len(gaps) != 1 || !strings.Contains(gaps[0], "Upload your logo") {
		t.Errorf("empty library gaps = %v", gaps)
	}

	gaps = ResourceGaps([]*db.ResourceAsset{asset("logo")})
	if len(gaps) != 2 {
		t.Fatalf("logo-only gaps = %v, want 2", gaps)
	}
	if !strings.Contains(gaps[0], "photo") || !strings.Contains(gaps[1], "video") {
		t.Errorf("logo-only gaps = %v", gaps)
	}

	gaps = ResourceGaps([]*db.ResourceAsset{asset("logo"), asset("photo"), asset("video")})
	if len(gaps) != 1 || !strings.Contains(gaps[0], "sufficient") {
		t.Errorf("complete library gaps = %v", gaps)
	}
}

func TestReportPersonaFocus(t *testing.T) {
	personas := []*db.Persona{
		{BusinessID: "b1", Name: "The Busy Owner"},
		{BusinessID: "b1", Name: "The Curious Follower"},
	}
	r := Report(testBusiness, nil, nil, personas, nil)
	if r.PersonaFocus != "The Busy Owner" {
		t.Errorf("PersonaFocus = %q, want first persona", r.PersonaFocus)
	}
	if len(r.Insights) != 2 {
		t.Errorf("Insights = %v, want 2 messages", r.Insights)
	}

	r = Report(testBusiness, nil, nil, nil, nil)
	if r.PersonaFocus != "" {
		t.Errorf("PersonaFocus = %q, want empty without personas", r.PersonaFocus)
	}
}
