package content

import (
	"strings"
	"testing"

	"github.com/hazyhaar/growthdesk/internal/db"
)

func TestTone(t *testing.T) {
	if got := Tone(&db.Business{}); got != "calm" {
		t.Errorf("Tone default = %q, want calm", got)
	}
	if got := Tone(&db.Business{BrandTone: "bold"}); got != "bold" {
		t.Errorf("Tone = %q, want bold", got)
	}
}

func TestBuildPlanTiers(t *testing.T) {
	tests := []struct {
		budget    int
		cadence   string
		platforms map[string]int
	}{
		{0, "3 posts/week", map[string]int{"tiktok": 2, "instagram": 2}},
		{299, "3 posts/week", map[string]int{"tiktok": 2, "instagram": 2}},
		{300, "5 posts/week", map[string]int{"tiktok": 3, "instagram": 3, "facebook": 2}},
		{799, "5 posts/week", map[string]int{"tiktok": 3, "instagram": 3, "facebook": 2}},
		{800, "7 posts/week", map[string]int{"tiktok": 4, "instagram": 4, "youtube_shorts": 2, "linkedin": 2}},
		{5000, "7 posts/week", map[string]int{"tiktok": 4, "instagram": 4, "youtube_shorts": 2, "linkedin": 2}},
	}
	for _, tt := range tests {
		plan := BuildPlan(tt.budget)
		if plan.Cadence != tt.cadence {
			t.Errorf("BuildPlan(%d).Cadence = %q, want %q", tt.budget, plan.Cadence, tt.cadence)
		}
		if len(plan.Platforms) != len(tt.platforms) {
			t.Errorf("BuildPlan(%d).Platforms = %v, want %v", tt.budget, plan.Platforms, tt.platforms)
			continue
		}
		for p, n := range tt.platforms {
			if plan.Platforms[p] != n {
				t.Errorf("BuildPlan(%d).Platforms[%s] = %d, want %d", tt.budget, p, plan.Platforms[p], n)
			}
		}
	}
}

func TestBuildPlanPillarWeights(t *testing.T) {
	plan := BuildPlan(500)
	want := map[string]float64{"education": 0.4, "brand": 0.3, "social_proof": 0.2, "sales": 0.1}
	for pillar, weight := range want {
		if plan.ContentPlan[pillar] != weight {
			t.Errorf("ContentPlan[%s] = %v, want %v", pillar, plan.ContentPlan[pillar], weight)
		}
	}
}

func TestCraftCaption(t *testing.T) {
	b := &db.Business{Name: "Corner Bakery", BrandTone: "playful"}
	caption := CraftCaption(b, CaptionInput{Topic: "sourdough", Persona: "home bakers"})

	lines := strings.Split(caption, "\n")
	if len(lines) != 3 {
		t.Fatalf("caption has %d lines, want 3:\n%s", len(lines), caption)
	}
	if !strings.Contains(lines[0], "home bakers") || !strings.Contains(lines[0], "sourdough") {
		t.Errorf("hook = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Corner Bakery") || !strings.Contains(lines[1], "playful") {
		t.Errorf("narrative = %q", lines[1])
	}
	if !strings.Contains(lines[2], "DM") {
		t.Errorf("cta = %q", lines[2])
	}
}

func TestCraftCaptionPersonaFallback(t *testing.T) {
	caption := CraftCaption(&db.Business{Name: "Shop"}, CaptionInput{Topic: "candles"})
	if !strings.Contains(caption, "our community") {
		t.Errorf("caption missing persona fallback:\n%s", caption)
	}
}

func TestAnalyzeFallbacks(t *testing.T) {
	a := Analyze(&db.Business{ID: "b1", Name: "Shop"})
	if !strings.Contains(a.Summary, "an emerging space") || !strings.Contains(a.Summary, "organic growth") {
		t.Errorf("summary = %q", a.Summary)
	}
	if len(a.Recommendations) != 3 {
		t.Errorf("recommendations = %v, want 3", a.Recommendations)
	}
}

func TestBrainAnswerBranches(t *testing.T) {
	b := &db.Business{Name: "Shop", BrandTone: "bold"}

	answer := BrainAnswer("What is our Strategy now?", b, "recent context")
	if !strings.Contains(answer, "strategy") || !strings.Contains(answer, "recent context") {
		t.Errorf("strategy answer = %q", answer)
	}

	answer = BrainAnswer("how do I close this lead?", b, "recent context")
	if !strings.Contains(answer, "visual proof") {
		t.Errorf("lead answer = %q", answer)
	}

	answer = BrainAnswer("anything else?", b, "calm tone")
	if !strings.Contains(answer, "bold tone") || !strings.Contains(answer, "calm tone") {
		t.Errorf("fallback answer = %q", answer)
	}
}

func TestGeneratePersonas(t *testing.T) {
	b := &db.Business{ID: "b1", Industry: "food"}

	personas := GeneratePersonas(b, 0, "")
	if len(personas) != 2 {
		t.Fatalf("default count = %d, want 2", len(personas))
	}
	if personas[0].BusinessID != "b1" {
		t.Errorf("BusinessID = %q", personas[0].BusinessID)
	}
	if !strings.Contains(personas[0].Description, "food") {
		t.Errorf("description missing industry: %q", personas[0].Description)
	}

	personas = GeneratePersonas(b, 10, "retention")
	if len(personas) != MaxPersonas {
		t.Errorf("capped count = %d, want %d", len(personas), MaxPersonas)
	}
	if !strings.Contains(personas[0].Motivations, "retention") {
		t.Errorf("motivations missing focus: %q", personas[0].Motivations)
	}
}

func TestOnboardingQuestions(t *testing.T) {
	if len(OnboardingQuestions) != 7 {
		t.Fatalf("catalog has %d questions, want 7", len(OnboardingQuestions))
	}
	seen := map[string]bool{}
	for _, q := range OnboardingQuestions {
		if q.Key == "" || q.Prompt == "" {
			t.Errorf("incomplete question: %+v", q)
		}
		if seen[q.Key] {
			t.Errorf("duplicate question key %q", q.Key)
		}
		seen[q.Key] = true
		if q.QType == "choice" && len(q.Options) == 0 {
			t.Errorf("choice question %q has no options", q.Key)
		}
	}
}
