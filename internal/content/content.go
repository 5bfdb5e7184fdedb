// Package content generates all templated text: content plans, captions,
// media prompts, analysis summaries, brain answers and persona profiles.
// Stateless string interpolation over entity fields; there is no model
// call anywhere in here.
package content

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/growthdesk/internal/db"
)

// DefaultTone is used whenever a business has not set a brand tone.
const DefaultTone = "calm"

// Tone returns the business's brand tone with the default fallback.
func Tone(b *db.Business) string {
	if b.BrandTone == "" {
		return DefaultTone
	}
	return b.BrandTone
}

// Plan is a budget-derived posting strategy.
type Plan struct {
	ContentPlan map[string]float64
	Platforms   map[string]int
	Cadence     string
}

// BuildPlan maps a monthly budget to a posting cadence and platform split.
// The pillar weights are fixed regardless of budget.
func BuildPlan(budget int) Plan {
	plan := Plan{
		ContentPlan: map[string]float64{
			"education":    0.4,
			"brand":        0.3,
			"social_proof": 0.2,
			"sales":        0.1,
		},
	}
	switch {
	case budget < 300:
		plan.Cadence = "3 posts/week"
		plan.Platforms = map[string]int{"tiktok": 2, "instagram": 2}
	case budget < 800:
		plan.Cadence = "5 posts/week"
		plan.Platforms = map[string]int{"tiktok": 3, "instagram": 3, "facebook": 2}
	default:
		plan.Cadence = "7 posts/week"
		plan.Platforms = map[string]int{"tiktok": 4, "instagram": 4, "youtube_shorts": 2, "linkedin": 2}
	}
	return plan
}

// CaptionInput carries the fields a caption template interpolates.
type CaptionInput struct {
	Topic       string
	ContentType string
	Persona     string
}

// CraftCaption builds the three-line caption: hook, narrative, CTA.
func CraftCaption(b *db.Business, in CaptionInput) string {
	persona := in.Persona
	if persona == "" {
		persona = "our community"
	}
	tone := Tone(b)
	hook := fmt.Sprintf("For %s, %s can change the game.", persona, in.Topic)
	narrative := fmt.Sprintf("%s shows how a %s brand turns %s into a real story.", b.Name, tone, in.Topic)
	cta := "Send us a DM for the honest details."
	return hook + "\n" + narrative + "\n" + cta
}

// MediaPrompt builds the generation prompt stored alongside a post.
func MediaPrompt(b *db.Business, in CaptionInput) string {
	return fmt.Sprintf("Create a %s highlighting %s in a %s voice.", in.ContentType, in.Topic, Tone(b))
}

// Analysis is the templated profile read-back.
type Analysis struct {
	BusinessID      string   `json:"business_id"`
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// Analyze produces the profile summary and the three standing recommendations.
func Analyze(b *db.Business) Analysis {
	industry := b.Industry
	if industry == "" {
		industry = "an emerging space"
	}
	objective := b.Objective
	if objective == "" {
		objective = "organic growth"
	}
	tone := Tone(b)
	return Analysis{
		BusinessID: b.ID,
		Summary:    fmt.Sprintf("%s operates in %s and focuses on %s.", b.Name, industry, objective),
		Recommendations: []string{
			fmt.Sprintf("Lean into a %s voice to stay consistent.", tone),
			"Post short-form video 3x per week to build awareness.",
			"Collect at least two testimonial clips for social proof.",
		},
	}
}

// BrainAnswer templates a reply to a brain query. The context string is the
// caller's digest of recent memories.
func BrainAnswer(query string, b *db.Business, context string) string {
	tone := Tone(b)
	q := strings.ToLower(query)
	if strings.Contains(q, "strategy") {
		return fmt.Sprintf("The current strategy for %s stays anchored in %s. We keep a %s tone and lean harder on short-form video.",
			b.Name, context, tone)
	}
	if strings.Contains(q, "lead") {
		return fmt.Sprintf("Hot leads need visual proof. Send a short process video for %s.", b.Name)
	}
	return fmt.Sprintf("Answering in a %s tone: %s.", tone, context)
}

// personaTemplates seed generated personas; count and focus select from and
// flavor these.
var personaTemplates = []db.CreatePersonaInput{
	{
		Name:              "The Busy Owner",
		Description:       "Runs a small operation solo and has no time for marketing theory.",
		Motivations:       "Wants predictable customers without hiring an agency.",
		PainPoints:        "No time, no design skills, afraid of posting the wrong thing.",
		PreferredChannels: "instagram, facebook",
		FunnelStage:       "awareness",
	},
	{
		Name:              "The Curious Follower",
		Description:       "Engages with posts and stories but has never bought.",
		Motivations:       "Looking for proof the product works for people like them.",
		PainPoints:        "Skeptical of ads, needs testimonials and process videos.",
		PreferredChannels: "tiktok, instagram",
		FunnelStage:       "consideration",
	},
	{
		Name:              "The Returning Customer",
		Description:       "Bought once and will come back if reminded at the right moment.",
		Motivations:       "Convenience and a brand they already trust.",
		PainPoints:        "Forgets to reorder; ignores generic promotions.",
		PreferredChannels: "email, instagram",
		FunnelStage:       "retention",
	},
	{
		Name:              "The Local Scout",
		Description:       "Searches for nearby options and reads every review first.",
		Motivations:       "Wants the best option within reach, today.",
		PainPoints:        "Too many choices, not enough trustworthy signals.",
		PreferredChannels: "facebook, maps",
		FunnelStage:       "decision",
	},
	{
		Name:              "The Deal Hunter",
		Description:       "Follows for discounts and shares offers with friends.",
		Motivations:       "Saving money and being first to a bargain.",
		PainPoints:        "Unsubscribes fast when content is all full-price sales.",
		PreferredChannels: "tiktok, facebook",
		FunnelStage:       "conversion",
	},
}

// MaxPersonas caps a single generation request.
const MaxPersonas = 5

// GeneratePersonas returns count templated personas flavored by the business
// profile. Deterministic: same inputs, same personas.
func GeneratePersonas(b *db.Business, count int, focus string) []db.CreatePersonaInput {
	if count <= 0 {
		count = 2
	}
	if count > MaxPersonas {
		count = MaxPersonas
	}
	industry := b.Industry
	if industry == "" {
		industry = "your market"
	}

	out := make([]db.CreatePersonaInput, 0, count)
	for i := 0; i < count; i++ {
		p := personaTemplates[i%len(personaTemplates)]
		p.BusinessID = b.ID
		p.Description = fmt.Sprintf("%s Relevant to %s.", p.Description, industry)
		if focus != "" {
			p.Motivations = fmt.Sprintf("%s Focus: %s.", p.Motivations, focus)
		}
		out = append(out, p)
	}
	return out
}
