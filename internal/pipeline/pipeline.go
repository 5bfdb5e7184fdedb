// Package pipeline holds the lead scoring rules and the pipeline stage
// machine. Everything here is pure arithmetic over a lead's current score;
// persistence is the caller's problem.
package pipeline

// Pipeline stages. The enum is flat: operator action can move a lead from
// any stage to any other, and inbound-event scoring overwrites the stage as
// a side effect of the score update.
const (
	StageNew    = "new"
	StageCold   = "cold"
	StageWarm   = "warm"
	StageHot    = "hot"
	StageBooked = "booked"
	StageNoShow = "no_show"
	StageSale   = "sale"
	StageLost   = "lost"
)

// AuthorAI marks conversation turns written by the automation.
const AuthorAI = "ai"

// FlowReplyBonus is the score bump applied when a DM flow fires.
const FlowReplyBonus = 4

var validStages = map[string]bool{
	StageNew:    true,
	StageCold:   true,
	StageWarm:   true,
	StageHot:    true,
	StageBooked: true,
	StageNoShow: true,
	StageSale:   true,
	StageLost:   true,
}

// ValidStage reports whether s is a known pipeline stage.
func ValidStage(s string) bool {
	return validStages[s]
}

// eventDeltas maps inbound engagement events to score deltas. Events not in
// the table are worth 2.
var eventDeltas = map[string]int{
	"comment":     5,
	"message":     10,
	"follow":      3,
	"story_reply": 7,
}

// ScoreEvent returns the score after applying an inbound event's delta,
// clamped at 100. Deltas are non-negative so no lower clamp is needed here.
func ScoreEvent(current int, eventType string) int {
	delta, ok := eventDeltas[eventType]
	if !ok {
		delta = 2
	}
	return clamp(current + delta)
}

// StageForScore derives the pipeline stage from a score. It is applied after
// every inbound-event delta and overwrites whatever stage the lead had, so a
// low-delta event can demote a hot lead. The dashboard counts depend on that
// demotion; do not make this monotonic.
func StageForScore(score int) string {
	switch {
	case score > 75:
		return StageHot
	case score > 55:
		return StageWarm
	default:
		return StageNew
	}
}

// ApplyEvent runs the scoring engine for one inbound event and returns the
// new score and the (re)derived stage.
func ApplyEvent(current int, eventType string) (score int, stage string) {
	score = ScoreEvent(current, eventType)
	return score, StageForScore(score)
}

// ApplySend scores a manual DM send. Automation sends are worth +2 with no
// stage effect. Any other author counts as the lead talking back: +5, and
// past 70 the lead is promoted to hot. This path never demotes.
func ApplySend(current int, currentStage, author string) (score int, stage string) {
	stage = currentStage
	if author == AuthorAI {
		score = clamp(current + 2)
		return score, stage
	}
	score = clamp(current + 5)
	if score > 70 {
		stage = StageHot
	}
	return score, stage
}

// ApplyStageOverride applies an operator stage change and its score side
// effect: lost costs 15 points, hot and booked grant 10. Each mutation
// clamps its own result independently.
func ApplyStageOverride(current int, newStage string) int {
	switch newStage {
	case StageLost:
		return clamp(current - 15)
	case StageHot, StageBooked:
		return clamp(current + 10)
	default:
		return current
	}
}

func clamp(score int) int {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}
