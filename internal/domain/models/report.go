package models

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel bands a content or conversation risk score
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// RiskScore is a bounded score plus its band. A pure function of findings:
// recomputed whenever findings change, never mutated in place.
type RiskScore struct {
	Score          int       `json:"score"`
	Level          RiskLevel `json:"level"`
	Recommendation string    `json:"recommendation"`
}

// PatternGroup summarizes one detection category across a conversation
type PatternGroup struct {
	Category MatchCategory `json:"category"`
	Count    int           `json:"count"`
	Samples  []string      `json:"samples,omitempty"` // truncated previews
}

// ContentAnalysis is the per-sample result: findings plus the content-policy score
type ContentAnalysis struct {
	Findings ThreatFindings `json:"findings"`
	Risk     RiskScore      `json:"risk"`
}

// ThreatReport is the final composite produced by one analysis invocation.
// It has no independent lifecycle; persistence belongs to external collaborators.
type ThreatReport struct {
	ID          uuid.UUID `json:"id"`
	ChatID      string    `json:"chat_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	Messages      []ContentAnalysis    `json:"messages"`
	Participants  []ParticipantProfile `json:"participants,omitempty"`
	Graph         *ConversationGraph   `json:"graph,omitempty"`
	PatternsFound []PatternGroup       `json:"patterns_found,omitempty"`

	Risk            RiskScore `json:"risk"`
	Recommendations []string  `json:"recommendations,omitempty"`

	FormattedReport string `json:"formatted_report,omitempty"`
	AINarrative     string `json:"ai_narrative,omitempty"` // absent when the generator is unavailable
}
