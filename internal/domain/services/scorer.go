package services

import (
	"chatguard-lab/internal/domain/models"
	"chatguard-lab/pkg/logger"
)

// Content-risk weights per finding category
const (
	weightCriticalKeyword = 25
	weightHighKeyword     = 15
	weightMediumKeyword   = 8
	weightLowKeyword      = 3
	weightCoordinate      = 20
	weightPhone           = 5
	weightCrypto          = 10

	contentScoreCap = 100
)

// Account-risk weights per participant flag
const (
	weightScamFlag       = 20
	weightFakeFlag       = 15
	weightRestrictedFlag = 8
	weightNoPhotoFlag    = 3
)

// RiskScorer combines extractor outputs into bounded risk scores. Two
// scoring policies coexist: the ad-hoc content policy for single texts and
// the chat-aggregate policy for whole conversations. They score different
// input granularities and are kept as separate named policies.
type RiskScorer struct {
	logger *logger.Logger
}

// NewRiskScorer creates a new risk scorer
func NewRiskScorer(log *logger.Logger) *RiskScorer {
	return &RiskScorer{logger: log.WithComponent("risk-scorer")}
}

// ContentRawScore returns the uncapped weighted sum for one set of findings.
// The chat aggregator sums these across messages before banding.
func (rs *RiskScorer) ContentRawScore(f models.ThreatFindings) int {
	score := weightCriticalKeyword*f.TierCount(models.TierCritical) +
		weightHighKeyword*f.TierCount(models.TierHigh) +
		weightMediumKeyword*f.TierCount(models.TierMedium) +
		weightLowKeyword*f.TierCount(models.TierLow) +
		weightCoordinate*len(f.Coordinates) +
		weightPhone*len(f.Phones) +
		weightCrypto*len(f.Crypto)
	return score
}

// ScoreContent applies the ad-hoc content policy: weighted sum capped at 100,
// banded by the content thresholds.
func (rs *RiskScorer) ScoreContent(f models.ThreatFindings) models.RiskScore {
	score := rs.ContentRawScore(f)
	if score > contentScoreCap {
		score = contentScoreCap
	}

	level := bandContent(score)
	return models.RiskScore{
		Score:          score,
		Level:          level,
		Recommendation: recommendationFor(level),
	}
}

// ScoreConversation applies the chat-aggregate policy to an uncapped
// conversation-level sum.
func (rs *RiskScorer) ScoreConversation(aggregate int) models.RiskScore {
	level := bandConversation(aggregate)
	return models.RiskScore{
		Score:          aggregate,
		Level:          level,
		Recommendation: recommendationFor(level),
	}
}

// ScoreAccount computes the account-risk score and band for a participant.
// This is a separate dimension from content risk and must never be summed
// into a content score directly; the chat aggregator divides it by 5 first.
func (rs *RiskScorer) ScoreAccount(p models.ParticipantProfile) (int, models.AccountRiskLevel) {
	score := 0
	if p.IsScam {
		score += weightScamFlag
	}
	if p.IsFake {
		score += weightFakeFlag
	}
	if p.IsRestricted {
		score += weightRestrictedFlag
	}
	if p.HasNoPhoto {
		score += weightNoPhotoFlag
	}

	switch {
	case score > 30:
		return score, models.AccountRiskHigh
	case score > 15:
		return score, models.AccountRiskMedium
	default:
		return score, models.AccountRiskLow
	}
}

// bandContent maps a capped content score to its risk level
func bandContent(score int) models.RiskLevel {
	switch {
	case score >= 70:
		return models.RiskLevelCritical
	case score >= 50:
		return models.RiskLevelHigh
	case score >= 40:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}

// bandConversation maps an uncapped conversation aggregate to its risk level
func bandConversation(score int) models.RiskLevel {
	switch {
	case score > 100:
		return models.RiskLevelCritical
	case score > 50:
		return models.RiskLevelHigh
	case score > 20:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}

// recommendations is a fixed lookup keyed by band; text is selected, never composed
var recommendations = map[models.RiskLevel]string{
	models.RiskLevelCritical: "Critical risk: escalate to an analyst immediately and preserve all evidence.",
	models.RiskLevelHigh:     "High risk: review the flagged content and consider restricting the source.",
	models.RiskLevelMedium:   "Medium risk: monitor the source and re-analyze on new activity.",
	models.RiskLevelLow:      "Low risk: no action required.",
}

// recommendationFor returns the fixed recommendation string for a band
func recommendationFor(level models.RiskLevel) string {
	return recommendations[level]
}
