package services

import (
	"time"

	"github.com/google/uuid"

	"chatguard-lab/internal/domain/models"
	"chatguard-lab/pkg/logger"
)

// ContentAnalyzer runs the full per-text detection pipeline: coordinates,
// entities and threat keywords, then the content-policy risk score. All
// detectors are pure functions of the input text, so analyzing the same
// sample twice yields identical findings.
type ContentAnalyzer struct {
	coordinates *CoordinateExtractor
	entities    *EntityExtractor
	keywords    *KeywordClassifier
	scorer      *RiskScorer
	logger      *logger.Logger
}

// NewContentAnalyzer creates a content analyzer with all detectors wired
func NewContentAnalyzer(log *logger.Logger) *ContentAnalyzer {
	return &ContentAnalyzer{
		coordinates: NewCoordinateExtractor(log),
		entities:    NewEntityExtractor(log),
		keywords:    NewKeywordClassifier(log),
		scorer:      NewRiskScorer(log),
		logger:      log.WithComponent("content-analyzer"),
	}
}

// Scorer exposes the shared risk scorer
func (ca *ContentAnalyzer) Scorer() *RiskScorer {
	return ca.scorer
}

// Keywords exposes the keyword classifier
func (ca *ContentAnalyzer) Keywords() *KeywordClassifier {
	return ca.keywords
}

// Analyze runs every detector over one sample. Empty input returns empty
// findings with score 0; nothing here is a hard error.
func (ca *ContentAnalyzer) Analyze(sample models.TextSample) models.ContentAnalysis {
	findings := models.ThreatFindings{
		ID:         uuid.New(),
		MessageID:  sample.MessageID,
		SenderID:   sample.SenderID,
		AnalyzedAt: time.Now(),
	}

	if sample.Text != "" {
		findings.Coordinates = ca.coordinates.Extract(sample.Text)
		findings.Phones = ca.entities.ExtractPhones(sample.Text)
		findings.Crypto = ca.entities.ExtractCrypto(sample.Text)
		findings.Encoded = ca.entities.ExtractEncoded(sample.Text)
		findings.URLs = ca.entities.ExtractURLs(sample.Text)
		findings.Keywords, findings.TierCounts = ca.keywords.Classify(sample)
	} else {
		findings.TierCounts = make(map[models.ThreatTier]int)
	}

	risk := ca.scorer.ScoreContent(findings)

	ca.logger.Debug().
		Str("message_id", sample.MessageID).
		Int("score", risk.Score).
		Str("level", string(risk.Level)).
		Msg("sample analyzed")

	return models.ContentAnalysis{
		Findings: findings,
		Risk:     risk,
	}
}
