package services

import (
	"context"
	"fmt"
	"strings"

	"chatguard-lab/internal/domain/models"
	"chatguard-lab/pkg/logger"
)

// NarrativeGenerator is the optional AI augmentation boundary. The engine
// works fully without one; any error means the narrative is simply absent.
type NarrativeGenerator interface {
	GenerateNarrative(ctx context.Context, summary, excerpt string) (string, error)
}

// ReportSynthesizer assembles the structured report and renders the fixed
// text form. The deterministic part is always produced first; the AI
// narrative is attached afterwards when available.
type ReportSynthesizer struct {
	narrative    NarrativeGenerator // nil when unconfigured
	previewItems int
	logger       *logger.Logger
}

// NewReportSynthesizer creates a synthesizer. narrative may be nil.
func NewReportSynthesizer(narrative NarrativeGenerator, previewItems int, log *logger.Logger) *ReportSynthesizer {
	if previewItems <= 0 {
		previewItems = 5
	}
	return &ReportSynthesizer{
		narrative:    narrative,
		previewItems: previewItems,
		logger:       log.WithComponent("report-synthesizer"),
	}
}

// Synthesize renders the formatted report onto an already-built ThreatReport
// and, when a generator is configured, augments it with an AI narrative.
// Narrative failure never fails the report.
func (rs *ReportSynthesizer) Synthesize(ctx context.Context, report *models.ThreatReport, excerpt string) {
	report.FormattedReport = rs.formatReport(report)

	if rs.narrative == nil {
		return
	}

	narrative, err := rs.narrative.GenerateNarrative(ctx, rs.buildSummary(report), excerpt)
	if err != nil {
		rs.logger.Warn().Err(err).Msg("narrative unavailable, using deterministic report only")
		return
	}
	report.AINarrative = narrative

	// re-render so the narrative section appears in the text form
	report.FormattedReport = rs.formatReport(report)
}

// formatReport renders the fixed-structure text report. Section order is
// fixed: coordinates, threats, phones, crypto, risk banner, narrative.
func (rs *ReportSynthesizer) formatReport(report *models.ThreatReport) string {
	var sb strings.Builder

	sb.WriteString("=== THREAT ANALYSIS REPORT ===\n")
	if report.ChatID != "" {
		sb.WriteString(fmt.Sprintf("Chat: %s\n", report.ChatID))
	}
	sb.WriteString(fmt.Sprintf("Messages analyzed: %d\n", len(report.Messages)))

	coords := rs.collectRaw(report, models.CategoryCoordinate)
	sb.WriteString(fmt.Sprintf("\n[Coordinates] %d match(es)\n", len(coords)))
	rs.writePreview(&sb, coords)

	keywords := rs.collectKeywords(report)
	sb.WriteString(fmt.Sprintf("\n[Threat keywords] %d match(es)\n", len(keywords)))
	rs.writePreview(&sb, keywords)

	phones := rs.collectRaw(report, models.CategoryPhone)
	sb.WriteString(fmt.Sprintf("\n[Phone numbers] %d match(es)\n", len(phones)))
	rs.writePreview(&sb, phones)

	crypto := rs.collectRaw(report, models.CategoryCrypto)
	sb.WriteString(fmt.Sprintf("\n[Crypto addresses] %d match(es)\n", len(crypto)))
	rs.writePreview(&sb, crypto)

	sb.WriteString(fmt.Sprintf("\n[RISK] score=%d level=%s\n", report.Risk.Score, strings.ToUpper(string(report.Risk.Level))))
	if report.Risk.Recommendation != "" {
		sb.WriteString(report.Risk.Recommendation + "\n")
	}

	if report.AINarrative != "" {
		sb.WriteString("\n[AI narrative]\n")
		sb.WriteString(report.AINarrative + "\n")
	}

	return sb.String()
}

// writePreview writes a bounded list preview
func (rs *ReportSynthesizer) writePreview(sb *strings.Builder, items []string) {
	limit := len(items)
	if limit > rs.previewItems {
		limit = rs.previewItems
	}
	for _, item := range items[:limit] {
		sb.WriteString("  - " + item + "\n")
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// collectRaw gathers raw values for one category across all messages
func (rs *ReportSynthesizer) collectRaw(report *models.ThreatReport, category models.MatchCategory) []string {
	var out []string
	for _, msg := range report.Messages {
		var matches []models.DetectionMatch
		switch category {
		case models.CategoryCoordinate:
			matches = msg.Findings.Coordinates
		case models.CategoryPhone:
			matches = msg.Findings.Phones
		case models.CategoryCrypto:
			matches = msg.Findings.Crypto
		case models.CategoryEncoded:
			matches = msg.Findings.Encoded
		case models.CategoryURL:
			matches = msg.Findings.URLs
		}
		for _, m := range matches {
			out = append(out, m.Raw)
		}
	}
	return out
}

// collectKeywords gathers tier-tagged keyword hits across all messages
func (rs *ReportSynthesizer) collectKeywords(report *models.ThreatReport) []string {
	var out []string
	for _, msg := range report.Messages {
		for _, kw := range msg.Findings.Keywords {
			out = append(out, fmt.Sprintf("%s (%s)", kw.Keyword, kw.Tier))
		}
	}
	return out
}

// buildSummary produces the deterministic summary handed to the narrative
// generator. It carries counts only, never full message content.
func (rs *ReportSynthesizer) buildSummary(report *models.ThreatReport) string {
	tierTotals := make(map[models.ThreatTier]int)
	coordCount, phoneCount, cryptoCount, encodedCount, urlCount := 0, 0, 0, 0, 0

	for _, msg := range report.Messages {
		for tier, n := range msg.Findings.TierCounts {
			tierTotals[tier] += n
		}
		coordCount += len(msg.Findings.Coordinates)
		phoneCount += len(msg.Findings.Phones)
		cryptoCount += len(msg.Findings.Crypto)
		encodedCount += len(msg.Findings.Encoded)
		urlCount += len(msg.Findings.URLs)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("messages=%d risk_score=%d risk_level=%s\n",
		len(report.Messages), report.Risk.Score, report.Risk.Level))
	sb.WriteString(fmt.Sprintf("keywords: critical=%d high=%d medium=%d low=%d\n",
		tierTotals[models.TierCritical], tierTotals[models.TierHigh],
		tierTotals[models.TierMedium], tierTotals[models.TierLow]))
	sb.WriteString(fmt.Sprintf("coordinates=%d phones=%d crypto=%d encoded=%d urls=%d\n",
		coordCount, phoneCount, cryptoCount, encodedCount, urlCount))
	if report.Graph != nil {
		sb.WriteString(fmt.Sprintf("participants=%d central=%d isolated=%d\n",
			len(report.Graph.Nodes), len(report.Graph.CentralNodes), len(report.Graph.IsolatedNodes)))
	}
	return sb.String()
}
