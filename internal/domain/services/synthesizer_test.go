package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chatguard-lab/internal/domain/models"
	"chatguard-lab/internal/domain/services"
)

type stubNarrative struct {
	text string
	err  error
}

func (s stubNarrative) GenerateNarrative(ctx context.Context, summary, excerpt string) (string, error) {
	return s.text, s.err
}

func reportWithFindings() *models.ThreatReport {
	return &models.ThreatReport{
		ChatID: "chat-1",
		Messages: []models.ContentAnalysis{
			{
				Findings: models.ThreatFindings{
					Coordinates: []models.DetectionMatch{{Raw: "50.4501, 30.5234"}},
					Phones:      []models.DetectionMatch{{Raw: "+380671234567"}},
					Crypto:      []models.DetectionMatch{{Raw: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"}},
					Keywords:    []models.KeywordMatch{{Tier: models.TierCritical, Keyword: "bomb"}},
				},
			},
		},
		Risk: models.RiskScore{Score: 60, Level: models.RiskLevelHigh, Recommendation: "review"},
	}
}

func TestSynthesizeWithoutGenerator(t *testing.T) {
	rs := services.NewReportSynthesizer(nil, 0, testLogger())

	report := reportWithFindings()
	rs.Synthesize(context.Background(), report, "excerpt")

	if report.FormattedReport == "" {
		t.Fatal("formatted report must be rendered without a generator")
	}
	if report.AINarrative != "" {
		t.Error("AINarrative must be empty without a generator")
	}
}

func TestSynthesizeGeneratorFailureFallsBack(t *testing.T) {
	rs := services.NewReportSynthesizer(stubNarrative{err: errors.New("provider down")}, 0, testLogger())

	report := reportWithFindings()
	rs.Synthesize(context.Background(), report, "excerpt")

	if report.FormattedReport == "" {
		t.Fatal("deterministic report must survive narrative failure")
	}
	if report.AINarrative != "" {
		t.Error("failed narrative must not be attached")
	}
	if strings.Contains(report.FormattedReport, "[AI narrative]") {
		t.Error("narrative section must be absent on failure")
	}
}

func TestSynthesizeAttachesNarrative(t *testing.T) {
	rs := services.NewReportSynthesizer(stubNarrative{text: "analyst summary here"}, 0, testLogger())

	report := reportWithFindings()
	rs.Synthesize(context.Background(), report, "excerpt")

	if report.AINarrative != "analyst summary here" {
		t.Errorf("AINarrative = %q", report.AINarrative)
	}
	if !strings.Contains(report.FormattedReport, "[AI narrative]") {
		t.Error("narrative section missing from formatted report")
	}
	if !strings.Contains(report.FormattedReport, "analyst summary here") {
		t.Error("narrative text missing from formatted report")
	}
}

func TestSynthesizeSectionOrder(t *testing.T) {
	rs := services.NewReportSynthesizer(nil, 0, testLogger())

	report := reportWithFindings()
	rs.Synthesize(context.Background(), report, "")

	out := report.FormattedReport
	sections := []string{"[Coordinates]", "[Threat keywords]", "[Phone numbers]", "[Crypto addresses]", "[RISK]"}
	last := -1
	for _, section := range sections {
		idx := strings.Index(out, section)
		if idx < 0 {
			t.Fatalf("section %s missing from report:\n%s", section, out)
		}
		if idx < last {
			t.Errorf("section %s out of order", section)
		}
		last = idx
	}
}

func TestSynthesizePreviewBounded(t *testing.T) {
	rs := services.NewReportSynthesizer(nil, 5, testLogger())

	report := &models.ThreatReport{Messages: []models.ContentAnalysis{{}}}
	for i := 0; i < 7; i++ {
		report.Messages[0].Findings.Coordinates = append(report.Messages[0].Findings.Coordinates,
			models.DetectionMatch{Raw: "50.0000, 30.0000"})
	}

	rs.Synthesize(context.Background(), report, "")
	if !strings.Contains(report.FormattedReport, "... and 2 more") {
		t.Errorf("expected bounded preview with overflow marker:\n%s", report.FormattedReport)
	}
}

func TestSynthesizeEmptyReport(t *testing.T) {
	rs := services.NewReportSynthesizer(nil, 0, testLogger())

	report := &models.ThreatReport{}
	rs.Synthesize(context.Background(), report, "")

	if !strings.Contains(report.FormattedReport, "[Coordinates] 0 match(es)") {
		t.Error("empty report must still render all sections")
	}
}
