package services_test

import (
	"testing"

	"chatguard-lab/internal/domain/models"
	"chatguard-lab/internal/domain/services"
)

func TestAnalyzeEmptyText(t *testing.T) {
	ca := services.NewContentAnalyzer(testLogger())

	result := ca.Analyze(models.TextSample{Text: ""})

	if !result.Findings.Empty() {
		t.Error("empty text must yield empty findings")
	}
	if result.Risk.Score != 0 {
		t.Errorf("score = %d, want 0", result.Risk.Score)
	}
	if result.Risk.Level != models.RiskLevelLow {
		t.Errorf("level = %s, want low", result.Risk.Level)
	}
	if result.Findings.TierCounts == nil {
		t.Error("tier counts map must be initialized")
	}
}

func TestAnalyzeFullPipeline(t *testing.T) {
	ca := services.NewContentAnalyzer(testLogger())

	text := "бомба at 50.4501, 30.5234 call +380 67 123 45 67 pay 1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
	result := ca.Analyze(models.TextSample{MessageID: "m1", SenderID: "u1", Text: text})

	f := result.Findings
	if len(f.Coordinates) != 1 {
		t.Errorf("coordinates = %d, want 1", len(f.Coordinates))
	}
	if len(f.Phones) != 1 {
		t.Errorf("phones = %d, want 1", len(f.Phones))
	}
	if len(f.Crypto) != 1 {
		t.Errorf("crypto = %d, want 1", len(f.Crypto))
	}
	if f.TierCount(models.TierCritical) != 1 {
		t.Errorf("critical keywords = %d, want 1", f.TierCount(models.TierCritical))
	}

	// 25 (critical) + 20 (coordinate) + 5 (phone) + 10 (crypto) = 60
	if result.Risk.Score != 60 {
		t.Errorf("score = %d, want 60", result.Risk.Score)
	}
	if result.Risk.Level != models.RiskLevelHigh {
		t.Errorf("level = %s, want high", result.Risk.Level)
	}

	if f.MessageID != "m1" || f.SenderID != "u1" {
		t.Errorf("provenance not carried: %+v", f)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	ca := services.NewContentAnalyzer(testLogger())

	sample := models.TextSample{Text: "weapon near 49.8397, 24.0297"}
	first := ca.Analyze(sample)
	second := ca.Analyze(sample)

	if first.Risk != second.Risk {
		t.Errorf("risk differs across runs: %+v vs %+v", first.Risk, second.Risk)
	}
	if len(first.Findings.Coordinates) != len(second.Findings.Coordinates) {
		t.Error("coordinate findings differ across runs")
	}
}
