package services

import (
	"strings"

	"chatguard-lab/internal/domain/models"
	"chatguard-lab/pkg/logger"
)

// KeywordClassifier matches free text against tiered multilingual threat
// vocabulary (Ukrainian/Russian/English). Matching is substring-based on
// the lowercased text: over-inclusive on purpose, false positives are
// preferred over silent misses.
type KeywordClassifier struct {
	tiers  map[models.ThreatTier][]string
	logger *logger.Logger
}

// NewKeywordClassifier creates a classifier with the built-in keyword tables
func NewKeywordClassifier(log *logger.Logger) *KeywordClassifier {
	return &KeywordClassifier{
		tiers:  threatKeywords,
		logger: log.WithComponent("keyword-classifier"),
	}
}

// threatKeywords holds the fixed tier tables. Loaded once, treated as
// constants; never mutated after init.
var threatKeywords = map[models.ThreatTier][]string{
	models.TierCritical: {
		"бомба", "вибух", "взрыв", "теракт", "вибухівка", "взрывчатка",
		"обстріл", "обстрел", "ракета", "ракетний удар", "ракетный удар",
		"убити", "убить", "вбивство", "убийство", "диверсія", "диверсия",
		"bomb", "explosion", "explosive", "terror attack", "missile strike",
		"assassinate", "detonate",
	},
	models.TierHigh: {
		"зброя", "оружие", "автомат", "гвинтівка", "винтовка", "граната",
		"патрони", "патроны", "боєприпаси", "боеприпасы", "вибуховий пристрій",
		"наркотики", "вербовка", "вербування", "викуп", "выкуп",
		"weapon", "firearm", "grenade", "ammunition", "ammo", "recruitment",
		"ransom", "drugs",
	},
	models.TierMedium: {
		"координати", "координаты", "позиція", "позиция", "розташування",
		"расположение", "блокпост", "техніка", "техника", "військовий",
		"военный", "колона", "колонна", "аеродром", "аэродром",
		"coordinates", "position", "checkpoint", "military", "convoy",
		"airfield", "deployment",
	},
	models.TierLow: {
		"гроші", "деньги", "оплата", "готівка", "наличные", "переказ",
		"перевод", "зустріч", "встреча", "терміново", "срочно", "таємно",
		"тайно", "анонімно", "анонимно",
		"money", "payment", "cash", "transfer", "meeting", "urgent",
		"secret", "anonymous",
	},
}

// Classify returns every matched keyword with its tier plus per-tier counts.
// Message id and sender context are carried through for audit.
func (kc *KeywordClassifier) Classify(sample models.TextSample) ([]models.KeywordMatch, map[models.ThreatTier]int) {
	counts := make(map[models.ThreatTier]int)
	if sample.Text == "" {
		return nil, counts
	}

	lower := strings.ToLower(sample.Text)
	var matches []models.KeywordMatch

	for _, tier := range models.Tiers() {
		for _, keyword := range kc.tiers[tier] {
			if strings.Contains(lower, keyword) {
				matches = append(matches, models.KeywordMatch{
					Tier:      tier,
					Keyword:   keyword,
					MessageID: sample.MessageID,
					SenderID:  sample.SenderID,
				})
				counts[tier]++
			}
		}
	}

	return matches, counts
}

// Vocabulary exposes the keyword tables for the patterns endpoint
func (kc *KeywordClassifier) Vocabulary() map[models.ThreatTier][]string {
	out := make(map[models.ThreatTier][]string, len(kc.tiers))
	for tier, words := range kc.tiers {
		out[tier] = append([]string(nil), words...)
	}
	return out
}
