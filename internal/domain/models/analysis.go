package models

import (
	"time"

	"github.com/google/uuid"
)

// TextSample is the unit of analysis: a text payload plus optional provenance.
// Immutable once created.
type TextSample struct {
	MessageID string    `json:"message_id,omitempty"`
	SenderID  string    `json:"sender_id,omitempty"`
	ReplyToID string    `json:"reply_to_id,omitempty"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// MatchCategory groups detection matches by extractor family
type MatchCategory string

const (
	CategoryCoordinate MatchCategory = "coordinate"
	CategoryThreat     MatchCategory = "threat"
	CategoryPhone      MatchCategory = "phone"
	CategoryCrypto     MatchCategory = "crypto"
	CategoryEncoded    MatchCategory = "encoded"
	CategoryURL        MatchCategory = "url"
)

// Match subtypes per category
const (
	SubtypeDecimal      = "decimal"
	SubtypeDMS          = "dms"
	SubtypeMapLink      = "map_link"
	SubtypeMapLinkShort = "map_link_short"
	SubtypeGridRef      = "grid_reference"

	SubtypeBase64 = "base64"
	SubtypeHex    = "hex"

	SubtypeMapURL       = "map"
	SubtypeShortenedURL = "shortened"
)

// Coordinate is a normalized decimal latitude/longitude pair
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DetectionMatch is one hit from an extractor. Parsed fields are populated
// only when normalization succeeds; a failed parse keeps the raw value.
type DetectionMatch struct {
	Category MatchCategory `json:"category"`
	Subtype  string        `json:"subtype"`
	Raw      string        `json:"raw"`
	Start    int           `json:"start"`
	End      int           `json:"end"`

	Coordinate *Coordinate `json:"coordinate,omitempty"`
	Country    string      `json:"country,omitempty"`
	Chain      string      `json:"chain,omitempty"`
	Decoded    string      `json:"decoded,omitempty"`
}

// Parsed reports whether normalization succeeded for this match
func (m DetectionMatch) Parsed() bool {
	switch m.Category {
	case CategoryCoordinate:
		return m.Coordinate != nil
	case CategoryEncoded:
		return m.Decoded != ""
	default:
		return true
	}
}

// ThreatTier is the severity bucket for threat vocabulary
type ThreatTier string

const (
	TierCritical ThreatTier = "critical"
	TierHigh     ThreatTier = "high"
	TierMedium   ThreatTier = "medium"
	TierLow      ThreatTier = "low"
)

// Tiers lists all tiers from most to least severe
func Tiers() []ThreatTier {
	return []ThreatTier{TierCritical, TierHigh, TierMedium, TierLow}
}

// KeywordMatch is one matched threat keyword with its originating context
type KeywordMatch struct {
	Tier      ThreatTier `json:"tier"`
	Keyword   string     `json:"keyword"`
	MessageID string     `json:"message_id,omitempty"`
	SenderID  string     `json:"sender_id,omitempty"`
}

// ThreatFindings aggregates all detection matches for one TextSample
type ThreatFindings struct {
	ID        uuid.UUID `json:"id"`
	MessageID string    `json:"message_id,omitempty"`
	SenderID  string    `json:"sender_id,omitempty"`

	Coordinates []DetectionMatch `json:"coordinates,omitempty"`
	Phones      []DetectionMatch `json:"phones,omitempty"`
	Crypto      []DetectionMatch `json:"crypto,omitempty"`
	Encoded     []DetectionMatch `json:"encoded,omitempty"`
	URLs        []DetectionMatch `json:"urls,omitempty"`

	Keywords   []KeywordMatch     `json:"keywords,omitempty"`
	TierCounts map[ThreatTier]int `json:"tier_counts,omitempty"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}

// Empty reports whether nothing was detected
func (f ThreatFindings) Empty() bool {
	return len(f.Coordinates) == 0 && len(f.Phones) == 0 && len(f.Crypto) == 0 &&
		len(f.Encoded) == 0 && len(f.URLs) == 0 && len(f.Keywords) == 0
}

// TierCount returns the number of keyword matches in a tier
func (f ThreatFindings) TierCount(tier ThreatTier) int {
	if f.TierCounts == nil {
		return 0
	}
	return f.TierCounts[tier]
}
