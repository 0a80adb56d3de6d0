package services

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"chatguard-lab/internal/domain/models"
	"chatguard-lab/pkg/logger"
)

const (
	minBase64Len = 20
	minHexLen    = 32
	previewLen   = 40
)

// EntityExtractor finds phone numbers, cryptocurrency addresses, encoded
// data spans and suspicious URLs in free text. All matching is heuristic:
// the pattern is the validation.
type EntityExtractor struct {
	phonePatterns  map[string]*regexp.Regexp // keyed by country
	cryptoPatterns map[string]*regexp.Regexp // keyed by chain
	base64Pattern  *regexp.Regexp
	hexPattern     *regexp.Regexp
	urlPattern     *regexp.Regexp
	shorteners     map[string]bool
	logger         *logger.Logger
}

// NewEntityExtractor creates a new entity extractor
func NewEntityExtractor(log *logger.Logger) *EntityExtractor {
	return &EntityExtractor{
		phonePatterns: map[string]*regexp.Regexp{
			"UA": regexp.MustCompile(`\+380[\s-]?\d{2}[\s-]?\d{3}[\s-]?\d{2}[\s-]?\d{2}`),
			"RU": regexp.MustCompile(`\+7[\s-]?\d{3}[\s-]?\d{3}[\s-]?\d{2}[\s-]?\d{2}`),
			"US": regexp.MustCompile(`\+1[\s-]?\d{3}[\s-]?\d{3}[\s-]?\d{4}`),
			"PL": regexp.MustCompile(`\+48[\s-]?\d{3}[\s-]?\d{3}[\s-]?\d{3}`),
			"DE": regexp.MustCompile(`\+49[\s-]?\d{3,4}[\s-]?\d{6,8}`),
		},
		cryptoPatterns: map[string]*regexp.Regexp{
			"bitcoin":  regexp.MustCompile(`\b(?:bc1|[13])[a-zA-HJ-NP-Z0-9]{25,39}\b`),
			"ethereum": regexp.MustCompile(`\b0x[a-fA-F0-9]{40}\b`),
			"monero":   regexp.MustCompile(`\b4[0-9AB][1-9A-HJ-NP-Za-km-z]{93}\b`),
			"tron":     regexp.MustCompile(`\bT[1-9A-HJ-NP-Za-km-z]{33}\b`),
		},
		base64Pattern: regexp.MustCompile(`[A-Za-z0-9+/]{20,}={0,2}`),
		hexPattern:    regexp.MustCompile(`\b[a-fA-F0-9]{32,}\b`),
		urlPattern:    regexp.MustCompile(`https?://[^\s<>"']+|www\.[^\s<>"']+`),
		shorteners: map[string]bool{
			"bit.ly": true, "tinyurl.com": true, "t.co": true, "goo.gl": true,
			"ow.ly": true, "is.gd": true, "buff.ly": true, "adf.ly": true,
			"j.mp": true, "rb.gy": true, "cutt.ly": true, "short.io": true,
			"rebrand.ly": true, "bl.ink": true, "soo.gd": true, "s.id": true,
			"clk.sh": true, "shorturl.at": true, "tiny.cc": true, "bc.vc": true,
		},
		logger: log.WithComponent("entity-extractor"),
	}
}

// ExtractPhones returns phone number matches tagged with their country
func (ee *EntityExtractor) ExtractPhones(text string) []models.DetectionMatch {
	if text == "" {
		return nil
	}

	var matches []models.DetectionMatch
	seen := make(map[string]bool)

	for country, pattern := range ee.phonePatterns {
		for _, idx := range pattern.FindAllStringIndex(text, -1) {
			raw := text[idx[0]:idx[1]]
			key := country + ":" + raw
			if seen[key] {
				continue
			}
			seen[key] = true
			matches = append(matches, models.DetectionMatch{
				Category: models.CategoryPhone,
				Subtype:  "number",
				Raw:      raw,
				Start:    idx[0],
				End:      idx[1],
				Country:  country,
			})
		}
	}

	return matches
}

// ExtractCrypto returns cryptocurrency address matches tagged with their
// chain. Address-format heuristics only; checksum verification would need
// chain-specific libraries and stays out of scope.
func (ee *EntityExtractor) ExtractCrypto(text string) []models.DetectionMatch {
	if text == "" {
		return nil
	}

	var matches []models.DetectionMatch
	seen := make(map[string]bool)

	for chain, pattern := range ee.cryptoPatterns {
		for _, idx := range pattern.FindAllStringIndex(text, -1) {
			raw := text[idx[0]:idx[1]]
			key := chain + ":" + raw
			if seen[key] {
				continue
			}
			seen[key] = true
			matches = append(matches, models.DetectionMatch{
				Category: models.CategoryCrypto,
				Subtype:  "address",
				Raw:      raw,
				Start:    idx[0],
				End:      idx[1],
				Chain:    chain,
			})
		}
	}

	return matches
}

// ExtractEncoded returns base64 spans that decoded to printable text and hex
// spans. Hex content is ambiguous (hash? key? ciphertext?) and is reported
// without decoding. Decode failures skip the candidate, never the scan.
func (ee *EntityExtractor) ExtractEncoded(text string) []models.DetectionMatch {
	if text == "" {
		return nil
	}

	var matches []models.DetectionMatch

	for _, idx := range ee.base64Pattern.FindAllStringIndex(text, -1) {
		raw := text[idx[0]:idx[1]]
		if len(raw) < minBase64Len {
			continue
		}
		decoded, ok := tryDecodeBase64(raw)
		if !ok {
			continue
		}
		matches = append(matches, models.DetectionMatch{
			Category: models.CategoryEncoded,
			Subtype:  models.SubtypeBase64,
			Raw:      truncate(raw, previewLen),
			Start:    idx[0],
			End:      idx[1],
			Decoded:  truncate(decoded, previewLen),
		})
	}

	for _, idx := range ee.hexPattern.FindAllStringIndex(text, -1) {
		matches = append(matches, models.DetectionMatch{
			Category: models.CategoryEncoded,
			Subtype:  models.SubtypeHex,
			Raw:      truncate(text[idx[0]:idx[1]], previewLen),
			Start:    idx[0],
			End:      idx[1],
		})
	}

	return matches
}

// ExtractURLs returns only map and shortened URLs. Plain links are noise
// and are not surfaced.
func (ee *EntityExtractor) ExtractURLs(text string) []models.DetectionMatch {
	if text == "" {
		return nil
	}

	var matches []models.DetectionMatch

	for _, idx := range ee.urlPattern.FindAllStringIndex(text, -1) {
		raw := text[idx[0]:idx[1]]

		subtype := ""
		if strings.Contains(strings.ToLower(raw), "maps") {
			subtype = models.SubtypeMapURL
		} else if ee.isShortener(raw) {
			subtype = models.SubtypeShortenedURL
		} else {
			continue
		}

		matches = append(matches, models.DetectionMatch{
			Category: models.CategoryURL,
			Subtype:  subtype,
			Raw:      raw,
			Start:    idx[0],
			End:      idx[1],
		})
	}

	return matches
}

// isShortener checks whether a URL points at a known shortener domain
func (ee *EntityExtractor) isShortener(rawURL string) bool {
	if strings.HasPrefix(rawURL, "www.") {
		rawURL = "https://" + rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return ee.shorteners[strings.ToLower(parsed.Host)]
}

// tryDecodeBase64 attempts a decode and accepts printable-enough output
func tryDecodeBase64(candidate string) (string, bool) {
	data, err := base64.StdEncoding.DecodeString(candidate)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(candidate)
		if err != nil {
			return "", false
		}
	}
	if len(data) <= 5 {
		return "", false
	}

	decoded := string(data)
	printable := 0
	total := 0
	for _, r := range decoded {
		total++
		if unicode.IsPrint(r) || r == '\n' || r == '\t' {
			printable++
		}
	}
	if total == 0 || float64(printable)/float64(total) < 0.85 {
		return "", false
	}

	return decoded, true
}

// truncate shortens a string to a bounded preview
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
