package services

import (
	"regexp"
	"strconv"

	"chatguard-lab/internal/domain/models"
	"chatguard-lab/pkg/logger"
)

// CoordinateExtractor finds geographic coordinates in free text and
// normalizes them to decimal latitude/longitude where parseable.
type CoordinateExtractor struct {
	decimalPair  *regexp.Regexp
	dmsPair      *regexp.Regexp
	mapLink      *regexp.Regexp
	mapLinkShort *regexp.Regexp
	gridRef      *regexp.Regexp
	logger       *logger.Logger
}

// NewCoordinateExtractor creates a new coordinate extractor
func NewCoordinateExtractor(log *logger.Logger) *CoordinateExtractor {
	return &CoordinateExtractor{
		// Decimal degree pairs: at least 4 decimal places on each side
		decimalPair: regexp.MustCompile(`(-?\d{1,3}\.\d{4,})[,\s]+(-?\d{1,3}\.\d{4,})`),

		// Degrees-minutes-seconds with hemisphere letters
		dmsPair: regexp.MustCompile(`(\d{1,3})°\s*(\d{1,2})['′]\s*(\d{1,2}(?:\.\d+)?)["″]?\s*([NSns])[,;\s]+(\d{1,3})°\s*(\d{1,2})['′]\s*(\d{1,2}(?:\.\d+)?)["″]?\s*([EWew])`),

		// Map links embedding @lat,lon
		mapLink: regexp.MustCompile(`https?://[^\s]*maps[^\s]*@(-?\d{1,3}\.\d+),(-?\d{1,3}\.\d+)`),

		// Shortened map links hide the destination; flagged but not parseable
		mapLinkShort: regexp.MustCompile(`https?://(?:goo\.gl/maps|maps\.app\.goo\.gl)/[^\s]+`),

		// MGRS-like grid references; no geodesy library in scope, so never parsed
		gridRef: regexp.MustCompile(`\b\d{1,2}[C-HJ-NP-X][A-HJ-NP-Z]{2}\s?\d{4,10}\b`),

		logger: log.WithComponent("coordinate-extractor"),
	}
}

// Extract applies the match families in priority order and returns every hit.
// A match that fails normalization is still emitted with its raw value.
func (ce *CoordinateExtractor) Extract(text string) []models.DetectionMatch {
	if text == "" {
		return nil
	}

	var matches []models.DetectionMatch

	// 1. Decimal degree pairs
	for _, idx := range ce.decimalPair.FindAllStringSubmatchIndex(text, -1) {
		// a pair glued to '@' belongs to a map link, handled below
		if idx[0] > 0 && text[idx[0]-1] == '@' {
			continue
		}
		m := models.DetectionMatch{
			Category: models.CategoryCoordinate,
			Subtype:  models.SubtypeDecimal,
			Raw:      text[idx[0]:idx[1]],
			Start:    idx[0],
			End:      idx[1],
		}
		lat, errLat := strconv.ParseFloat(text[idx[2]:idx[3]], 64)
		lon, errLon := strconv.ParseFloat(text[idx[4]:idx[5]], 64)
		if errLat == nil && errLon == nil {
			m.Coordinate = &models.Coordinate{Lat: lat, Lon: lon}
		} else {
			ce.logger.Debug().Str("raw", m.Raw).Msg("decimal pair did not parse")
		}
		matches = append(matches, m)
	}

	// 2. DMS pairs
	for _, idx := range ce.dmsPair.FindAllStringSubmatchIndex(text, -1) {
		m := models.DetectionMatch{
			Category: models.CategoryCoordinate,
			Subtype:  models.SubtypeDMS,
			Raw:      text[idx[0]:idx[1]],
			Start:    idx[0],
			End:      idx[1],
		}
		lat, okLat := dmsToDecimal(text[idx[2]:idx[3]], text[idx[4]:idx[5]], text[idx[6]:idx[7]], text[idx[8]:idx[9]])
		lon, okLon := dmsToDecimal(text[idx[10]:idx[11]], text[idx[12]:idx[13]], text[idx[14]:idx[15]], text[idx[16]:idx[17]])
		if okLat && okLon {
			m.Coordinate = &models.Coordinate{Lat: lat, Lon: lon}
		} else {
			ce.logger.Debug().Str("raw", m.Raw).Msg("DMS pair did not parse")
		}
		matches = append(matches, m)
	}

	// 3. Map links
	for _, idx := range ce.mapLink.FindAllStringSubmatchIndex(text, -1) {
		m := models.DetectionMatch{
			Category: models.CategoryCoordinate,
			Subtype:  models.SubtypeMapLink,
			Raw:      text[idx[0]:idx[1]],
			Start:    idx[0],
			End:      idx[1],
		}
		lat, errLat := strconv.ParseFloat(text[idx[2]:idx[3]], 64)
		lon, errLon := strconv.ParseFloat(text[idx[4]:idx[5]], 64)
		if errLat == nil && errLon == nil {
			m.Coordinate = &models.Coordinate{Lat: lat, Lon: lon}
		}
		matches = append(matches, m)
	}

	for _, idx := range ce.mapLinkShort.FindAllStringIndex(text, -1) {
		matches = append(matches, models.DetectionMatch{
			Category: models.CategoryCoordinate,
			Subtype:  models.SubtypeMapLinkShort,
			Raw:      text[idx[0]:idx[1]],
			Start:    idx[0],
			End:      idx[1],
		})
	}

	// 4. Grid references
	for _, idx := range ce.gridRef.FindAllStringIndex(text, -1) {
		matches = append(matches, models.DetectionMatch{
			Category: models.CategoryCoordinate,
			Subtype:  models.SubtypeGridRef,
			Raw:      text[idx[0]:idx[1]],
			Start:    idx[0],
			End:      idx[1],
		})
	}

	return matches
}

// dmsToDecimal converts one degrees-minutes-seconds component to decimal
// degrees, negated for southern/western hemispheres.
func dmsToDecimal(degStr, minStr, secStr, hemisphere string) (float64, bool) {
	deg, err := strconv.ParseFloat(degStr, 64)
	if err != nil {
		return 0, false
	}
	min, err := strconv.ParseFloat(minStr, 64)
	if err != nil {
		return 0, false
	}
	sec, err := strconv.ParseFloat(secStr, 64)
	if err != nil {
		return 0, false
	}
	if min >= 60 || sec >= 60 {
		return 0, false
	}

	value := deg + min/60 + sec/3600
	switch hemisphere {
	case "S", "s", "W", "w":
		value = -value
	}
	return value, true
}
