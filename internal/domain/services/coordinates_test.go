package services_test

import (
	"math"
	"testing"

	"chatguard-lab/internal/domain/models"
	"chatguard-lab/internal/domain/services"
)

func TestExtractDecimalPair(t *testing.T) {
	ce := services.NewCoordinateExtractor(testLogger())

	matches := ce.Extract("target at 50.4501, 30.5234 confirmed")
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}

	m := matches[0]
	if m.Subtype != models.SubtypeDecimal {
		t.Errorf("subtype = %q, want %q", m.Subtype, models.SubtypeDecimal)
	}
	if m.Coordinate == nil {
		t.Fatal("expected parsed coordinate")
	}
	if m.Coordinate.Lat != 50.4501 || m.Coordinate.Lon != 30.5234 {
		t.Errorf("coordinate = %+v, want {50.4501 30.5234}", *m.Coordinate)
	}
}

func TestExtractDMS(t *testing.T) {
	ce := services.NewCoordinateExtractor(testLogger())

	tests := []struct {
		name     string
		text     string
		wantLat  float64
		wantLon  float64
	}{
		{
			name:    "northern eastern",
			text:    `50°27'00"N 30°31'24"E`,
			wantLat: 50.45,
			wantLon: 30.523333,
		},
		{
			name:    "southern western",
			text:    `10°30'00"S, 20°15'00"W`,
			wantLat: -10.5,
			wantLon: -20.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := ce.Extract(tt.text)
			if len(matches) != 1 {
				t.Fatalf("expected 1 match, got %d", len(matches))
			}
			m := matches[0]
			if m.Subtype != models.SubtypeDMS {
				t.Errorf("subtype = %q, want %q", m.Subtype, models.SubtypeDMS)
			}
			if m.Coordinate == nil {
				t.Fatal("expected parsed coordinate")
			}
			if math.Abs(m.Coordinate.Lat-tt.wantLat) > 0.001 {
				t.Errorf("lat = %f, want %f", m.Coordinate.Lat, tt.wantLat)
			}
			if math.Abs(m.Coordinate.Lon-tt.wantLon) > 0.001 {
				t.Errorf("lon = %f, want %f", m.Coordinate.Lon, tt.wantLon)
			}
		})
	}
}

func TestExtractDMSOutOfRangeMinutes(t *testing.T) {
	ce := services.NewCoordinateExtractor(testLogger())

	// 75 minutes is not a valid DMS component: the match is still reported
	// but must not carry a normalized coordinate
	matches := ce.Extract(`10°75'00"N 20°15'00"E`)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Coordinate != nil {
		t.Errorf("expected nil coordinate for out-of-range minutes, got %+v", *matches[0].Coordinate)
	}
	if matches[0].Parsed() {
		t.Error("Parsed() should be false for unnormalized match")
	}
}

func TestExtractMapLink(t *testing.T) {
	ce := services.NewCoordinateExtractor(testLogger())

	matches := ce.Extract("see https://www.google.com/maps/@50.4501,30.5234,12z here")
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d: %+v", len(matches), matches)
	}
	m := matches[0]
	if m.Subtype != models.SubtypeMapLink {
		t.Errorf("subtype = %q, want %q", m.Subtype, models.SubtypeMapLink)
	}
	if m.Coordinate == nil || m.Coordinate.Lat != 50.4501 || m.Coordinate.Lon != 30.5234 {
		t.Errorf("coordinate not extracted from map link: %+v", m.Coordinate)
	}
}

func TestExtractShortenedMapLink(t *testing.T) {
	ce := services.NewCoordinateExtractor(testLogger())

	matches := ce.Extract("location: https://maps.app.goo.gl/AbC123xyz")
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Subtype != models.SubtypeMapLinkShort {
		t.Errorf("subtype = %q, want %q", matches[0].Subtype, models.SubtypeMapLinkShort)
	}
	if matches[0].Coordinate != nil {
		t.Error("shortened link must not carry a coordinate")
	}
}

func TestExtractGridReference(t *testing.T) {
	ce := services.NewCoordinateExtractor(testLogger())

	matches := ce.Extract("grid 37UDQ 1234567890 over")
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Subtype != models.SubtypeGridRef {
		t.Errorf("subtype = %q, want %q", matches[0].Subtype, models.SubtypeGridRef)
	}
	if matches[0].Coordinate != nil {
		t.Error("grid reference must not carry a coordinate")
	}
}

func TestExtractNoCoordinates(t *testing.T) {
	ce := services.NewCoordinateExtractor(testLogger())

	for _, text := range []string{"", "hello world", "call me at 5 pm", "version 1.2"} {
		if matches := ce.Extract(text); len(matches) != 0 {
			t.Errorf("Extract(%q) = %d matches, want 0", text, len(matches))
		}
	}
}

func TestExtractMixedValidAndNoise(t *testing.T) {
	ce := services.NewCoordinateExtractor(testLogger())

	matches := ce.Extract("49.8397, 24.0297 and some °'\" garbage and 48.4647, 35.0462")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	for _, m := range matches {
		if m.Coordinate == nil {
			t.Errorf("match %q should have parsed", m.Raw)
		}
	}
}
