package services_test

import (
	"testing"

	"chatguard-lab/internal/domain/models"
	"chatguard-lab/internal/domain/services"
)

func TestExtractPhones(t *testing.T) {
	ee := services.NewEntityExtractor(testLogger())

	tests := []struct {
		name        string
		text        string
		wantCountry string
	}{
		{"ukrainian", "дзвони +380 67 123 45 67 завтра", "UA"},
		{"russian", "контакт +7 912 345 67 89", "RU"},
		{"us", "call +1 555 123 4567", "US"},
		{"polish", "tel +48 123 456 789", "PL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := ee.ExtractPhones(tt.text)
			if len(matches) != 1 {
				t.Fatalf("expected 1 match, got %d", len(matches))
			}
			if matches[0].Country != tt.wantCountry {
				t.Errorf("country = %q, want %q", matches[0].Country, tt.wantCountry)
			}
			if matches[0].Category != models.CategoryPhone {
				t.Errorf("category = %q, want %q", matches[0].Category, models.CategoryPhone)
			}
		})
	}
}

func TestExtractPhonesNone(t *testing.T) {
	ee := services.NewEntityExtractor(testLogger())

	if matches := ee.ExtractPhones("no numbers here, just 12345"); len(matches) != 0 {
		t.Errorf("expected 0 matches, got %d", len(matches))
	}
}

func TestExtractCrypto(t *testing.T) {
	ee := services.NewEntityExtractor(testLogger())

	tests := []struct {
		name      string
		text      string
		wantChain string
	}{
		{"bitcoin", "send to 1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", "bitcoin"},
		{"ethereum", "wallet 0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "ethereum"},
		{"tron", "usdt TJRabPrwbZy45sbavfcjinPJC18kjpRTv8", "tron"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := ee.ExtractCrypto(tt.text)
			if len(matches) != 1 {
				t.Fatalf("expected 1 match, got %d: %+v", len(matches), matches)
			}
			if matches[0].Chain != tt.wantChain {
				t.Errorf("chain = %q, want %q", matches[0].Chain, tt.wantChain)
			}
		})
	}
}

func TestExtractCryptoDeduplicates(t *testing.T) {
	ee := services.NewEntityExtractor(testLogger())

	text := "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa again 1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
	matches := ee.ExtractCrypto(text)
	if len(matches) != 1 {
		t.Errorf("expected repeated address reported once, got %d matches", len(matches))
	}
}

func TestExtractEncodedBase64(t *testing.T) {
	ee := services.NewEntityExtractor(testLogger())

	matches := ee.ExtractEncoded("payload: SGVsbG8gV29ybGQgdGhpcyBpcyBhIHRlc3Q=")
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	m := matches[0]
	if m.Subtype != models.SubtypeBase64 {
		t.Errorf("subtype = %q, want %q", m.Subtype, models.SubtypeBase64)
	}
	if m.Decoded != "Hello World this is a test" {
		t.Errorf("decoded = %q, want %q", m.Decoded, "Hello World this is a test")
	}
}

func TestExtractEncodedInvalidBase64Skipped(t *testing.T) {
	ee := services.NewEntityExtractor(testLogger())

	// 21 characters: invalid base64 length, too short for hex. The candidate
	// is dropped without aborting the scan.
	matches := ee.ExtractEncoded("noise aaaaaaaaaaaaaaaaaaaaa end")
	if len(matches) != 0 {
		t.Errorf("expected 0 matches, got %d: %+v", len(matches), matches)
	}
}

func TestExtractEncodedHex(t *testing.T) {
	ee := services.NewEntityExtractor(testLogger())

	matches := ee.ExtractEncoded("hash d41d8cd98f00b204e9800998ecf8427e found")

	var hexMatches []models.DetectionMatch
	for _, m := range matches {
		if m.Subtype == models.SubtypeHex {
			hexMatches = append(hexMatches, m)
		}
	}
	if len(hexMatches) != 1 {
		t.Fatalf("expected 1 hex match, got %d", len(hexMatches))
	}
	if hexMatches[0].Decoded != "" {
		t.Error("hex content must be reported without decoding")
	}
}

func TestExtractEncodedTruncatesPreview(t *testing.T) {
	ee := services.NewEntityExtractor(testLogger())

	// 64 hex characters: preview must be bounded at 40 plus ellipsis
	matches := ee.ExtractEncoded("d41d8cd98f00b204e9800998ecf8427ed41d8cd98f00b204e9800998ecf8427e")

	found := false
	for _, m := range matches {
		if m.Subtype == models.SubtypeHex {
			found = true
			if len(m.Raw) != 43 { // 40 chars + "..."
				t.Errorf("preview length = %d, want 43", len(m.Raw))
			}
		}
	}
	if !found {
		t.Fatal("expected a hex match")
	}
}

func TestExtractURLs(t *testing.T) {
	ee := services.NewEntityExtractor(testLogger())

	text := "see https://maps.google.com/foo and https://bit.ly/abc and https://example.com/page"
	matches := ee.ExtractURLs(text)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches (plain links skipped), got %d", len(matches))
	}

	subtypes := map[string]bool{}
	for _, m := range matches {
		subtypes[m.Subtype] = true
	}
	if !subtypes[models.SubtypeMapURL] {
		t.Error("expected a map URL match")
	}
	if !subtypes[models.SubtypeShortenedURL] {
		t.Error("expected a shortened URL match")
	}
}

func TestExtractURLsEmptyInput(t *testing.T) {
	ee := services.NewEntityExtractor(testLogger())

	if matches := ee.ExtractURLs(""); matches != nil {
		t.Errorf("expected nil for empty input, got %v", matches)
	}
}
