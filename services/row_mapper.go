// backend/services/row_mapper.go
package services

import (
	"encoding/json"
	"log"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/pwalczak/automarket/backend/models"
)

// The row mapper converts one external row (all fields optional strings)
// into a typed Listing. It is pure and deterministic: malformed input
// degrades to absent or zero values, it never rejects a row.

// stripSpaces removes every whitespace rune, tolerating thousands-separated
// numbers like "100 000".
func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// parseOptionalInt returns nil for empty or non-numeric input.
func parseOptionalInt(raw string) *int {
	cleaned := stripSpaces(raw)
	if cleaned == "" {
		return nil
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return nil
	}
	return &n
}

// parseRequiredInt is the variant for price, production year and mileage:
// absent or unparsable input defaults to 0 instead of aborting the row.
func parseRequiredInt(raw string) int {
	if n := parseOptionalInt(raw); n != nil {
		return *n
	}
	return 0
}

func parseOptionalFloat(raw string) *float64 {
	cleaned := strings.ReplaceAll(stripSpaces(raw), ",", ".")
	if cleaned == "" {
		return nil
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &f
}

// splitPipeList splits a pipe-delimited field into trimmed entries.
// Absent or empty input yields an empty list, never nil.
func splitPipeList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, "|")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}

// parseSpecsJSON keeps the specs blob only when it is valid JSON. A
// malformed blob degrades to absent rather than failing the row.
func parseSpecsJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		return ""
	}
	return trimmed
}

var multiNewline = regexp.MustCompile(`\n{3,}`)

// htmlToPlainText converts basic HTML like <br> to newlines and strips other
// tags. Content without markup passes through untouched.
func htmlToPlainText(htmlStr string) string {
	if !strings.Contains(htmlStr, "<") {
		return htmlStr
	}
	text := strings.ReplaceAll(htmlStr, "<br>", "\n")
	text = strings.ReplaceAll(text, "<br />", "\n")
	text = strings.ReplaceAll(text, "<br/>", "\n")
	text = strings.ReplaceAll(text, "</p>", "\n\n")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		log.Printf("WARN Mapper: could not parse HTML for plain text conversion: %v. Returning partially cleaned.", err)
		return strings.TrimSpace(text)
	}

	plain := doc.Text()
	plain = strings.ReplaceAll(plain, "\r\n", "\n")
	plain = strings.ReplaceAll(plain, "\r", "\n")
	plain = multiNewline.ReplaceAllString(plain, "\n\n")
	return strings.TrimSpace(plain)
}

func mapRow(row models.ExternalRow) models.Listing {
	return models.Listing{
		ExternalID:  strings.TrimSpace(row.ListingID),
		VIN:         strings.TrimSpace(row.VIN),
		ListingURL:  strings.TrimSpace(row.ListingURL),
		Marketplace: DetectMarketplace(row.ListingURL),
		ScrapedAt:   strings.TrimSpace(row.ScrapedAt),

		PricePLN:            parseRequiredInt(row.PricePLN),
		PriceDisplay:        strings.TrimSpace(row.PriceDisplay),
		OmnibusLowest30dPLN: parseOptionalInt(row.OmnibusLowest30dPLN),
		OmnibusText:         strings.TrimSpace(row.OmnibusText),

		Make:              strings.TrimSpace(row.Make),
		Model:             strings.TrimSpace(row.Model),
		Version:           strings.TrimSpace(row.Version),
		ProductionYear:    parseRequiredInt(row.ProductionYear),
		MileageKm:         parseRequiredInt(row.MileageKm),
		FuelType:          strings.TrimSpace(row.FuelType),
		Transmission:      strings.TrimSpace(row.Transmission),
		EnginePowerHP:     parseOptionalInt(row.EnginePowerHP),
		EngineCapacityCm3: parseOptionalInt(row.EngineCapacityCm3),
		Drive:             strings.TrimSpace(row.Drive),
		BodyType:          strings.TrimSpace(row.BodyType),
		Doors:             parseOptionalInt(row.Doors),
		Seats:             parseOptionalInt(row.Seats),
		Color:             strings.TrimSpace(row.Color),
		PaintType:         strings.TrimSpace(row.PaintType),

		RegistrationNumber:    strings.TrimSpace(row.RegistrationNumber),
		FirstRegistrationDate: strings.TrimSpace(row.FirstRegistrationDate),

		PrimaryImageURL: strings.TrimSpace(row.PrimaryImageURL),
		ImageCount:      parseOptionalInt(row.ImageCount),
		ImageURLs:       splitPipeList(row.ImageURLs),

		EquipmentAudioMultimedia: splitPipeList(row.EquipmentAudioMultimedia),
		EquipmentSafety:          splitPipeList(row.EquipmentSafety),
		EquipmentComfortExtras:   splitPipeList(row.EquipmentComfortExtras),
		EquipmentOther:           splitPipeList(row.EquipmentOther),

		AdditionalInfoHeader:  strings.TrimSpace(row.AdditionalInfoHeader),
		AdditionalInfoContent: htmlToPlainText(strings.TrimSpace(row.AdditionalInfoContent)),
		SpecsJSON:             parseSpecsJSON(row.SpecsJSON),
	}
}

// MapRowForInsert converts a row into a new Listing with its dealer link.
func MapRowForInsert(row models.ExternalRow, dealerID *int64) models.Listing {
	l := mapRow(row)
	l.DealerID = dealerID
	return l
}

// MapRowForUpdate is the update variant: identical mapping minus the dealer
// link, which is only ever set at creation.
func MapRowForUpdate(row models.ExternalRow) models.Listing {
	return mapRow(row)
}

// DealerFromRow builds the dealer entity embedded in a row. Callers must
// check HasDealerFields first; rows without the natural key leave the
// listing's dealer link unset.
func DealerFromRow(row models.ExternalRow) models.Dealer {
	return models.Dealer{
		Name:         strings.TrimSpace(row.DealerName),
		AddressLine1: strings.TrimSpace(row.DealerAddressLine1),
		AddressLine2: strings.TrimSpace(row.DealerAddressLine2),
		AddressLine3: strings.TrimSpace(row.DealerAddressLine3),
		ContactPhone: strings.TrimSpace(row.ContactPhone),
		GoogleRating: parseOptionalFloat(row.DealerGoogleRating),
		ReviewCount:  parseOptionalInt(row.DealerReviewCount),
		GoogleLink:   strings.TrimSpace(row.DealerGoogleLink),
	}
}

// HasDealerFields reports whether the row carries the dealer natural key.
func HasDealerFields(row models.ExternalRow) bool {
	return strings.TrimSpace(row.DealerName) != "" && strings.TrimSpace(row.DealerAddressLine1) != ""
}
