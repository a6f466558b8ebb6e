package ingest

import (
	"strings"
	"testing"
)

func TestParseListingsCsv(t *testing.T) {
	csvData := strings.Join([]string{
		"listing_id,listing_url,vin,make,model,price_pln,image_urls,equipment_safety,specs_json",
		`ext-1,https://www.otomoto.pl/oferta/a4,WAUZZZ8K9BA123456,Audi,A4,100 000,https://img/1.jpg|https://img/2.jpg,ABS|ESP,"{""gearbox"":""manual""}"`,
		"ext-2,https://m.olx.pl/d/oferta/golf,,Volkswagen,Golf,25000,,,",
	}, "\n")

	rows, err := ParseListingsCsv(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseListingsCsv returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("parsed %d rows; want 2", len(rows))
	}

	first := rows[0]
	if first.ListingID != "ext-1" || first.VIN != "WAUZZZ8K9BA123456" {
		t.Errorf("identity fields not decoded: %+v", first)
	}
	if first.PricePLN != "100 000" {
		t.Errorf("PricePLN = %q; parser must not coerce values", first.PricePLN)
	}
	if first.ImageURLs != "https://img/1.jpg|https://img/2.jpg" {
		t.Errorf("ImageURLs = %q; pipe-delimited value must pass through raw", first.ImageURLs)
	}
	if first.SpecsJSON != `{"gearbox":"manual"}` {
		t.Errorf("SpecsJSON = %q", first.SpecsJSON)
	}

	second := rows[1]
	if second.VIN != "" || second.EquipmentSafety != "" {
		t.Errorf("absent columns must decode to empty strings: %+v", second)
	}
	// Columns not present in the header stay zero-valued.
	if second.DealerName != "" || second.ProductionYear != "" {
		t.Errorf("missing columns must stay empty: %+v", second)
	}
}

func TestParseListingsCsvEmptyBody(t *testing.T) {
	rows, err := ParseListingsCsv(strings.NewReader("listing_id,vin\n"))
	if err != nil {
		t.Fatalf("ParseListingsCsv returned error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("parsed %d rows from header-only input; want 0", len(rows))
	}
}
