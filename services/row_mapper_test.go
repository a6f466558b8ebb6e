package services

import (
	"reflect"
	"testing"

	"github.com/pwalczak/automarket/backend/models"
)

func TestParseRequiredInt(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"100 000", 100000},
		{"100000", 100000},
		{" 95 000 ", 95000},
		{"", 0},
		{"abc", 0},
		{"12x3", 0},
		{"2019", 2019},
	}

	for _, tt := range tests {
		got := parseRequiredInt(tt.raw)
		if got != tt.want {
			t.Errorf("parseRequiredInt(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestParseOptionalInt(t *testing.T) {
	tests := []struct {
		raw  string
		want *int
	}{
		{"", nil},
		{"five", nil},
		{"5", intPtr(5)},
		{"1 998", intPtr(1998)},
	}

	for _, tt := range tests {
		got := parseOptionalInt(tt.raw)
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("parseOptionalInt(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}

func TestSplitPipeList(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", []string{}},
		{"   ", []string{}},
		{"ABS", []string{"ABS"}},
		{"ABS|ESP|Airbag", []string{"ABS", "ESP", "Airbag"}},
		{"ABS| ESP |", []string{"ABS", "ESP"}},
	}

	for _, tt := range tests {
		got := splitPipeList(tt.raw)
		if got == nil {
			t.Errorf("splitPipeList(%q) returned nil; lists must never be nil", tt.raw)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitPipeList(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseSpecsJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"engine":"2.0 TDI"}`, `{"engine":"2.0 TDI"}`},
		{"{not json", ""},
		{"", ""},
		{"  ", ""},
		{`["a","b"]`, `["a","b"]`},
	}

	for _, tt := range tests {
		got := parseSpecsJSON(tt.raw)
		if got != tt.want {
			t.Errorf("parseSpecsJSON(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestHTMLToPlainText(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"plain description", "plain description"},
		{"line one<br>line two", "line one\nline two"},
		{"<p>First owner.</p><p>Garage kept.</p>", "First owner.\n\nGarage kept."},
		{"<b>Serviced</b> regularly", "Serviced regularly"},
	}

	for _, tt := range tests {
		got := htmlToPlainText(tt.raw)
		if got != tt.want {
			t.Errorf("htmlToPlainText(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestMapRowForInsert(t *testing.T) {
	dealerID := int64(7)
	row := models.ExternalRow{
		ListingID:      "ext-123",
		ListingURL:     "https://www.otomoto.pl/oferta/audi-a4-ID123.html",
		VIN:            "WAUZZZ8K9BA123456",
		PricePLN:       "100 000",
		ProductionYear: "2019",
		MileageKm:      "85 500",
		Doors:          "5",
		Seats:          "",
		ImageURLs:      "https://img/1.jpg|https://img/2.jpg",
		EquipmentSafety: "ABS|ESP",
		SpecsJSON:      `{"gearbox":"manual"}`,
	}

	l := MapRowForInsert(row, &dealerID)

	if l.ExternalID != "ext-123" || l.VIN != "WAUZZZ8K9BA123456" {
		t.Errorf("identity fields not mapped: %+v", l)
	}
	if l.PricePLN != 100000 {
		t.Errorf("PricePLN = %d; want 100000", l.PricePLN)
	}
	if l.ProductionYear != 2019 || l.MileageKm != 85500 {
		t.Errorf("year/mileage = %d/%d; want 2019/85500", l.ProductionYear, l.MileageKm)
	}
	if l.Marketplace != "otomoto" {
		t.Errorf("Marketplace = %q; want %q", l.Marketplace, "otomoto")
	}
	if l.Doors == nil || *l.Doors != 5 {
		t.Errorf("Doors = %v; want 5", l.Doors)
	}
	if l.Seats != nil {
		t.Errorf("Seats = %v; want nil for absent input", l.Seats)
	}
	if !reflect.DeepEqual(l.ImageURLs, []string{"https://img/1.jpg", "https://img/2.jpg"}) {
		t.Errorf("ImageURLs = %v", l.ImageURLs)
	}
	if !reflect.DeepEqual(l.EquipmentSafety, []string{"ABS", "ESP"}) {
		t.Errorf("EquipmentSafety = %v", l.EquipmentSafety)
	}
	if l.EquipmentOther == nil || len(l.EquipmentOther) != 0 {
		t.Errorf("EquipmentOther = %v; want empty non-nil list", l.EquipmentOther)
	}
	if l.SpecsJSON != `{"gearbox":"manual"}` {
		t.Errorf("SpecsJSON = %q", l.SpecsJSON)
	}
	if l.DealerID == nil || *l.DealerID != 7 {
		t.Errorf("DealerID = %v; want 7", l.DealerID)
	}
}

func TestMapRowForUpdateNeverSetsDealer(t *testing.T) {
	row := models.ExternalRow{
		ListingID:          "ext-1",
		DealerName:         "Auto Komis Max",
		DealerAddressLine1: "ul. Długa 1",
	}

	l := MapRowForUpdate(row)
	if l.DealerID != nil {
		t.Errorf("update variant set DealerID = %v; dealer linkage is creation-only", l.DealerID)
	}
}

func TestDealerFromRow(t *testing.T) {
	row := models.ExternalRow{
		DealerName:         " Auto Komis Max ",
		DealerAddressLine1: "ul. Długa 1",
		DealerGoogleRating: "4,6",
		DealerReviewCount:  "128",
	}

	if !HasDealerFields(row) {
		t.Fatal("HasDealerFields = false; want true")
	}

	d := DealerFromRow(row)
	if d.Name != "Auto Komis Max" {
		t.Errorf("Name = %q", d.Name)
	}
	if d.GoogleRating == nil || *d.GoogleRating != 4.6 {
		t.Errorf("GoogleRating = %v; want 4.6", d.GoogleRating)
	}
	if d.ReviewCount == nil || *d.ReviewCount != 128 {
		t.Errorf("ReviewCount = %v; want 128", d.ReviewCount)
	}

	if HasDealerFields(models.ExternalRow{DealerName: "Only Name"}) {
		t.Error("HasDealerFields without address line 1 should be false")
	}
}

func intPtr(n int) *int { return &n }
