package services

import (
	"testing"

	"github.com/pwalczak/automarket/backend/models"
)

func TestListingIdentityKey(t *testing.T) {
	tests := []struct {
		vin        string
		externalID string
		want       string
	}{
		{"WVWZZZ1JZ3W386752", "ext-1", "vin:WVWZZZ1JZ3W386752"},
		{"", "ext-1", "ext:ext-1"},
		{"  ", "ext-1", "ext:ext-1"},
		{"", "", ""},
		{" ", "  ", ""},
	}

	for _, tt := range tests {
		got := listingIdentityKey(tt.vin, tt.externalID)
		if got != tt.want {
			t.Errorf("listingIdentityKey(%q, %q) = %q; want %q", tt.vin, tt.externalID, got, tt.want)
		}
	}
}

// A VIN must never collide with an external ID that happens to carry the
// same characters.
func TestListingIdentityKeyNamespaces(t *testing.T) {
	vinKey := listingIdentityKey("ABC123", "")
	extKey := listingIdentityKey("", "ABC123")
	if vinKey == extKey {
		t.Errorf("VIN key %q and external ID key %q must differ", vinKey, extKey)
	}
}

func TestPartitionAllNewRows(t *testing.T) {
	rows := []models.ExternalRow{
		{VIN: "X1"},
		{VIN: "X2"},
		{ListingID: "ext-3"},
	}

	part := partitionRows(nil, rows)
	if len(part.inserts) != 3 || len(part.updates) != 0 || len(part.archives) != 0 {
		t.Errorf("partition = %d inserts, %d updates, %d archives; want 3/0/0",
			len(part.inserts), len(part.updates), len(part.archives))
	}
}

func TestPartitionMatchesExistingByVIN(t *testing.T) {
	existing := []models.ListingSnapshot{
		{ID: 10, VIN: "X1", PricePLN: 100000},
	}
	rows := []models.ExternalRow{
		{VIN: "X1", PricePLN: "95 000"},
	}

	part := partitionRows(existing, rows)
	if len(part.updates) != 1 || len(part.inserts) != 0 || len(part.archives) != 0 {
		t.Fatalf("partition = %d inserts, %d updates, %d archives; want 0/1/0",
			len(part.inserts), len(part.updates), len(part.archives))
	}
	u := part.updates[0]
	if u.existing.ID != 10 {
		t.Errorf("update paired with listing %d; want 10", u.existing.ID)
	}
	if mapped := MapRowForUpdate(u.row); mapped.PricePLN == u.existing.PricePLN {
		t.Error("expected a price delta between incoming row and snapshot")
	}
}

func TestPartitionArchivesVanishedListings(t *testing.T) {
	existing := []models.ListingSnapshot{
		{ID: 1, VIN: "X1"},
		{ID: 2, VIN: "X2"},
	}
	rows := []models.ExternalRow{
		{VIN: "X1"},
	}

	part := partitionRows(existing, rows)
	if len(part.archives) != 1 || part.archives[0] != 2 {
		t.Errorf("archives = %v; want [2]", part.archives)
	}
	if len(part.updates) != 1 || len(part.inserts) != 0 {
		t.Errorf("partition = %d inserts, %d updates; want 0/1", len(part.inserts), len(part.updates))
	}
}

// Symmetric matching: a listing stored under its external ID must match an
// incoming row carrying the same external ID and no VIN.
func TestPartitionMatchesByExternalIDFallback(t *testing.T) {
	existing := []models.ListingSnapshot{
		{ID: 5, ExternalID: "ext-9"},
	}
	rows := []models.ExternalRow{
		{ListingID: "ext-9"},
	}

	part := partitionRows(existing, rows)
	if len(part.updates) != 1 || part.updates[0].existing.ID != 5 {
		t.Errorf("expected external-ID match against listing 5, got %+v", part)
	}
	if len(part.archives) != 0 {
		t.Errorf("archives = %v; want none", part.archives)
	}
}

// Rows without any identity key are always-new; keyless stored listings are
// excluded from matching and never archived by an import.
func TestPartitionKeylessPolicy(t *testing.T) {
	existing := []models.ListingSnapshot{
		{ID: 1}, // no VIN, no external ID
		{ID: 2, VIN: "X2"},
	}
	rows := []models.ExternalRow{
		{}, // keyless row
		{VIN: "X2"},
	}

	part := partitionRows(existing, rows)
	if len(part.inserts) != 1 {
		t.Errorf("inserts = %d; keyless row must be treated as new", len(part.inserts))
	}
	if len(part.updates) != 1 {
		t.Errorf("updates = %d; want 1", len(part.updates))
	}
	if len(part.archives) != 0 {
		t.Errorf("archives = %v; keyless stored listings must never be archived", part.archives)
	}
}

// Running the same batch against the state it produced yields only updates:
// the second run of an identical import inserts and archives nothing.
func TestPartitionIdempotence(t *testing.T) {
	rows := []models.ExternalRow{
		{VIN: "X1", PricePLN: "100000"},
		{VIN: "X2", PricePLN: "50000"},
		{ListingID: "ext-3", PricePLN: "75000"},
	}

	first := partitionRows(nil, rows)
	if len(first.inserts) != 3 {
		t.Fatalf("first run inserts = %d; want 3", len(first.inserts))
	}

	var state []models.ListingSnapshot
	for i, row := range first.inserts {
		mapped := MapRowForInsert(row, nil)
		state = append(state, models.ListingSnapshot{
			ID:         int64(i + 1),
			VIN:        mapped.VIN,
			ExternalID: mapped.ExternalID,
			PricePLN:   mapped.PricePLN,
		})
	}

	second := partitionRows(state, rows)
	if len(second.inserts) != 0 || len(second.updates) != 3 || len(second.archives) != 0 {
		t.Errorf("second run = %d inserts, %d updates, %d archives; want 0/3/0",
			len(second.inserts), len(second.updates), len(second.archives))
	}
	for _, u := range second.updates {
		if MapRowForUpdate(u.row).PricePLN != u.existing.PricePLN {
			t.Errorf("unexpected price delta on idempotent rerun for listing %d", u.existing.ID)
		}
	}
}
