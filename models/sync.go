// backend/models/sync.go
package models

import "time"

// ExternalRow is one vehicle record as exported by the scraping source.
// Every field arrives as an optional string; coercion into typed listing
// fields happens in the services layer.
// CSV tags EXACTLY match the export headers; JSON tags serve the JSON
// ingestion endpoint, which accepts the same shape.
type ExternalRow struct {
	ListingID  string `csv:"listing_id" json:"listing_id"`
	ListingURL string `csv:"listing_url" json:"listing_url"`
	ScrapedAt  string `csv:"scraped_at" json:"scraped_at"`

	Make    string `csv:"make" json:"make"`
	Model   string `csv:"model" json:"model"`
	Version string `csv:"version" json:"version"`
	VIN     string `csv:"vin" json:"vin"`

	PricePLN            string `csv:"price_pln" json:"price_pln"`
	PriceDisplay        string `csv:"price_display" json:"price_display"`
	OmnibusLowest30dPLN string `csv:"omnibus_lowest_30d_pln" json:"omnibus_lowest_30d_pln"`
	OmnibusText         string `csv:"omnibus_text" json:"omnibus_text"`

	ProductionYear        string `csv:"production_year" json:"production_year"`
	MileageKm             string `csv:"mileage_km" json:"mileage_km"`
	FuelType              string `csv:"fuel_type" json:"fuel_type"`
	Transmission          string `csv:"transmission" json:"transmission"`
	EnginePowerHP         string `csv:"engine_power_hp" json:"engine_power_hp"`
	RegistrationNumber    string `csv:"registration_number" json:"registration_number"`
	FirstRegistrationDate string `csv:"first_registration_date" json:"first_registration_date"`
	EngineCapacityCm3     string `csv:"engine_capacity_cm3" json:"engine_capacity_cm3"`
	Drive                 string `csv:"drive" json:"drive"`
	BodyType              string `csv:"body_type" json:"body_type"`
	Doors                 string `csv:"doors" json:"doors"`
	Seats                 string `csv:"seats" json:"seats"`
	Color                 string `csv:"color" json:"color"`
	PaintType             string `csv:"paint_type" json:"paint_type"`

	DealerName         string `csv:"dealer_name" json:"dealer_name"`
	DealerAddressLine1 string `csv:"dealer_address_line1" json:"dealer_address_line1"`
	DealerAddressLine2 string `csv:"dealer_address_line2" json:"dealer_address_line2"`
	DealerAddressLine3 string `csv:"dealer_address_line3" json:"dealer_address_line3"`
	DealerGoogleRating string `csv:"dealer_google_rating" json:"dealer_google_rating"`
	DealerReviewCount  string `csv:"dealer_review_count" json:"dealer_review_count"`
	DealerGoogleLink   string `csv:"dealer_google_link" json:"dealer_google_link"`
	ContactPhone       string `csv:"contact_phone" json:"contact_phone"`

	PrimaryImageURL string `csv:"primary_image_url" json:"primary_image_url"`
	ImageCount      string `csv:"image_count" json:"image_count"`
	ImageURLs       string `csv:"image_urls" json:"image_urls"` // pipe-delimited

	EquipmentAudioMultimedia string `csv:"equipment_audio_multimedia" json:"equipment_audio_multimedia"` // pipe-delimited
	EquipmentSafety          string `csv:"equipment_safety" json:"equipment_safety"`                     // pipe-delimited
	EquipmentComfortExtras   string `csv:"equipment_comfort_extras" json:"equipment_comfort_extras"`     // pipe-delimited
	EquipmentOther           string `csv:"equipment_other" json:"equipment_other"`                       // pipe-delimited

	AdditionalInfoHeader  string `csv:"additional_info_header" json:"additional_info_header"`
	AdditionalInfoContent string `csv:"additional_info_content" json:"additional_info_content"`
	SpecsJSON             string `csv:"specs_json" json:"specs_json"`
}

// SyncResult summarizes one reconciliation run. The counts equal the
// partition set sizes exactly: Inserted+Updated == TotalRows whenever every
// row carries an identity key.
type SyncResult struct {
	TotalRows    int   `json:"total_rows"`
	Inserted     int   `json:"inserted"`
	Updated      int   `json:"updated"`
	Archived     int   `json:"archived"`
	PriceChanges int   `json:"price_changes"`
	DurationMs   int64 `json:"duration_ms"`
	ImportLogID  int64 `json:"import_log_id"`
}

// Import log status values.
const (
	ImportStatusSuccess = "success"
	ImportStatusFailure = "failure"
)

// ImportLog is one durable row per sync invocation, written inside the sync
// transaction. Immutable once written.
type ImportLog struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	SourceLabel string    `db:"source_label" json:"source_label"`
	TotalRows   int       `db:"total_rows" json:"total_rows"`
	Inserted    int       `db:"inserted_count" json:"inserted"`
	Updated     int       `db:"updated_count" json:"updated"`
	Archived    int       `db:"archived_count" json:"archived"`
	Failed      int       `db:"failed_count" json:"failed"`
	Status      string    `db:"status" json:"status"`
	DurationMs  int64     `db:"duration_ms" json:"duration_ms"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// PriceHistory is one append-only price observation for a listing: a seed
// entry at creation, then one entry per detected price change.
type PriceHistory struct {
	ID         int64     `db:"id" json:"id"`
	ListingID  int64     `db:"listing_id" json:"listing_id"`
	PricePLN   int       `db:"price_pln" json:"price_pln"`
	ObservedAt time.Time `db:"observed_at" json:"observed_at"`
}
