// backend/models/listing.go
package models

import "time"

// Listing is the canonical vehicle record kept in the listings table.
// Vanished listings are archived, never deleted.
type Listing struct {
	ID         int64  `db:"id" json:"id"`
	ExternalID string `db:"external_id" json:"external_id"` // listing ID at the scraping source
	VIN        string `db:"vin" json:"vin"`
	ListingURL string `db:"listing_url" json:"listing_url"`
	Marketplace string `db:"marketplace" json:"marketplace"` // derived from ListingURL, "" when unknown
	ScrapedAt  string `db:"scraped_at" json:"scraped_at"`    // free-text timestamp from the source

	PricePLN            int    `db:"price_pln" json:"price_pln"`
	PriceDisplay        string `db:"price_display" json:"price_display"`
	OmnibusLowest30dPLN *int   `db:"omnibus_lowest_30d_pln" json:"omnibus_lowest_30d_pln,omitempty"`
	OmnibusText         string `db:"omnibus_text" json:"omnibus_text"`

	Make              string `db:"make" json:"make"`
	Model             string `db:"model" json:"model"`
	Version           string `db:"version" json:"version"`
	ProductionYear    int    `db:"production_year" json:"production_year"`
	MileageKm         int    `db:"mileage_km" json:"mileage_km"`
	FuelType          string `db:"fuel_type" json:"fuel_type"`
	Transmission      string `db:"transmission" json:"transmission"`
	EnginePowerHP     *int   `db:"engine_power_hp" json:"engine_power_hp,omitempty"`
	EngineCapacityCm3 *int   `db:"engine_capacity_cm3" json:"engine_capacity_cm3,omitempty"`
	Drive             string `db:"drive" json:"drive"`
	BodyType          string `db:"body_type" json:"body_type"`
	Doors             *int   `db:"doors" json:"doors,omitempty"`
	Seats             *int   `db:"seats" json:"seats,omitempty"`
	Color             string `db:"color" json:"color"`
	PaintType         string `db:"paint_type" json:"paint_type"`

	RegistrationNumber    string `db:"registration_number" json:"registration_number"`
	FirstRegistrationDate string `db:"first_registration_date" json:"first_registration_date"`

	PrimaryImageURL string `db:"primary_image_url" json:"primary_image_url"`
	ImageCount      *int   `db:"image_count" json:"image_count,omitempty"`

	// List-valued fields are stored as JSON text columns; the slices are
	// what callers work with. Same pattern as the *_json columns elsewhere.
	ImageURLs                []string `db:"-" json:"image_urls"`
	EquipmentAudioMultimedia []string `db:"-" json:"equipment_audio_multimedia"`
	EquipmentSafety          []string `db:"-" json:"equipment_safety"`
	EquipmentComfortExtras   []string `db:"-" json:"equipment_comfort_extras"`
	EquipmentOther           []string `db:"-" json:"equipment_other"`

	AdditionalInfoHeader  string `db:"additional_info_header" json:"additional_info_header"`
	AdditionalInfoContent string `db:"additional_info_content" json:"additional_info_content"`
	SpecsJSON             string `db:"specs_json" json:"specs_json"` // raw JSON text, "" when absent

	IsArchived     bool       `db:"is_archived" json:"is_archived"`
	ArchivedAt     *time.Time `db:"archived_at" json:"archived_at,omitempty"`
	ArchivedReason string     `db:"archived_reason" json:"archived_reason"`

	DealerID *int64 `db:"dealer_id" json:"dealer_id,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ListingSnapshot is the projection of an active listing loaded at the start
// of a sync run: just the identity fields and the current price.
type ListingSnapshot struct {
	ID         int64  `db:"id"`
	VIN        string `db:"vin"`
	ExternalID string `db:"external_id"`
	PricePLN   int    `db:"price_pln"`
}
