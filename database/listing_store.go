// backend/database/listing_store.go
package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pwalczak/automarket/backend/models"
)

// marshalStringList serializes a list column. Empty or nil lists become "[]"
// so a read always round-trips to an empty slice, never null.
func marshalStringList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	data, err := json.Marshal(list)
	if err != nil {
		log.Printf("WARN: Could not marshal string list: %v. Storing as empty list.", err)
		return "[]"
	}
	return string(data)
}

// unmarshalStringList is the read-side counterpart. Malformed or NULL column
// content degrades to an empty slice.
func unmarshalStringList(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(raw.String), &list); err != nil {
		log.Printf("WARN: Could not unmarshal string list column: %v. Returning empty list.", err)
		return []string{}
	}
	if list == nil {
		return []string{}
	}
	return list
}

// GetActiveListingSnapshots loads the identity/price projection of every
// non-archived listing. This is the basis for the reconciliation
// set-difference, read once at the start of a sync transaction.
func GetActiveListingSnapshots(tx *sql.Tx) ([]models.ListingSnapshot, error) {
	rows, err := tx.Query(`
		SELECT id, vin, external_id, price_pln
		FROM listings
		WHERE is_archived = FALSE
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query active listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []models.ListingSnapshot
	for rows.Next() {
		var s models.ListingSnapshot
		if err := rows.Scan(&s.ID, &s.VIN, &s.ExternalID, &s.PricePLN); err != nil {
			return nil, fmt.Errorf("failed to scan listing snapshot row: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listing snapshot rows: %w", err)
	}
	return snapshots, nil
}

// InsertListing persists a new listing and returns its generated ID.
func InsertListing(tx *sql.Tx, l *models.Listing) (int64, error) {
	res, err := tx.Exec(`
		INSERT INTO listings (
			external_id, vin, listing_url, marketplace, scraped_at,
			price_pln, price_display, omnibus_lowest_30d_pln, omnibus_text,
			make, model, version, production_year, mileage_km,
			fuel_type, transmission, engine_power_hp, engine_capacity_cm3,
			drive, body_type, doors, seats, color, paint_type,
			registration_number, first_registration_date,
			primary_image_url, image_count, image_urls_json,
			equipment_audio_multimedia_json, equipment_safety_json,
			equipment_comfort_extras_json, equipment_other_json,
			additional_info_header, additional_info_content, specs_json,
			dealer_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
		          ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`,
		l.ExternalID, l.VIN, l.ListingURL, l.Marketplace, l.ScrapedAt,
		l.PricePLN, l.PriceDisplay, l.OmnibusLowest30dPLN, l.OmnibusText,
		l.Make, l.Model, l.Version, l.ProductionYear, l.MileageKm,
		l.FuelType, l.Transmission, l.EnginePowerHP, l.EngineCapacityCm3,
		l.Drive, l.BodyType, l.Doors, l.Seats, l.Color, l.PaintType,
		l.RegistrationNumber, l.FirstRegistrationDate,
		l.PrimaryImageURL, l.ImageCount, marshalStringList(l.ImageURLs),
		marshalStringList(l.EquipmentAudioMultimedia), marshalStringList(l.EquipmentSafety),
		marshalStringList(l.EquipmentComfortExtras), marshalStringList(l.EquipmentOther),
		l.AdditionalInfoHeader, l.AdditionalInfoContent, l.SpecsJSON,
		l.DealerID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert listing (vin '%s', external_id '%s'): %w", l.VIN, l.ExternalID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted listing ID: %w", err)
	}
	return id, nil
}

// UpdateListing overwrites the feed-owned fields of an existing listing.
// The dealer link is set at creation only and is deliberately not touched.
func UpdateListing(tx *sql.Tx, id int64, l *models.Listing) error {
	_, err := tx.Exec(`
		UPDATE listings SET
			external_id = ?, vin = ?, listing_url = ?, marketplace = ?, scraped_at = ?,
			price_pln = ?, price_display = ?, omnibus_lowest_30d_pln = ?, omnibus_text = ?,
			make = ?, model = ?, version = ?, production_year = ?, mileage_km = ?,
			fuel_type = ?, transmission = ?, engine_power_hp = ?, engine_capacity_cm3 = ?,
			drive = ?, body_type = ?, doors = ?, seats = ?, color = ?, paint_type = ?,
			registration_number = ?, first_registration_date = ?,
			primary_image_url = ?, image_count = ?, image_urls_json = ?,
			equipment_audio_multimedia_json = ?, equipment_safety_json = ?,
			equipment_comfort_extras_json = ?, equipment_other_json = ?,
			additional_info_header = ?, additional_info_content = ?, specs_json = ?,
			updated_at = NOW()
		WHERE id = ?
	`,
		l.ExternalID, l.VIN, l.ListingURL, l.Marketplace, l.ScrapedAt,
		l.PricePLN, l.PriceDisplay, l.OmnibusLowest30dPLN, l.OmnibusText,
		l.Make, l.Model, l.Version, l.ProductionYear, l.MileageKm,
		l.FuelType, l.Transmission, l.EnginePowerHP, l.EngineCapacityCm3,
		l.Drive, l.BodyType, l.Doors, l.Seats, l.Color, l.PaintType,
		l.RegistrationNumber, l.FirstRegistrationDate,
		l.PrimaryImageURL, l.ImageCount, marshalStringList(l.ImageURLs),
		marshalStringList(l.EquipmentAudioMultimedia), marshalStringList(l.EquipmentSafety),
		marshalStringList(l.EquipmentComfortExtras), marshalStringList(l.EquipmentOther),
		l.AdditionalInfoHeader, l.AdditionalInfoContent, l.SpecsJSON,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing %d: %w", id, err)
	}
	return nil
}

// ArchiveListings soft-archives all given listings in one batch write.
func ArchiveListings(tx *sql.Tx, ids []int64, archivedAt time.Time, reason string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids)+2)
	args = append(args, archivedAt, reason)
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		UPDATE listings
		SET is_archived = TRUE, archived_at = ?, archived_reason = ?
		WHERE id IN (%s)
	`, strings.Join(placeholders, ","))

	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to archive %d listings: %w", len(ids), err)
	}
	return nil
}

// ArchiveListingByID soft-archives a single listing outside a sync run, e.g.
// when a collaborator detects the upstream listing is gone.
func ArchiveListingByID(id int64, reason string) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	res, err := DB.Exec(`
		UPDATE listings
		SET is_archived = TRUE, archived_at = NOW(), archived_reason = ?
		WHERE id = ? AND is_archived = FALSE
	`, reason, id)
	if err != nil {
		return fmt.Errorf("failed to archive listing %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read archive result for listing %d: %w", id, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const listingColumns = `
	id, external_id, vin, listing_url, marketplace, scraped_at,
	price_pln, price_display, omnibus_lowest_30d_pln, omnibus_text,
	make, model, version, production_year, mileage_km,
	fuel_type, transmission, engine_power_hp, engine_capacity_cm3,
	drive, body_type, doors, seats, color, paint_type,
	registration_number, first_registration_date,
	primary_image_url, image_count, image_urls_json,
	equipment_audio_multimedia_json, equipment_safety_json,
	equipment_comfort_extras_json, equipment_other_json,
	additional_info_header, additional_info_content, specs_json,
	is_archived, archived_at, archived_reason, dealer_id, created_at, updated_at`

func scanListing(scan func(dest ...interface{}) error) (*models.Listing, error) {
	var l models.Listing
	var listingURL, omnibusText, primaryImageURL sql.NullString
	var imageURLs, eqAudio, eqSafety, eqComfort, eqOther sql.NullString
	var infoHeader, infoContent, specsJSON sql.NullString
	var omnibus, powerHP, capacity, doors, seats, imageCount, dealerID sql.NullInt64
	var archivedAt sql.NullTime

	err := scan(
		&l.ID, &l.ExternalID, &l.VIN, &listingURL, &l.Marketplace, &l.ScrapedAt,
		&l.PricePLN, &l.PriceDisplay, &omnibus, &omnibusText,
		&l.Make, &l.Model, &l.Version, &l.ProductionYear, &l.MileageKm,
		&l.FuelType, &l.Transmission, &powerHP, &capacity,
		&l.Drive, &l.BodyType, &doors, &seats, &l.Color, &l.PaintType,
		&l.RegistrationNumber, &l.FirstRegistrationDate,
		&primaryImageURL, &imageCount, &imageURLs,
		&eqAudio, &eqSafety, &eqComfort, &eqOther,
		&infoHeader, &infoContent, &specsJSON,
		&l.IsArchived, &archivedAt, &l.ArchivedReason, &dealerID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.ListingURL = listingURL.String
	l.OmnibusText = omnibusText.String
	l.PrimaryImageURL = primaryImageURL.String
	l.AdditionalInfoHeader = infoHeader.String
	l.AdditionalInfoContent = infoContent.String
	l.SpecsJSON = specsJSON.String
	l.ImageURLs = unmarshalStringList(imageURLs)
	l.EquipmentAudioMultimedia = unmarshalStringList(eqAudio)
	l.EquipmentSafety = unmarshalStringList(eqSafety)
	l.EquipmentComfortExtras = unmarshalStringList(eqComfort)
	l.EquipmentOther = unmarshalStringList(eqOther)

	if omnibus.Valid {
		v := int(omnibus.Int64)
		l.OmnibusLowest30dPLN = &v
	}
	if powerHP.Valid {
		v := int(powerHP.Int64)
		l.EnginePowerHP = &v
	}
	if capacity.Valid {
		v := int(capacity.Int64)
		l.EngineCapacityCm3 = &v
	}
	if doors.Valid {
		v := int(doors.Int64)
		l.Doors = &v
	}
	if seats.Valid {
		v := int(seats.Int64)
		l.Seats = &v
	}
	if imageCount.Valid {
		v := int(imageCount.Int64)
		l.ImageCount = &v
	}
	if dealerID.Valid {
		l.DealerID = &dealerID.Int64
	}
	if archivedAt.Valid {
		l.ArchivedAt = &archivedAt.Time
	}

	return &l, nil
}

// GetActiveListings returns non-archived listings, newest first, for the
// public search/browse endpoints.
func GetActiveListings(limit, offset int) ([]models.Listing, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	rows, err := DB.Query(`
		SELECT`+listingColumns+`
		FROM listings
		WHERE is_archived = FALSE
		ORDER BY updated_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query active listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		l, err := scanListing(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}
		listings = append(listings, *l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listing rows: %w", err)
	}
	return listings, nil
}

// GetListingByID returns one listing regardless of archival state, or
// sql.ErrNoRows when it does not exist.
func GetListingByID(id int64) (*models.Listing, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	row := DB.QueryRow(`
		SELECT`+listingColumns+`
		FROM listings
		WHERE id = ?
	`, id)

	l, err := scanListing(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan listing %d: %w", id, err)
	}
	return l, nil
}
