// backend/database/price_history_store.go
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pwalczak/automarket/backend/models"
)

// InsertPriceHistory appends one price observation for a listing. Rows are
// never updated or deleted afterwards.
func InsertPriceHistory(tx *sql.Tx, listingID int64, pricePLN int, observedAt time.Time) error {
	_, err := tx.Exec(`
		INSERT INTO price_history (listing_id, price_pln, observed_at)
		VALUES (?, ?, ?)
	`, listingID, pricePLN, observedAt)
	if err != nil {
		return fmt.Errorf("failed to insert price history for listing %d: %w", listingID, err)
	}
	return nil
}

// GetPriceHistoryForListing returns the observations for one listing in
// chronological order, capped at limit.
func GetPriceHistoryForListing(listingID int64, limit int) ([]models.PriceHistory, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	rows, err := DB.Query(`
		SELECT id, listing_id, price_pln, observed_at
		FROM price_history
		WHERE listing_id = ?
		ORDER BY observed_at, id
		LIMIT ?
	`, listingID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history for listing %d: %w", listingID, err)
	}
	defer rows.Close()

	var entries []models.PriceHistory
	for rows.Next() {
		var e models.PriceHistory
		if err := rows.Scan(&e.ID, &e.ListingID, &e.PricePLN, &e.ObservedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price history rows: %w", err)
	}
	return entries, nil
}
