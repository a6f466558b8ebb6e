// backend/models/dealer.go
package models

import "time"

// Dealer is a physical seller location. Dealers are deduplicated on the
// (Name, AddressLine1) pair: the first listing referencing a pair creates the
// row, later matches reuse it as-is.
type Dealer struct {
	ID           int64    `db:"id" json:"id"`
	Name         string   `db:"name" json:"name"`
	AddressLine1 string   `db:"address_line1" json:"address_line1"`
	AddressLine2 string   `db:"address_line2" json:"address_line2"`
	AddressLine3 string   `db:"address_line3" json:"address_line3"`
	City         string   `db:"city" json:"city"` // not present in the export feed, left empty by sync
	ContactPhone string   `db:"contact_phone" json:"contact_phone"`
	GoogleRating *float64 `db:"google_rating" json:"google_rating,omitempty"`
	ReviewCount  *int     `db:"review_count" json:"review_count,omitempty"`
	GoogleLink   string   `db:"google_link" json:"google_link"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
