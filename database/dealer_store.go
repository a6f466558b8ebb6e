// backend/database/dealer_store.go
package database

import (
	"database/sql"
	"fmt"

	"github.com/pwalczak/automarket/backend/models"
)

// FindOrCreateDealer resolves a dealer by its (name, address_line1) natural
// key inside the given transaction, creating it on first sight. On a match
// the stored row is returned unchanged: the sync pipeline never overwrites
// dealer fields after creation.
func FindOrCreateDealer(tx *sql.Tx, d *models.Dealer) (int64, error) {
	var id int64
	err := tx.QueryRow(`
		SELECT id FROM dealers WHERE name = ? AND address_line1 = ?
	`, d.Name, d.AddressLine1).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up dealer '%s' / '%s': %w", d.Name, d.AddressLine1, err)
	}

	res, err := tx.Exec(`
		INSERT INTO dealers (
			name, address_line1, address_line2, address_line3, city,
			contact_phone, google_rating, review_count, google_link, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`,
		d.Name, d.AddressLine1, d.AddressLine2, d.AddressLine3, d.City,
		d.ContactPhone, d.GoogleRating, d.ReviewCount, d.GoogleLink,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert dealer '%s' / '%s': %w", d.Name, d.AddressLine1, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted dealer ID: %w", err)
	}
	return id, nil
}

// GetDealerByID returns one dealer, or sql.ErrNoRows when it does not exist.
func GetDealerByID(id int64) (*models.Dealer, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	var d models.Dealer
	var googleLink sql.NullString
	var rating sql.NullFloat64
	var reviewCount sql.NullInt64

	err := DB.QueryRow(`
		SELECT id, name, address_line1, address_line2, address_line3, city,
		       contact_phone, google_rating, review_count, google_link, created_at
		FROM dealers
		WHERE id = ?
	`, id).Scan(
		&d.ID, &d.Name, &d.AddressLine1, &d.AddressLine2, &d.AddressLine3, &d.City,
		&d.ContactPhone, &rating, &reviewCount, &googleLink, &d.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to query dealer %d: %w", id, err)
	}

	d.GoogleLink = googleLink.String
	if rating.Valid {
		d.GoogleRating = &rating.Float64
	}
	if reviewCount.Valid {
		v := int(reviewCount.Int64)
		d.ReviewCount = &v
	}
	return &d, nil
}
