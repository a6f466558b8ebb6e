// backend/ingest/csv_parser.go
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"

	"github.com/pwalczak/automarket/backend/models"
	"github.com/jszwec/csvutil"
)

// ParseListingsCsv takes an io.Reader containing a listings export in CSV
// form and returns the raw rows. The first line must be the header; columns
// are matched against the `csv:"..."` tags on models.ExternalRow. Columns
// the schema does not know are ignored, missing columns leave fields empty —
// coercion and validation are the row mapper's job, not the parser's.
func ParseListingsCsv(reader io.Reader) ([]models.ExternalRow, error) {
	var rows []models.ExternalRow

	decoder, err := csvutil.NewDecoder(csv.NewReader(reader))
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder for listings export: %w", err)
	}

	if err := decoder.Decode(&rows); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode listings export CSV data: %w", err)
	}

	log.Printf("Successfully parsed %d listing rows from CSV.\n", len(rows))
	return rows, nil
}
