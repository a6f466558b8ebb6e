// backend/handlers/listing_handler.go
package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pwalczak/automarket/backend/database"
)

const (
	defaultListingsLimit     = 50
	maxListingsLimit         = 200
	defaultPriceHistoryLimit = 100
)

// GetListingsHandler handles GET /api/listings?limit=N&offset=M and returns
// active (non-archived) listings, most recently updated first.
func GetListingsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	limit := defaultListingsLimit
	offset := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid limit '%s'", raw))
			return
		}
		limit = n
	}
	if limit > maxListingsLimit {
		limit = maxListingsLimit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid offset '%s'", raw))
			return
		}
		offset = n
	}

	listings, err := database.GetActiveListings(limit, offset)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load listings: %v", err))
		return
	}

	respondWithJSON(w, http.StatusOK, listings)
}

// ListingDetailHandler handles GET /api/listings/{id} and
// GET /api/listings/{id}/price-history.
func ListingDetailHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// Expected path: api/listings/{id} or api/listings/{id}/price-history
	if len(pathParts) < 3 {
		respondWithError(w, http.StatusBadRequest, "Invalid path. Expected /api/listings/{id}")
		return
	}

	id, err := strconv.ParseInt(pathParts[2], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid listing ID '%s'", pathParts[2]))
		return
	}

	if len(pathParts) >= 4 && pathParts[3] == "price-history" {
		entries, err := database.GetPriceHistoryForListing(id, defaultPriceHistoryLimit)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load price history: %v", err))
			return
		}
		respondWithJSON(w, http.StatusOK, entries)
		return
	}

	listing, err := database.GetListingByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			respondWithError(w, http.StatusNotFound, fmt.Sprintf("Listing %d not found", id))
			return
		}
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load listing: %v", err))
		return
	}

	respondWithJSON(w, http.StatusOK, listing)
}

// ArchiveListingHandler handles POST /api/admin/listings/{id}/archive for
// out-of-band archival, e.g. the backoffice or the image-refresh collaborator
// taking down a listing whose upstream source is gone. The reason comes from
// the "reason" query parameter.
func ArchiveListingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// Expected path: api/admin/listings/{id}/archive
	if len(pathParts) < 5 || pathParts[4] != "archive" {
		respondWithError(w, http.StatusBadRequest, "Invalid path. Expected /api/admin/listings/{id}/archive")
		return
	}

	id, err := strconv.ParseInt(pathParts[3], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid listing ID '%s'", pathParts[3]))
		return
	}

	reason := r.URL.Query().Get("reason")
	if reason == "" {
		reason = "Archived manually"
	}

	if err := database.ArchiveListingByID(id, reason); err != nil {
		if err == sql.ErrNoRows {
			respondWithError(w, http.StatusNotFound, fmt.Sprintf("Listing %d not found or already archived", id))
			return
		}
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to archive listing: %v", err))
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Listing %d archived.", id)})
}
