// backend/handlers/sync_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/pwalczak/automarket/backend/ingest"
	"github.com/pwalczak/automarket/backend/models"
	"github.com/pwalczak/automarket/backend/services"
)

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshalling JSON response: %v", err)
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	log.Printf("API Error %d: %s", code, message)
	respondWithJSON(w, code, map[string]string{"error": message})
}

// actingUserID reads the authenticated user forwarded by the auth layer.
// Authentication itself happens upstream; 0 means unattributed.
func actingUserID(r *http.Request) int64 {
	raw := r.Header.Get("X-User-Id")
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

const maxUploadBytes = 64 << 20 // 64 MiB snapshot uploads

// ImportListingsFileHandler handles POST /api/admin/import: a multipart CSV
// upload ("file" field) that is parsed and reconciled in one run. The
// uploaded filename becomes the import log's source label.
func ImportListingsFileHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid multipart upload: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing 'file' field in upload")
		return
	}
	defer file.Close()

	rows, err := ingest.ParseListingsCsv(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse CSV: %v", err))
		return
	}

	result, err := services.SyncListings(r.Context(), rows, actingUserID(r), header.Filename)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Import failed: %v", err))
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// ImportListingsJSONHandler handles POST /api/admin/import-json: the same
// rows as a JSON array, for producers that skip the CSV step.
func ImportListingsJSONHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	var rows []models.ExternalRow
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON body: %v", err))
		return
	}

	sourceLabel := r.URL.Query().Get("source")
	if sourceLabel == "" {
		sourceLabel = "json-api"
	}

	result, err := services.SyncListings(r.Context(), rows, actingUserID(r), sourceLabel)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Import failed: %v", err))
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// ImportFromFeedHandler handles POST /api/admin/import-feed: pull the
// configured snapshot feed and reconcile it.
func ImportFromFeedHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	result, err := services.ImportFromFeed(r.Context(), actingUserID(r))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Feed import failed: %v", err))
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
