// backend/handlers/import_log_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/pwalczak/automarket/backend/database"
)

const (
	defaultImportHistoryLimit = 50
	maxImportHistoryLimit     = 200
)

// GetImportHistoryHandler handles GET /api/admin/imports?limit=N and returns
// the most recent import log rows, newest first.
func GetImportHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	limit := defaultImportHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid limit '%s'", raw))
			return
		}
		limit = n
	}
	if limit > maxImportHistoryLimit {
		limit = maxImportHistoryLimit
	}

	logs, err := database.GetRecentImportLogs(limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load import history: %v", err))
		return
	}

	respondWithJSON(w, http.StatusOK, logs)
}
