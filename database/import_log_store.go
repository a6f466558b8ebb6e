// backend/database/import_log_store.go
package database

import (
	"database/sql"
	"fmt"

	"github.com/pwalczak/automarket/backend/models"
)

// InsertImportLog writes the audit row for one sync invocation and returns
// its generated ID. It runs inside the sync transaction, so a rollback also
// discards the log.
func InsertImportLog(tx *sql.Tx, l *models.ImportLog) (int64, error) {
	res, err := tx.Exec(`
		INSERT INTO import_logs (
			user_id, source_label, total_rows,
			inserted_count, updated_count, archived_count, failed_count,
			status, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`,
		l.UserID, l.SourceLabel, l.TotalRows,
		l.Inserted, l.Updated, l.Archived, l.Failed,
		l.Status, l.DurationMs,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted import log ID: %w", err)
	}
	return id, nil
}

// GetRecentImportLogs returns the most recent import logs, newest first,
// capped at limit. Backs the admin import-history view.
func GetRecentImportLogs(limit int) ([]models.ImportLog, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	rows, err := DB.Query(`
		SELECT id, user_id, source_label, total_rows,
		       inserted_count, updated_count, archived_count, failed_count,
		       status, duration_ms, created_at
		FROM import_logs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query import logs: %w", err)
	}
	defer rows.Close()

	var logs []models.ImportLog
	for rows.Next() {
		var l models.ImportLog
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.SourceLabel, &l.TotalRows,
			&l.Inserted, &l.Updated, &l.Archived, &l.Failed,
			&l.Status, &l.DurationMs, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan import log row: %w", err)
		}
		logs = append(logs, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating import log rows: %w", err)
	}
	return logs, nil
}
