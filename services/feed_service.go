// backend/services/feed_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pwalczak/automarket/backend/config"
	"github.com/pwalczak/automarket/backend/ingest"
	"github.com/pwalczak/automarket/backend/models"
)

// ImportFromFeed pulls the current snapshot CSV from the configured scraping
// source, parses it and runs a full reconciliation. The downloaded file is
// staging only and is removed afterwards.
func ImportFromFeed(ctx context.Context, actingUserID int64) (*models.SyncResult, error) {
	feedCfg := config.AppConfig.Feed

	localPath, err := ingest.DownloadSnapshotCsv(feedCfg.SnapshotCSVURL, feedCfg.TempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to download listings snapshot: %w", err)
	}
	defer func() {
		if err := os.Remove(localPath); err != nil {
			log.Printf("ERROR Feed: failed to remove temporary file %s: %v\n", localPath, err)
		}
	}()

	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open downloaded snapshot %s: %w", localPath, err)
	}
	defer file.Close()

	rows, err := ingest.ParseListingsCsv(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listings snapshot %s: %w", localPath, err)
	}

	sourceLabel := fmt.Sprintf("feed:%s", filepath.Base(localPath))
	return SyncListings(ctx, rows, actingUserID, sourceLabel)
}
