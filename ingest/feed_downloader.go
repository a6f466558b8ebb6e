// backend/ingest/feed_downloader.go
package ingest

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// DownloadSnapshotCsv downloads the current listings export from the
// scraping source and stages it in tempDir. The caller owns the returned
// path and should remove the file when done.
func DownloadSnapshotCsv(url string, tempDir string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("no snapshot feed URL configured")
	}
	log.Printf("Attempting to download listings snapshot from URL: %s\n", url)

	client := http.Client{
		Timeout: 60 * time.Second, // full snapshot exports can run large
	}

	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to make GET request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download snapshot from %s: received status code %d", url, resp.StatusCode)
	}

	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create temp directory %s: %w", tempDir, err)
	}

	outFile, err := os.CreateTemp(tempDir, "listings_snapshot_*.csv")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file in %s: %w", tempDir, err)
	}
	defer outFile.Close()

	if _, err = io.Copy(outFile, resp.Body); err != nil {
		os.Remove(outFile.Name())
		return "", fmt.Errorf("failed to copy downloaded snapshot to %s: %w", outFile.Name(), err)
	}

	log.Printf("Successfully downloaded listings snapshot to %s\n", outFile.Name())
	return outFile.Name(), nil
}
