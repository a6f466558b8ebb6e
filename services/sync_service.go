// backend/services/sync_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pwalczak/automarket/backend/config"
	"github.com/pwalczak/automarket/backend/database"
	"github.com/pwalczak/automarket/backend/models"
)

// ArchivedReasonNotInImport is written on listings that vanish from an
// import batch.
const ArchivedReasonNotInImport = "Not in latest import"

// syncLockName is the MySQL advisory lock serializing sync invocations.
// The reconciliation snapshot is only valid under a single writer, so a
// concurrent import must fail instead of racing.
const syncLockName = "automarket_listing_sync"

// listingIdentityKey computes the key used to match incoming rows against
// stored listings: VIN when present, else the external listing ID. The
// prefixes keep the two namespaces from colliding. Rows and listings with
// neither identifier yield "" and are never matched.
func listingIdentityKey(vin, externalID string) string {
	if v := strings.TrimSpace(vin); v != "" {
		return "vin:" + v
	}
	if id := strings.TrimSpace(externalID); id != "" {
		return "ext:" + id
	}
	return ""
}

type rowUpdate struct {
	row      models.ExternalRow
	existing models.ListingSnapshot
}

type rowPartition struct {
	inserts  []models.ExternalRow
	updates  []rowUpdate
	archives []int64
}

// partitionRows classifies every incoming row as insert or update against
// the active-listing snapshot, and every snapshot whose key is absent from
// the batch as an archive candidate. The identity rule is applied
// symmetrically to both sides. Keyless rows are treated as always-new;
// keyless stored listings are left out of matching and archival entirely.
func partitionRows(existing []models.ListingSnapshot, rows []models.ExternalRow) rowPartition {
	existingByKey := make(map[string]models.ListingSnapshot, len(existing))
	for _, snap := range existing {
		if key := listingIdentityKey(snap.VIN, snap.ExternalID); key != "" {
			existingByKey[key] = snap
		}
	}

	incomingKeys := make(map[string]struct{}, len(rows))
	var part rowPartition
	for _, row := range rows {
		key := listingIdentityKey(row.VIN, row.ListingID)
		if key == "" {
			part.inserts = append(part.inserts, row)
			continue
		}
		incomingKeys[key] = struct{}{}
		if snap, ok := existingByKey[key]; ok {
			part.updates = append(part.updates, rowUpdate{row: row, existing: snap})
		} else {
			part.inserts = append(part.inserts, row)
		}
	}

	for _, snap := range existing {
		key := listingIdentityKey(snap.VIN, snap.ExternalID)
		if key == "" {
			continue
		}
		if _, ok := incomingKeys[key]; !ok {
			part.archives = append(part.archives, snap.ID)
		}
	}

	return part
}

// SyncListings reconciles one snapshot of scraped rows against the live
// listing table: updates matched listings (recording price changes), inserts
// new ones (seeding price history and resolving dealers), archives listings
// that vanished from the batch, and writes one import log row — all inside a
// single transaction. Any failure rolls the whole invocation back.
func SyncListings(ctx context.Context, rows []models.ExternalRow, actingUserID int64, sourceLabel string) (*models.SyncResult, error) {
	start := time.Now()

	if database.DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	// The advisory lock is per-connection, so the lock and the transaction
	// must share one dedicated connection.
	conn, err := database.DB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire database connection for sync: %w", err)
	}
	defer conn.Close()

	var locked int
	lockWait := config.AppConfig.Sync.LockWaitSeconds
	err = conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", syncLockName, lockWait).Scan(&locked)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	if locked != 1 {
		return nil, fmt.Errorf("another import is already running (could not acquire sync lock within %ds)", lockWait)
	}
	defer func() {
		var released int
		if err := conn.QueryRowContext(context.Background(), "SELECT RELEASE_LOCK(?)", syncLockName).Scan(&released); err != nil {
			log.Printf("WARN Sync: failed to release sync lock: %v", err)
		}
	}()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin sync transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := database.GetActiveListingSnapshots(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active listings for sync: %w", err)
	}

	part := partitionRows(existing, rows)
	now := time.Now()
	priceChanges := 0

	// Update phase. A price history entry is appended only when the coerced
	// price differs from the stored one.
	for _, u := range part.updates {
		mapped := MapRowForUpdate(u.row)
		if err := database.UpdateListing(tx, u.existing.ID, &mapped); err != nil {
			return nil, err
		}
		if mapped.PricePLN != u.existing.PricePLN {
			if err := database.InsertPriceHistory(tx, u.existing.ID, mapped.PricePLN, now); err != nil {
				return nil, err
			}
			priceChanges++
		}
	}

	// Insert phase. Dealers are resolved find-or-create on (name, address
	// line 1); resolutions are memoized so same-batch rows share one lookup.
	dealerIDs := make(map[string]int64)
	seeds := make([]models.PriceHistory, 0, len(part.inserts))
	for _, row := range part.inserts {
		var dealerID *int64
		if HasDealerFields(row) {
			dealer := DealerFromRow(row)
			cacheKey := dealer.Name + "\x00" + dealer.AddressLine1
			id, ok := dealerIDs[cacheKey]
			if !ok {
				id, err = database.FindOrCreateDealer(tx, &dealer)
				if err != nil {
					return nil, err
				}
				dealerIDs[cacheKey] = id
			}
			dealerID = &id
		}

		mapped := MapRowForInsert(row, dealerID)
		newID, err := database.InsertListing(tx, &mapped)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, models.PriceHistory{ListingID: newID, PricePLN: mapped.PricePLN})
	}

	// Seed one price history entry per newly created listing.
	for _, seed := range seeds {
		if err := database.InsertPriceHistory(tx, seed.ListingID, seed.PricePLN, now); err != nil {
			return nil, err
		}
	}
	priceChanges += len(seeds)

	// Archive phase: everything that vanished from the batch, in one write.
	if err := database.ArchiveListings(tx, part.archives, now, ArchivedReasonNotInImport); err != nil {
		return nil, err
	}

	result := &models.SyncResult{
		TotalRows:    len(rows),
		Inserted:     len(part.inserts),
		Updated:      len(part.updates),
		Archived:     len(part.archives),
		PriceChanges: priceChanges,
		DurationMs:   time.Since(start).Milliseconds(),
	}

	// Failed is always 0 here: the run is all-or-nothing, a failed run
	// rolls back and leaves no log row at all.
	logID, err := database.InsertImportLog(tx, &models.ImportLog{
		UserID:      actingUserID,
		SourceLabel: sourceLabel,
		TotalRows:   result.TotalRows,
		Inserted:    result.Inserted,
		Updated:     result.Updated,
		Archived:    result.Archived,
		Failed:      0,
		Status:      models.ImportStatusSuccess,
		DurationMs:  result.DurationMs,
	})
	if err != nil {
		return nil, err
	}
	result.ImportLogID = logID

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sync transaction: %w", err)
	}

	log.Printf("Sync '%s' complete: %d rows, %d inserted, %d updated, %d archived, %d price changes in %dms.\n",
		sourceLabel, result.TotalRows, result.Inserted, result.Updated, result.Archived, result.PriceChanges, result.DurationMs)
	return result, nil
}
