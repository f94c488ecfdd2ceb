package db

import (
	"context"
	"fmt"
	"log"
)

// PruneImportBatches deletes all but the most recent keep import
// batches. Trips cascade with their batch. Keeps everything when
// keep <= 0.
func (db *DB) PruneImportBatches(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}

	result, err := db.conn.ExecContext(ctx, `
		DELETE FROM import_batches
		WHERE batch_id NOT IN (
			SELECT batch_id FROM import_batches
			ORDER BY imported_at_utc DESC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune import batches: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n > 0 {
		log.Printf("Pruned %d old import batches", n)
	}
	return nil
}
