package storage

import (
	"context"
	"log"
	"time"
)

// RunTrendingPruner runs a background goroutine that drops stale trending
// observations every hour until ctx is done. Call from main.
func RunTrendingPruner(ctx context.Context, store *Storage, conversations func() []string) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.PruneTrending(conversations(), time.Hour, time.Now()); err != nil {
				log.Println("[ERR] Error pruning trending observations:", err)
			}
		}
	}
}
