package scheduler

import (
	"context"
	"log"
	"time"

	helperAuth "cashierku_backend/internals/helpers/auth"

	"gorm.io/gorm"
)

// StartBlacklistCleanupScheduler purges expired revoked tokens every interval until ctx ends.
func StartBlacklistCleanupScheduler(ctx context.Context, db *gorm.DB, every time.Duration) {
	if every <= 0 {
		every = 24 * time.Hour
	}
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			n, err := helperAuth.PurgeExpired(ctx, db)
			switch {
			case err != nil:
				log.Printf("[CLEANUP ERROR] token_blacklist purge failed: %v", err)
			case n > 0:
				log.Printf("[CLEANUP] %d expired tokens removed", n)
			}
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
		}
	}()
}
