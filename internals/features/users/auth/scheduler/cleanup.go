package scheduler

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	authRepo "feeportal_backend/internals/features/users/auth/repository"
)

const cleanupInterval = 24 * time.Hour

// StartBlacklistCleanupScheduler purges blacklist rows whose token expired more than
// TOKEN_BLACKLIST_TTL_DAYS ago, once at start and then daily until ctx is cancelled.
func StartBlacklistCleanupScheduler(ctx context.Context, db *gorm.DB, ttlDays int) {
	if ttlDays < 0 {
		ttlDays = 0
	}
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			RunBlacklistCleanup(ctx, db, ttlDays, time.Now())
			select {
			case <-ctx.Done():
				log.Info("[CLEANUP] token_blacklist scheduler stopped")
				return
			case <-ticker.C:
			}
		}
	}()
}

func RunBlacklistCleanup(ctx context.Context, db *gorm.DB, ttlDays int, now time.Time) int64 {
	before := now.Add(-time.Duration(ttlDays) * 24 * time.Hour)
	n, err := authRepo.CleanupExpiredBlacklist(ctx, db, before)
	if err != nil {
		log.Printf("[CLEANUP ERROR] failed to purge token_blacklist: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("[CLEANUP] %d expired tokens removed", n)
	}
	return n
}
