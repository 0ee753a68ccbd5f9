// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/transtrings/transtrings/config"
)

var (
	cleanupMu     sync.Mutex
	lastCleanupAt time.Time
)

// DoCleanup removes expired limiters in the background, at most once per
// configured cleanup interval.
func DoCleanup() {
	now := timeNow()

	cleanupMu.Lock()
	defer cleanupMu.Unlock()

	if lastCleanupAt.IsZero() {
		lastCleanupAt = now

		return
	}

	if now.Sub(lastCleanupAt) < config.Global.Limiter.CleanupInterval {
		return
	}

	lastCleanupAt = now

	go func() {
		cleanupExpiredLimiters(now)

		dur := time.Since(now)
		log.Debug().Time("start", now).Dur("dur", dur).Msg("limiter cleanup")
	}()
}

// cleanupExpiredLimiters removes limiters that haven't been accessed for the expiry duration.
func cleanupExpiredLimiters(now time.Time) {
	var (
		expiredCount int
		keysToDelete []any
	)

	// Collect keys to delete in a slice to avoid deleting during Range()
	limiters.Range(func(key, value any) bool {
		limWrapper, ok := value.(*limiterWrapper)
		if !ok {
			log.Warn().Any("key", key).
				Msg("Found invalid limiter type in map")

			keysToDelete = append(keysToDelete, key)

			return true
		}

		limWrapper.mu.Lock()

		lastAccess := limWrapper.lastAccess
		limWrapper.mu.Unlock()

		if now.Sub(lastAccess) > config.Global.Limiter.Expiry {
			keysToDelete = append(keysToDelete, key)
		}

		return true
	})

	// Delete expired or invalid limiters
	for _, key := range keysToDelete {
		limiters.Delete(key)

		expiredCount++
	}

	if expiredCount > 0 {
		log.Info().Int("count", expiredCount).
			Msg("Cleaned up expired limiters")
	}
}
