// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
This file provides network-based rate limiting for HTTP requests.

Clients are grouped by their IP network, and every network gets its own
token bucket sized by the Limiter section of the configuration.
*/
package limiter

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"codeberg.org/transtrings/transtrings/config"
)

var (
	limiters sync.Map   // In-memory storage for rate limiters.
	timeNow  = time.Now // Wrapper for time.Now, which allows us to mock it in tests.
)

// limiterWrapper holds a rate limiter and additional metadata.
//
// Limiters are associated with an IP network and persist in the limiters sync.Map.
type limiterWrapper struct {
	limiter    *rate.Limiter
	network    string     // Associated network identifier
	lastAccess time.Time  // Last time limiter was accessed
	mu         sync.Mutex // mutex for operations on this limiter
}

// decision is the outcome of checkRateLimit.
type decision struct {
	allowed bool
	// limit is the bucket size.
	limit int
	// remaining is the number of whole tokens left after the request.
	remaining int
	// reset is the time until the next token is available.
	reset time.Duration
}

// checkRateLimit attempts to consume 1 token from the limiterWrapper.
func checkRateLimit(limiter *limiterWrapper) decision {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	now := timeNow()

	// Update last access time
	limiter.lastAccess = now

	d := decision{
		allowed: limiter.limiter.AllowN(now, 1),
		limit:   limiter.limiter.Burst(),
	}

	tokens := limiter.limiter.TokensAt(now)
	d.remaining = max(int(math.Floor(tokens)), 0)

	if tokens < 1 {
		missing := 1 - tokens
		d.reset = time.Duration(missing / float64(limiter.limiter.Limit()) * float64(time.Second))
	}

	return d
}

// getOrCreateLimiter returns the limiterWrapper of the given network,
// creating it with the configured rate and burst when needed.
func getOrCreateLimiter(networkStr string) *limiterWrapper {
	if value, ok := limiters.Load(networkStr); ok {
		if limWrapper, ok := value.(*limiterWrapper); ok {
			return limWrapper
		}
	}

	limWrapper := newLimiterWrapper(config.Global.Limiter.Rate, config.Global.Limiter.Burst, networkStr)

	actual, _ := limiters.LoadOrStore(networkStr, limWrapper)

	if existing, ok := actual.(*limiterWrapper); ok {
		return existing
	}

	// An invalid value was stored under the key; replace it.
	limiters.Store(networkStr, limWrapper)

	return limWrapper
}

// newLimiterWrapper creates a new limiterWrapper with the given parameters.
func newLimiterWrapper(rateLim float64, burstLim int, network string) *limiterWrapper {
	return &limiterWrapper{
		limiter:    rate.NewLimiter(rate.Limit(rateLim), burstLim),
		network:    network,
		lastAccess: timeNow(),
	}
}

// limiterCount returns the number of networks currently tracked.
func limiterCount() int {
	n := 0

	limiters.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}
