// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"sync"
	"testing"
	"time"

	"codeberg.org/transtrings/transtrings/config"
)

// testConfigMutex serializes tests that mutate global package state.
var testConfigMutex sync.Mutex

// mockTimeProvider maintains a controllable current time for testing.
type mockTimeProvider struct {
	mu          sync.Mutex
	currentTime time.Time
}

// Now returns the current mock time.
func (m *mockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.currentTime
}

// Sleep advances the mock current time by the specified duration.
func (m *mockTimeProvider) Sleep(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.currentTime = m.currentTime.Add(d)
}

// setupLimiterTest prepares a test environment with a mock time provider
// and a limiter configuration of 1 request per second with a burst of 3.
//
// The original time function, config and limiters are restored when the test completes.
//
// NOTE: Do not call setupLimiterTest again in subtests; it's guarded by a
// global mutex and re-entering it would deadlock.
func setupLimiterTest(t *testing.T) *mockTimeProvider {
	t.Helper()

	testConfigMutex.Lock()

	origConfig := config.Global
	origTimeNow := timeNow

	config.Global.Limiter.Enabled = true
	config.Global.Limiter.Rate = 1
	config.Global.Limiter.Burst = 3
	config.Global.Limiter.Expiry = 10 * time.Minute
	config.Global.Limiter.CleanupInterval = time.Minute
	config.Global.Limiter.IPv4Prefix = 24
	config.Global.Limiter.IPv6Prefix = 64
	config.Global.Limiter.PassIPs = []string{"192.0.2.10"}

	mockTime := &mockTimeProvider{currentTime: time.Now()}
	timeNow = mockTime.Now

	limiters.Clear()

	t.Cleanup(func() {
		timeNow = origTimeNow
		config.Global = origConfig

		limiters.Clear()

		cleanupMu.Lock()
		lastCleanupAt = time.Time{}
		cleanupMu.Unlock()

		testConfigMutex.Unlock()
	})

	return mockTime
}
