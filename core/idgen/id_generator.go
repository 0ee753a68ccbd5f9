// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package idgen makes short identifiers used to correlate log lines.
package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"time"
)

// Make makes a short ID with a 6 byte timestamp and 3 bytes of entropy.
func Make() string {
	entropy := [3]byte{'a', 'a', 'a'} // used as is if the read fails

	_, _ = rand.Read(entropy[:])

	return maketime(time.Now()) + base64.RawURLEncoding.EncodeToString(entropy[:])
}

// Child derives the ID of the n-th unit of work started under parent.
//
// An empty parent yields a fresh ID.
func Child(parent string, n int) string {
	if parent == "" {
		parent = Make()
	}

	return parent + "-" + strconv.FormatInt(int64(n), 36)
}

func maketime(t time.Time) string {
	return t.Format("150405")
}
