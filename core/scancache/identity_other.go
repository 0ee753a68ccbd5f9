// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build !linux

package scancache

import (
	"io/fs"
	"time"
)

// fileIdentity is unavailable here; stamps fall back to size and modification time.
func fileIdentity(fs.FileInfo) (uint64, time.Time) {
	return 0, time.Time{}
}
