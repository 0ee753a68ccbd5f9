// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package audit logs the work done for a request as spans: the request
// itself, every file scanned and every translation file rewritten.
package audit

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetDefaultLogger logs to stderr in console format until the configuration
// replaces the logger. NO_COLOR disables colours.
func SetDefaultLogger() {
	_, noColor := os.LookupEnv("NO_COLOR")

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    noColor,
		TimeFormat: time.DateTime,
	})
}
