// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	// Default number of files scanned concurrently.
	defaultExtractionConcurrency = 4

	// Default sustained request rate per client, in requests per second.
	defaultLimiterRate = 5
	// Default number of requests a client may burst above the sustained rate.
	defaultLimiterBurst = 20
	// Default idle time after which a client's bucket is forgotten, in minutes.
	defaultLimiterExpiryMinutes = 10
	// Default interval between bucket cleanups, in minutes.
	defaultLimiterCleanupIntervalMinutes = 1
	// Default network prefix lengths; single IPv4 hosts, IPv6 /64 subnets.
	defaultLimiterIPv4Prefix = 32
	defaultLimiterIPv6Prefix = 64
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8282"

	cfg.Project.BasePath = "."
	cfg.Project.ViewPaths = []string{"templates/"}
	cfg.Project.ParserViewPaths = nil
	cfg.Project.SourcePaths = []string{"src/"}

	cfg.Extraction.TemplateFormat = "template-tag"
	cfg.Extraction.TemplateTag = "_t"
	cfg.Extraction.TemplateExtensions = []string{"mustache"}
	cfg.Extraction.SourceFormat = "function-call"
	cfg.Extraction.FunctionName = "translate"
	cfg.Extraction.SourceExtensions = []string{"php"}
	cfg.Extraction.MaxDepth = 0
	cfg.Extraction.Concurrency = defaultExtractionConcurrency
	cfg.Extraction.CacheSize = 0 // every load reads the files again

	cfg.Storage.Directory = "translations"
	cfg.Storage.Domain = "messages"

	cfg.Translator.Locales = []string{"en"}
	cfg.Translator.CatalogDirectory = "po"
	cfg.Translator.CatalogDomain = "messages"
	cfg.Translator.StrictMissingKeys = false

	cfg.HTTP.RoutePrefix = "/admin"
	cfg.HTTP.Compression = true

	cfg.Limiter.Enabled = false
	cfg.Limiter.Rate = defaultLimiterRate
	cfg.Limiter.Burst = defaultLimiterBurst
	cfg.Limiter.Expiry = defaultLimiterExpiryMinutes * time.Minute
	cfg.Limiter.CleanupInterval = defaultLimiterCleanupIntervalMinutes * time.Minute
	cfg.Limiter.IPv4Prefix = defaultLimiterIPv4Prefix
	cfg.Limiter.IPv6Prefix = defaultLimiterIPv6Prefix
	cfg.Limiter.PassIPs = nil

	cfg.Development.InDevelopment = false

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
