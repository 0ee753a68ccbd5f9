// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/transtrings/transtrings/core/extract"
)

// validation errors.
var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errUnixSocketUserDoesNotExist   = errors.New("user does not exist")
	errUnixSocketGroupDoesNotExist  = errors.New("group does not exist")
	errNoLocales                    = errors.New("at least one locale must be configured in Translator.Locales")
	errInvalidLocale                = errors.New("invalid locale in Translator.Locales")
	errEmptyStorageDomain           = errors.New("Storage.Domain cannot be empty")
	errEmptyStorageDirectory        = errors.New("Storage.Directory cannot be empty")
	errInvalidMaxDepth              = errors.New("Extraction.MaxDepth cannot be negative")
	errInvalidConcurrency           = errors.New("Extraction.Concurrency must be at least 1")
	errInvalidCacheSize             = errors.New("Extraction.CacheSize cannot be negative")
	errInvalidRoutePrefix           = errors.New("HTTP.RoutePrefix must start with '/'")
	errInvalidLimiterRate           = errors.New("Limiter.Rate must be greater than 0")
	errInvalidLimiterBurst          = errors.New("Limiter.Burst must be at least 1")
	errInvalidLimiterExpiry         = errors.New("Limiter.Expiry and Limiter.CleanupInterval must be greater than 0")
	errInvalidLimiterPrefix         = errors.New("Limiter.IPv4Prefix must be within 1-32 and Limiter.IPv6Prefix within 1-128")
)

var (
	fileModeOctalRegexp  = regexp.MustCompile(`^0?[0-7]{3}$`)
	fileModeStringRegexp = regexp.MustCompile(`^(?:[r-][w-][x-]){3}$`)
	digitsRegexp         = regexp.MustCompile(`^[0-9]+$`)
)

// validateAndSet validates the server configuration and populates some fields.
func (cfg *ServerConfig) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	if err := cfg.validateExtraction(); err != nil {
		return err
	}

	if err := cfg.validateTranslator(); err != nil {
		return err
	}

	if cfg.Storage.Directory == "" {
		return errEmptyStorageDirectory
	}

	if cfg.Storage.Domain == "" {
		return errEmptyStorageDomain
	}

	if !strings.HasPrefix(cfg.HTTP.RoutePrefix, "/") {
		return errInvalidRoutePrefix
	}

	cfg.HTTP.RoutePrefix = strings.TrimRight(cfg.HTTP.RoutePrefix, "/")

	// Skip validating Limiter configuration if it's not enabled
	if !cfg.Limiter.Enabled {
		return nil
	}

	if cfg.Limiter.Rate <= 0 {
		return errInvalidLimiterRate
	}

	if cfg.Limiter.Burst < 1 {
		return errInvalidLimiterBurst
	}

	if cfg.Limiter.Expiry <= 0 || cfg.Limiter.CleanupInterval <= 0 {
		return errInvalidLimiterExpiry
	}

	if cfg.Limiter.IPv4Prefix < 1 || cfg.Limiter.IPv4Prefix > 32 || cfg.Limiter.IPv6Prefix < 1 || cfg.Limiter.IPv6Prefix > 128 {
		return errInvalidLimiterPrefix
	}

	return nil
}

func (cfg *ServerConfig) validateListener() error {
	if cfg.Basic.UnixSocket == "" {
		// Set TCP defaults
		if cfg.Basic.Host == "" {
			cfg.Basic.Host = "localhost"
			log.Info().
				Str("host", cfg.Basic.Host).
				Msg("Binding to default host")
		}

		if cfg.Basic.Port == "" {
			cfg.Basic.Port = "8282"
			log.Info().
				Str("port", cfg.Basic.Port).
				Msg("Using default port")
		}

		return nil
	}

	if cfg.Basic.Host != "" || cfg.Basic.Port != "" {
		return errUnixSocketWithHostPort
	}

	// Handle unix socket permissions
	switch {
	case cfg.Basic.RawUnixSocketPermissions == "":
		cfg.Basic.UnixSocketPermissions = 0o666
	case fileModeOctalRegexp.MatchString(cfg.Basic.RawUnixSocketPermissions):
		rawModeUint64, _ := strconv.ParseUint(cfg.Basic.RawUnixSocketPermissions, 8, 32)

		cfg.Basic.UnixSocketPermissions = os.FileMode(rawModeUint64)
	case fileModeStringRegexp.MatchString(cfg.Basic.RawUnixSocketPermissions):
		mode := os.FileMode(0)

		for i, c := range cfg.Basic.RawUnixSocketPermissions {
			// If permission bit is set
			if c != '-' {
				// Set i-th bit from the end
				const bitsInByte = 8

				mode |= 1 << (bitsInByte - i)
			}
		}

		cfg.Basic.UnixSocketPermissions = mode
	default:
		return errUnixSocketInvalidPermissions
	}

	if cfg.Basic.UnixSocketUser != "" {
		lookup := user.Lookup
		if digitsRegexp.MatchString(cfg.Basic.UnixSocketUser) {
			lookup = user.LookupId
		}

		if _, err := lookup(cfg.Basic.UnixSocketUser); err != nil {
			return errUnixSocketUserDoesNotExist
		}
	}

	if cfg.Basic.UnixSocketGroup != "" {
		lookup := user.LookupGroup
		if digitsRegexp.MatchString(cfg.Basic.UnixSocketGroup) {
			lookup = user.LookupGroupId
		}

		if _, err := lookup(cfg.Basic.UnixSocketGroup); err != nil {
			return errUnixSocketGroupDoesNotExist
		}
	}

	return nil
}

func (cfg *ServerConfig) validateExtraction() error {
	if cfg.Extraction.MaxDepth < 0 {
		return errInvalidMaxDepth
	}

	if cfg.Extraction.Concurrency < 1 {
		return errInvalidConcurrency
	}

	if cfg.Extraction.CacheSize < 0 {
		return errInvalidCacheSize
	}

	// Unknown formats are scanned as template tags.
	for name, format := range map[string]string{
		"Extraction.TemplateFormat": cfg.Extraction.TemplateFormat,
		"Extraction.SourceFormat":   cfg.Extraction.SourceFormat,
	} {
		if !extract.KnownFormat(format) {
			log.Warn().
				Str("option", name).
				Str("format", format).
				Msg("Unknown extraction format, falling back to " + string(extract.TemplateTag))
		}
	}

	return nil
}

func (cfg *ServerConfig) validateTranslator() error {
	if len(cfg.Translator.Locales) == 0 {
		return errNoLocales
	}

	seen := make(map[string]bool, len(cfg.Translator.Locales))
	locales := make([]string, 0, len(cfg.Translator.Locales))

	for _, locale := range cfg.Translator.Locales {
		locale = strings.TrimSpace(locale)

		if _, err := language.Parse(locale); err != nil {
			return fmt.Errorf("%w: %q: %w", errInvalidLocale, locale, err)
		}

		if seen[locale] {
			continue
		}

		seen[locale] = true
		locales = append(locales, locale)
	}

	cfg.Translator.Locales = locales

	return nil
}
