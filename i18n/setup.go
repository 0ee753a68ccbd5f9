// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// OverlaySource provides translations that take precedence over the catalogue.
type OverlaySource interface {
	// Read returns every key and value stored for lang. A missing store is
	// reported as an empty map, not an error.
	Read(lang string) (map[string]string, error)
}

// Options configures Open.
type Options struct {
	// Locales are the locale codes to load, in the order reported by Locales.
	Locales []string
	// CatalogDirectory holds the <locale>.po files. Empty disables catalogues.
	CatalogDirectory string
	// Domain is the gettext domain the catalogues are registered under.
	Domain string
	// Overlay is optional.
	Overlay OverlaySource
	// StrictMissingKeys logs lookups that fall back to the msgid.
	StrictMissingKeys bool
}

// Catalog is an immutable snapshot of the translations of every configured
// locale. It is safe for concurrent use.
type Catalog struct {
	locales []string
	domain  string

	// catalogues maps a configured locale code to its loaded gotext.Locale.
	catalogues map[string]*gotext.Locale

	// overlay maps a configured locale code to its overlay entries.
	overlay map[string]map[string]string

	strict  bool
	missing *missingKeys
	logger  zerolog.Logger
}

var errNoLocales = errors.New("i18n: no locales configured")

// Open loads the catalogue and overlay entries of every locale in opts.
//
// It returns an error if a locale code is invalid or the overlay cannot be
// read. Catalogue files that are missing are skipped.
func Open(opts Options) (*Catalog, error) {
	if len(opts.Locales) == 0 {
		return nil, errNoLocales
	}

	domain := opts.Domain
	if domain == "" {
		domain = "messages"
	}

	cat := &Catalog{
		locales:    slices.Clone(opts.Locales),
		domain:     domain,
		catalogues: make(map[string]*gotext.Locale, len(opts.Locales)),
		overlay:    make(map[string]map[string]string, len(opts.Locales)),
		strict:     opts.StrictMissingKeys,
		missing:    &missingKeys{},
		logger:     log.With().Str("sys", "i18n").Logger(),
	}

	for _, code := range cat.locales {
		tag, err := ParseLocale(code)
		if err != nil {
			return nil, err
		}

		if opts.CatalogDirectory != "" {
			cat.loadCatalogue(opts.CatalogDirectory, code, tag.String())
		}

		if opts.Overlay != nil {
			entries, err := opts.Overlay.Read(code)
			if err != nil {
				return nil, fmt.Errorf("failed to read overlay for locale %s: %w", code, err)
			}

			cat.overlay[code] = entries
		}
	}

	return cat, nil
}

// loadCatalogue loads <dir>/<code>.po, trying the hyphen and underscore
// spellings of code.
func (cat *Catalog) loadCatalogue(dir, code, canonical string) {
	fsys := os.DirFS(dir)

	for _, name := range catalogueNames(code, canonical) {
		if _, err := fs.Stat(fsys, name); err != nil {
			continue
		}

		po := gotext.NewPoFS(fsys)
		po.ParseFile(name)

		loc := gotext.NewLocale("", canonical) // Base path is unused when manually adding translators.
		loc.AddTranslator(cat.domain, po)

		cat.catalogues[code] = loc

		cat.logger.Info().
			Str("locale", code).
			Str("domain", cat.domain).
			Str("file", filepath.Join(dir, name)).
			Msg("Loaded locale")

		return
	}

	cat.logger.Debug().
		Str("locale", code).
		Str("directory", dir).
		Msg("No catalogue for locale, using overlay only")
}

func catalogueNames(code, canonical string) []string {
	names := []string{
		code + ".po",
		strings.ReplaceAll(code, "-", "_") + ".po",
		strings.ReplaceAll(code, "_", "-") + ".po",
		canonical + ".po",
		strings.ReplaceAll(canonical, "-", "_") + ".po",
	}

	return slices.Compact(names)
}

// Locales returns the configured locales in configured order.
//
// The returned slice is a copy and is safe to retain.
func (cat *Catalog) Locales() []string {
	return slices.Clone(cat.locales)
}

// Languages describes the configured locales for the front-end.
func (cat *Catalog) Languages() []Language {
	return Describe(cat.locales)
}
