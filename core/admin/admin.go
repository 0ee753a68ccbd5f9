// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package admin builds the translatable strings services from the configuration.
package admin

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"codeberg.org/transtrings/transtrings/config"
	"codeberg.org/transtrings/transtrings/core/csvstore"
	"codeberg.org/transtrings/transtrings/core/extract"
	"codeberg.org/transtrings/transtrings/core/scancache"
	"codeberg.org/transtrings/transtrings/core/translation"
	"codeberg.org/transtrings/transtrings/i18n"
)

// Services bundles the components shared by the server and the command line.
type Services struct {
	Loader  *translation.Loader
	Store   *csvstore.Store
	Locales []string

	catalog i18n.Options
}

// New builds the services described by cfg.
func New(cfg *config.ServerConfig) *Services {
	store := csvstore.New(cfg.StorageDirectory(), cfg.Storage.Domain)

	loader := translation.NewLoader(translation.LoaderOptions{
		BasePath: cfg.Project.BasePath,
		Paths:    cfg.ExtractionPaths(),
		Sources: []translation.Source{
			{
				Extractor:  extract.New(cfg.Extraction.TemplateFormat, cfg.Extraction.TemplateTag),
				Extensions: cfg.Extraction.TemplateExtensions,
			},
			{
				Extractor:  extract.New(cfg.Extraction.SourceFormat, cfg.Extraction.FunctionName),
				Extensions: cfg.Extraction.SourceExtensions,
			},
		},
		MaxDepth:    cfg.Extraction.MaxDepth,
		Concurrency: cfg.Extraction.Concurrency,
		Cache:       newScanCache(cfg.Extraction.CacheSize),
	})

	locales := slices.Clone(cfg.Translator.Locales)

	return &Services{
		Loader:  loader,
		Store:   store,
		Locales: locales,
		catalog: i18n.Options{
			Locales:           locales,
			CatalogDirectory:  cfg.CatalogDirectory(),
			Domain:            cfg.Translator.CatalogDomain,
			Overlay:           store,
			StrictMissingKeys: cfg.Translator.StrictMissingKeys,
		},
	}
}

// newScanCache returns nil, which disables caching, for a size below one.
func newScanCache(size int) *scancache.Cache[[]translation.Occurrence] {
	cache, err := scancache.New[[]translation.Occurrence](size)
	if err != nil {
		return nil
	}

	return cache
}

// OpenCatalog reads the catalogues and the CSV files again and returns a
// snapshot of every locale.
func (s *Services) OpenCatalog() (*i18n.Catalog, error) {
	cat, err := i18n.Open(s.catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	return cat, nil
}

// Matcher returns a matcher over the configured locales.
func (s *Services) Matcher() *i18n.Matcher {
	return i18n.NewMatcher(s.Locales)
}

// Load extracts every string and filters the resolved translations with f.
func (s *Services) Load(ctx context.Context, f translation.Filter) ([]translation.Record, error) {
	records, _, err := s.load(ctx, f)

	return records, err
}

// Untranslated is like Load but keeps only the records that have neither a
// CSV value nor a catalogue entry, so the value shown is the original string.
func (s *Services) Untranslated(ctx context.Context, f translation.Filter) ([]translation.Record, error) {
	records, cat, err := s.load(ctx, f)
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(records, func(r translation.Record) bool {
		return cat.IsTranslated(r.Lang, r.Key)
	}), nil
}

func (s *Services) load(ctx context.Context, f translation.Filter) ([]translation.Record, *i18n.Catalog, error) {
	cat, err := s.OpenCatalog()
	if err != nil {
		return nil, nil, err
	}

	m, err := s.Loader.Load(ctx, cat)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load translatable strings: %w", err)
	}

	return translation.Aggregate(m, f), cat, nil
}

// Check opens the catalog once so that configuration problems surface at startup.
func (s *Services) Check() error {
	cat, err := s.OpenCatalog()
	if err != nil {
		return err
	}

	for _, lang := range cat.Languages() {
		log.Debug().
			Str("locale", lang.Code).
			Str("name", lang.Name).
			Msg("Locale available")
	}

	return nil
}
