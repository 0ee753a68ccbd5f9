// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package widget holds the front-end configuration of the translatable
// strings grid.
package widget

import (
	"maps"

	"codeberg.org/transtrings/transtrings/i18n"
)

// Option names shared with the front-end.
const (
	OptionTranslatableContext = "translatable_context"
	OptionShowContext         = "show_context"
	OptionHasFiltering        = "has_filtering"
)

// Data is the configuration handed to the front-end grid.
type Data struct {
	// TranslatableContext restricts the grid to keys of these comma separated scopes.
	TranslatableContext *string `json:"translatable_context"`
	// ShowContext shows the context column.
	ShowContext bool `json:"show_context"`
	// HasFiltering enables the filter controls.
	HasFiltering bool            `json:"has_filtering"`
	Locales      []i18n.Language `json:"locales"`
	CurrentLang  string          `json:"current_lang"`
}

// TranslatableStrings configures the grid. Unset options fall back to DefaultData.
type TranslatableStrings struct {
	translatableContext *string
	showContext         *bool
	hasFiltering        *bool

	locales     []i18n.Language
	currentLang string
}

// SetTranslatableContext restricts the grid to the given comma separated scopes.
func (w *TranslatableStrings) SetTranslatableContext(context string) *TranslatableStrings {
	w.translatableContext = &context

	return w
}

// SetShowContext sets whether the context column is shown.
func (w *TranslatableStrings) SetShowContext(flag bool) *TranslatableStrings {
	w.showContext = &flag

	return w
}

// SetHasFiltering sets whether the filter controls are available.
func (w *TranslatableStrings) SetHasFiltering(flag bool) *TranslatableStrings {
	w.hasFiltering = &flag

	return w
}

// SetLocales sets the locales offered by the grid and the one selected first.
func (w *TranslatableStrings) SetLocales(locales []i18n.Language, current string) *TranslatableStrings {
	w.locales = locales
	w.currentLang = current

	return w
}

// TranslatableContext returns the configured scopes, or nil.
func (w *TranslatableStrings) TranslatableContext() *string { return w.translatableContext }

// ShowContext returns the configured flag, or nil.
func (w *TranslatableStrings) ShowContext() *bool { return w.showContext }

// HasFiltering returns the configured flag, or nil.
func (w *TranslatableStrings) HasFiltering() *bool { return w.hasFiltering }

// DefaultData returns the options used when nothing is configured.
func DefaultData() map[string]any {
	return map[string]any{
		OptionTranslatableContext: nil,
		OptionShowContext:         true,
		OptionHasFiltering:        true,
	}
}

// ParseData returns the configured options, leaving out unset ones.
func (w *TranslatableStrings) ParseData() map[string]any {
	data := make(map[string]any, 3)

	if w.translatableContext != nil {
		data[OptionTranslatableContext] = *w.translatableContext
	}

	if w.showContext != nil {
		data[OptionShowContext] = *w.showContext
	}

	if w.hasFiltering != nil {
		data[OptionHasFiltering] = *w.hasFiltering
	}

	return data
}

// DataForJS merges the configured options over DefaultData.
func (w *TranslatableStrings) DataForJS() Data {
	merged := DefaultData()
	maps.Copy(merged, w.ParseData())

	data := Data{
		Locales:     w.locales,
		CurrentLang: w.currentLang,
	}

	if v, ok := merged[OptionTranslatableContext].(string); ok {
		data.TranslatableContext = &v
	}

	data.ShowContext, _ = merged[OptionShowContext].(bool)
	data.HasFiltering, _ = merged[OptionHasFiltering].(bool)

	if data.Locales == nil {
		data.Locales = []i18n.Language{}
	}

	return data
}
