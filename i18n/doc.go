// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n provides the translation lookup service backed by GNU gettext
.po catalogues and the CSV files written by the admin.

# Quick start

Open a Catalog for the configured locales and look strings up with an
explicit locale:

	cat, err := i18n.Open(i18n.Options{
		Locales:          []string{"en", "fr"},
		CatalogDirectory: "po",
		Domain:           "messages",
		Overlay:          store,
	})
	cat.Translate("fr", "Hello") // "Bonjour"

There is no current locale: every lookup names the locale it wants, so one
Catalog can be shared by concurrent requests.

# Catalogue layout

For each configured locale the file

	<CatalogDirectory>/<locale>.po

is loaded when present. The <locale> filename part may use hyphens or
underscores, for example "pt-BR.po" or "pt_BR.po". A missing file is not an
error; the locale then only has overlay entries.

# Overlay

Entries read from the Overlay (the CSV store) take precedence over the
catalogue, so edits made through the admin are visible as soon as a Catalog is
opened again. An overlay entry with an empty value still counts as translated.

# Missing translations

Missing translations return the msgid unchanged. When StrictMissingKeys is
enabled, missing lookups are additionally logged once per locale+key.
*/
package i18n
