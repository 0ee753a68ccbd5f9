// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

// Translate returns the translation of msgid in locale.
//
// Overlay entries win over the catalogue. If neither has msgid, or locale is
// not configured, msgid is returned unchanged.
func (cat *Catalog) Translate(locale, msgid string) string {
	text, found := cat.lookup(locale, msgid)
	if !found && cat.strict {
		cat.logMissingOnce(locale, msgid)
	}

	return text
}

// IsTranslated reports whether locale has an overlay or catalogue entry for msgid.
func (cat *Catalog) IsTranslated(locale, msgid string) bool {
	_, found := cat.lookup(locale, msgid)

	return found
}

func (cat *Catalog) lookup(locale, msgid string) (string, bool) {
	if v, ok := cat.overlay[locale][msgid]; ok {
		return v, true
	}

	// The empty msgid is the catalogue header.
	if msgid == "" {
		return msgid, false
	}

	if loc := cat.catalogues[locale]; loc != nil && loc.IsTranslatedD(cat.domain, msgid) {
		return loc.GetD(cat.domain, msgid), true
	}

	return msgid, false
}
