// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import "sync"

// missingKeys deduplicates WARN logs for missing msgids in strict mode.
// The key is locale+"\x00"+msgid.
type missingKeys struct {
	seen sync.Map
}

// logMissingOnce logs a missing translation warning once per (locale, msgid) pair.
func (cat *Catalog) logMissingOnce(locale, key string) {
	id := locale + "\x00" + key
	if _, loaded := cat.missing.seen.LoadOrStore(id, struct{}{}); !loaded {
		cat.logger.Warn().
			Str("locale", locale).
			Str("key", key).
			Msg("Missing i18n translation")
	}
}
