// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package translation

import (
	"slices"
	"strings"
)

// Translator looks strings up in a locale.
//
// The locale is passed with every call; implementations must not rely on a
// shared current locale.
type Translator interface {
	// Locales returns the available locales in their configured order.
	Locales() []string
	// Translate returns the translation of msgid in locale, or msgid itself.
	Translate(locale, msgid string) string
}

// Map holds translations by locale, then by original string.
//
// Locales keep the order in which they were first set.
type Map struct {
	locales []string
	entries map[string]map[string]string
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{entries: make(map[string]map[string]string)}
}

// Set records the translation of original in locale.
func (m *Map) Set(locale, original, translated string) {
	entries, ok := m.entries[locale]
	if !ok {
		entries = make(map[string]string)
		m.entries[locale] = entries
		m.locales = append(m.locales, locale)
	}

	entries[original] = translated
}

// Get returns the translation of original in locale.
func (m *Map) Get(locale, original string) (string, bool) {
	v, ok := m.entries[locale][original]

	return v, ok
}

// Locales returns the locales of m in insertion order.
func (m *Map) Locales() []string {
	return slices.Clone(m.locales)
}

// Keys returns the original strings known in locale, in ascending byte order.
func (m *Map) Keys(locale string) []string {
	keys := make([]string, 0, len(m.entries[locale]))
	for k := range m.entries[locale] {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// Len returns the number of (locale, original) pairs in m.
func (m *Map) Len() int {
	n := 0
	for _, entries := range m.entries {
		n += len(entries)
	}

	return n
}

// Resolve translates every original string in every locale of tr.
//
// Translations are unescaped with Unescape before being stored.
func Resolve(tr Translator, originals []string) *Map {
	m := NewMap()

	for _, locale := range tr.Locales() {
		for _, original := range originals {
			m.Set(locale, original, Unescape(tr.Translate(locale, original)))
		}
	}

	return m
}

// Unescape removes backslash escapes from s.
//
// A backslash followed by any character yields that character, so `\'`
// becomes `'` and `\\` becomes `\`, except `\0` which yields a NUL byte.
// A trailing lone backslash is dropped.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder

	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			if i == len(s) {
				break
			}

			if s[i] == '0' {
				b.WriteByte(0)

				continue
			}
		}

		b.WriteByte(s[i])
	}

	return b.String()
}
