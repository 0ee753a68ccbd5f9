// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package translation

import (
	"regexp"
	"strings"
)

// Aggregate flattens m into records, applying f.
//
// Locales are visited in the order of m and keys in ascending byte order.
// When f.Lang is set only that locale is visited. When f.Context is set a key
// is kept if it contains "[scope]" for any of the comma separated scopes.
// The result is never nil.
func Aggregate(m *Map, f Filter) []Record {
	records := []Record{}

	scopes := contextMatcher(f.Context)

	for _, locale := range m.locales {
		if f.Lang != "" && f.Lang != locale {
			continue
		}

		entries := m.entries[locale]

		for _, key := range m.Keys(locale) {
			if scopes != nil && !scopes.MatchString(key) {
				continue
			}

			parsed := ParseKey(key)

			records = append(records, Record{
				Key:       key,
				Value:     entries[key],
				Lang:      locale,
				InputType: parsed.InputType,
				CleanKey:  parsed.CleanKey,
				Context:   parsed.Context,
			})
		}
	}

	return records
}

// contextMatcher compiles the scope filter, or returns nil when there is none.
func contextMatcher(context string) *regexp.Regexp {
	if context == "" {
		return nil
	}

	scopes := strings.Split(context, ",")

	alternatives := make([]string, len(scopes))
	for i, scope := range scopes {
		alternatives[i] = regexp.QuoteMeta("[" + scope + "]")
	}

	return regexp.MustCompile("(?:" + strings.Join(alternatives, "|") + ")")
}
