// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// BaseLocale is the locale used when no locale is configured.
const BaseLocale = "en"

// LangParam is the name of the URL query parameter used to pick the admin's
// preferred locale as a BCP 47 tag.
const LangParam = "lang"

// Language describes a configured locale for the front-end.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ParseLocale parses code as a BCP 47 tag, accepting underscores as separators.
func ParseLocale(code string) (language.Tag, error) {
	t, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", code, err)
	}

	return t, nil
}

// DisplayName returns the name of the locale in its own language, for example
// "français" for "fr". Codes that cannot be parsed are returned unchanged.
func DisplayName(code string) string {
	t, err := ParseLocale(code)
	if err != nil {
		return code
	}

	if name := display.Self.Name(t); name != "" {
		return name
	}

	return code
}

// Describe returns a Language for each code, in order.
func Describe(codes []string) []Language {
	out := make([]Language, len(codes))
	for i, code := range codes {
		out[i] = Language{Code: code, Name: DisplayName(code)}
	}

	return out
}

// Matcher picks the configured locale that best fits a request.
type Matcher struct {
	locales []string
	matcher language.Matcher
}

// NewMatcher returns a Matcher over locales. The first locale is the fallback.
//
// Codes that cannot be parsed never match but keep their position.
// With no locales, BaseLocale is used.
func NewMatcher(locales []string) *Matcher {
	if len(locales) == 0 {
		locales = []string{BaseLocale}
	}

	tags := make([]language.Tag, len(locales))
	for i, code := range locales {
		t, err := ParseLocale(code)
		if err != nil {
			t = language.Und
		}

		tags[i] = t
	}

	return &Matcher{locales: locales, matcher: language.NewMatcher(tags)}
}

// FromRequest returns the best configured locale for r by inspecting user
// preferences in priority order:
// 1) query parameter [LangParam]
// 2) Accept-Language header
//
// It returns the matched tag and the configured code it belongs to.
// If r is nil, the first configured locale is returned.
func (m *Matcher) FromRequest(r *http.Request) (language.Tag, string) {
	if r == nil {
		return m.Match()
	}

	preferred := make([]string, 0, 2)

	if q := r.URL.Query().Get(LangParam); q != "" {
		preferred = append(preferred, q)
	}

	if al := r.Header.Get("Accept-Language"); al != "" {
		preferred = append(preferred, al)
	}

	return m.Match(preferred...)
}

// Match matches preferred, a list of tags or Accept-Language values, against
// the configured locales.
func (m *Matcher) Match(preferred ...string) (language.Tag, string) {
	tag, index := language.MatchStrings(m.matcher, preferred...)

	return tag, m.locales[index]
}
