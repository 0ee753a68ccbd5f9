// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestParseKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want Key
	}{
		{"plaintitle", Key{CleanKey: "plaintitle"}},
		{"[promo]title:wysiwyg", Key{Context: ptr("promo"), InputType: ptr("wysiwyg"), CleanKey: "title"}},
		{"[promo]title", Key{Context: ptr("promo"), CleanKey: "title"}},
		{"title:html", Key{InputType: ptr("html"), CleanKey: "title"}},
		{"[]empty scope", Key{Context: ptr(""), CleanKey: "empty scope"}},
		// every occurrence of the scope is removed
		{"[a]x[a]y", Key{Context: ptr("a"), CleanKey: "xy"}},
		// only a leading scope counts
		{"x[a]", Key{CleanKey: "x[a]"}},
		// the colon must be followed by non-space up to the end
		{"Note: read this", Key{CleanKey: "Note: read this"}},
		// leftmost qualifying colon, leading colons trimmed
		{"a:b:c", Key{InputType: ptr("b:c"), CleanKey: "a"}},
		{"a::b", Key{InputType: ptr("b"), CleanKey: "a"}},
		// unknown types are kept
		{"logo:svg", Key{InputType: ptr("svg"), CleanKey: "logo"}},
		{"trailing:", Key{InputType: ptr(""), CleanKey: "trailing"}},
		// one final newline, as in a multi-line template tag
		{"title:html\n", Key{InputType: ptr("html"), CleanKey: "title\n"}},
		{"\n  [promo]title:wysiwyg\n", Key{InputType: ptr("wysiwyg"), CleanKey: "\n  [promo]title\n"}},
		{"title:html\n\n", Key{CleanKey: "title:html\n\n"}},
		{"", Key{CleanKey: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseKey(tt.raw))
		})
	}
}
