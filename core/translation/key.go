// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package translation

import (
	"regexp"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// InputTypes lists the editor input types the front-end knows how to render.
var InputTypes = []string{"html", "wysiwyg", "text", "img", "image"}

var (
	contextRegexp   = regexp.MustCompile(`^\[([^\]]*)\]`)
	inputTypeRegexp = regexp.MustCompile(`:\S*\n?\z`)
)

// Key is a decomposed translation key of the form "[context]clean:type".
type Key struct {
	Context   *string
	InputType *string
	CleanKey  string
}

// ParseKey splits raw into its context, input type and clean key.
//
// A leading "[scope]" becomes the context and every occurrence of it is
// removed from the clean key. A trailing ":type" without whitespace, optionally
// followed by a single final newline, becomes the input type, leading colons
// trimmed; the newline stays in the clean key. Types outside InputTypes are kept
// as is and only logged.
// ParseKey never fails; a key without either part is returned whole.
func ParseKey(raw string) Key {
	var key Key

	clean := raw

	if m := contextRegexp.FindStringSubmatch(clean); m != nil {
		scope := m[1]
		key.Context = &scope
		clean = strings.ReplaceAll(clean, m[0], "")
	}

	// The suffix is looked up on the raw key, then removed from the clean one.
	if suffix := strings.TrimSuffix(inputTypeRegexp.FindString(raw), "\n"); suffix != "" {
		inputType := strings.TrimLeft(suffix, ":")
		key.InputType = &inputType
		clean = strings.ReplaceAll(clean, suffix, "")

		if !slices.Contains(InputTypes, inputType) {
			log.Debug().
				Str("key", raw).
				Str("input_type", inputType).
				Msg("Unknown input type in translation key")
		}
	}

	key.CleanKey = clean

	return key
}
