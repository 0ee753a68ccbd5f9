// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import "strings"

// Format names a marker syntax.
type Format string

// Known formats.
const (
	TemplateTag  Format = "template-tag"
	FunctionCall Format = "function-call"
)

// DefaultTag is the template tag name used when none is configured.
const DefaultTag = "_t"

// KnownFormat reports whether format names a supported marker syntax.
func KnownFormat(format string) bool {
	switch Format(format) {
	case TemplateTag, FunctionCall:
		return true
	default:
		return false
	}
}

// Extractor scans file contents for one marker syntax.
//
// The zero value scans for {{#_t}}...{{/_t}} template tags.
type Extractor struct {
	Format Format
	// Name is the tag name for TemplateTag or the method name for FunctionCall.
	Name string
}

// New returns an Extractor for format and name.
//
// Unknown formats fall back to TemplateTag with DefaultTag, whatever name was given.
func New(format, name string) Extractor {
	switch Format(format) {
	case FunctionCall:
		return Extractor{Format: FunctionCall, Name: strings.TrimSpace(name)}
	case TemplateTag:
		name = strings.TrimSpace(name)
		if name == "" {
			name = DefaultTag
		}

		return Extractor{Format: TemplateTag, Name: name}
	default:
		return Extractor{Format: TemplateTag, Name: DefaultTag}
	}
}

// Match is one extracted string.
type Match struct {
	// Text is the marker content, verbatim.
	Text string
	// Offset is the byte offset of the marker in the scanned content.
	Offset int
}

// Extract returns the text of every marker in content, in order of appearance.
//
// Empty markers yield an empty string. Extraction never fails; content
// without markers yields nil.
func (e Extractor) Extract(content string) []string {
	matches := e.Scan(content)
	if len(matches) == 0 {
		return nil
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Text
	}

	return out
}

// Scan is like Extract but also reports where each marker was found.
func (e Extractor) Scan(content string) []Match {
	switch e.Format {
	case FunctionCall:
		if e.Name == "" {
			return nil
		}

		return scanFunctionCalls(content, e.Name)
	default:
		name := e.Name
		if name == "" {
			name = DefaultTag
		}

		return scanTemplateTags(content, name)
	}
}

// LineAt returns the 1-based line number of offset within content.
func LineAt(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}

	return 1 + strings.Count(content[:offset], "\n")
}
