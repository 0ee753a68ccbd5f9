// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import "strings"

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}

	return i
}

// hasPrefixFold reports whether s[i:] starts with prefix, ignoring ASCII case.
func hasPrefixFold(s string, i int, prefix string) bool {
	if len(s)-i < len(prefix) {
		return false
	}

	return strings.EqualFold(s[i:i+len(prefix)], prefix)
}

// scanFunctionCalls finds ->name("literal") and ->name('literal') calls.
//
// Whitespace may precede the opening quote. Backslash escapes are honoured
// when looking for the closing quote but kept in the result. Whitespace at the
// end of the literal is dropped. The literal must be followed by optional
// whitespace and either ')' or ',' for further arguments.
func scanFunctionCalls(content, name string) []Match {
	var matches []Match

	call := name + "("

	for i := 0; i < len(content); {
		arrow := strings.Index(content[i:], "->")
		if arrow < 0 {
			break
		}

		start := i + arrow
		i = start + len("->")

		if !hasPrefixFold(content, i, call) {
			continue
		}

		text, end, ok := readCallArgument(content, i+len(call))
		if !ok {
			continue
		}

		i = end

		matches = append(matches, Match{Text: text, Offset: start})
	}

	return matches
}

// readCallArgument reads a quoted literal starting at or after i and returns
// it together with the offset just past the literal.
func readCallArgument(s string, i int) (string, int, bool) {
	i = skipSpace(s, i)
	if i >= len(s) || (s[i] != '"' && s[i] != '\'') {
		return "", 0, false
	}

	quote := s[i]
	start := i + 1

	j := start
	for j < len(s) && s[j] != quote {
		if s[j] == '\\' {
			j++
		}

		j++
	}

	if j >= len(s) {
		return "", 0, false
	}

	end := j + 1

	next := skipSpace(s, end)
	if next >= len(s) || (s[next] != ')' && s[next] != ',') {
		return "", 0, false
	}

	return strings.TrimRightFunc(s[start:j], func(r rune) bool {
		return r < 0x80 && isSpace(byte(r))
	}), end, true
}

// scanTemplateTags finds {{#name}}text{{/name}} sections.
//
// Either delimiter style may open or close each tag. When a second opening
// tag appears before a closing tag, the scan restarts at the inner one so that
// the innermost pair wins.
func scanTemplateTags(content, name string) []Match {
	var matches []Match

	i := 0

	for {
		open, openEnd := findTag(content, i, '#', name)
		if open < 0 {
			return matches
		}

		for {
			closeStart, closeEnd := findTag(content, openEnd, '/', name)
			if closeStart < 0 {
				return matches
			}

			inner, innerEnd := findTag(content, openEnd, '#', name)
			if inner >= 0 && inner < closeStart {
				open, openEnd = inner, innerEnd

				continue
			}

			matches = append(matches, Match{Text: content[openEnd:closeStart], Offset: open})

			i = closeEnd

			break
		}
	}
}

// findTag returns the bounds of the first tag at or after from whose marker
// is '#' (opening) or '/' (closing), or -1 when there is none.
func findTag(s string, from int, marker byte, name string) (int, int) {
	for k := from; k+1 < len(s); k++ {
		if !isOpenDelimiter(s, k) {
			continue
		}

		if end, ok := parseTag(s, k, marker, name); ok {
			return k, end
		}
	}

	return -1, -1
}

func isOpenDelimiter(s string, k int) bool {
	return (s[k] == '{' && s[k+1] == '{') || (s[k] == '[' && s[k+1] == '[')
}

func isCloseDelimiter(s string, k int) bool {
	return k+1 < len(s) && ((s[k] == '}' && s[k+1] == '}') || (s[k] == ']' && s[k+1] == ']'))
}

// parseTag parses "{{ # name }}" at k, returning the offset after the tag.
func parseTag(s string, k int, marker byte, name string) (int, bool) {
	i := skipSpace(s, k+2)
	if i >= len(s) || s[i] != marker {
		return 0, false
	}

	i = skipSpace(s, i+1)
	if !hasPrefixFold(s, i, name) {
		return 0, false
	}

	i = skipSpace(s, i+len(name))
	if !isCloseDelimiter(s, i) {
		return 0, false
	}

	return i + 2, true
}
