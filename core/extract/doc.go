// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package extract finds translatable strings in template and source files.

Two marker formats are understood:

	{{#_t}}Hello{{/_t}}          template-tag (also [[#_t]]...[[/_t]])
	$this->translate("Hello")    function-call

Both the tag name and the function name are configurable. Matching is
case-insensitive and done with a small tokenizer rather than a regular
expression, so nested template tags resolve to the innermost pair and
escaped quotes inside string literals do not end the literal.

Extracted text is returned verbatim: escapes are kept and only undone when
the string is resolved against a locale.

Files are discovered with Walk, which returns a sorted, deterministic list
of paths whose base name matches a glob such as "*.mustache".
*/
package extract
