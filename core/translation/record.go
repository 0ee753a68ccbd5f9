// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package translation

// Record is one (locale, key) pair as served to the admin front-end.
type Record struct {
	// Key is the original extracted string.
	Key   string `json:"translation_key"`
	Value string `json:"translation_value"`
	Lang  string `json:"translation_lang"`
	// InputType is the ":type" suffix of the key, if any.
	InputType *string `json:"translation_input_type"`
	// CleanKey is the key without its context prefix and type suffix.
	CleanKey string `json:"translation_clean_key"`
	// Context is the "[scope]" prefix of the key, if any.
	Context *string `json:"translation_context"`
}

// Filter narrows the records returned by Aggregate. Empty fields are ignored.
type Filter struct {
	// Context is a comma separated list of scopes.
	Context string
	Lang    string
}
