// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package translation turns extracted strings into the flat translation
// records served to the admin front-end.
//
// A Loader walks the project, extracts markers, resolves every string in every
// locale of a Translator into a Map, and Aggregate filters and expands the Map
// into Records using ParseKey.
package translation
