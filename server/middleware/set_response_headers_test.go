// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/transtrings/transtrings/config"
)

func TestSetResponseHeaders(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	Wrap(SetResponseHeaders, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/translatable-strings/load", nil))

	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	assert.Equal(t, config.BuildVersion, rr.Header().Get("Transtrings-Version"))
	assert.NotEmpty(t, rr.Header().Get("Transtrings-Revision"))

	// The shared base headers must not be modified by a response.
	assert.Len(t, baseHeaders.Values("Cache-Control"), 1)
}
