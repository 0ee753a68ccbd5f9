// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		method           string
		requestURL       string
		expectedStatus   int
		expectedLocation string
	}{
		{
			name:           "Root path should not redirect",
			method:         http.MethodGet,
			requestURL:     "/",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Path without trailing slash should not redirect",
			method:         http.MethodGet,
			requestURL:     "/admin/translatable-strings/load",
			expectedStatus: http.StatusOK,
		},
		{
			name:             "Path with trailing slash should redirect",
			method:           http.MethodGet,
			requestURL:       "/admin/translatable-strings/load/",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/admin/translatable-strings/load",
		},
		{
			name:             "Query is preserved",
			method:           http.MethodGet,
			requestURL:       "/admin/translatable-strings/load/?translation_lang=fr",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/admin/translatable-strings/load?translation_lang=fr",
		},
		{
			name:             "Repeated slashes are removed",
			method:           http.MethodPost,
			requestURL:       "/admin/translatable-strings/update//",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/admin/translatable-strings/update",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, tt.requestURL, nil)
			rr := httptest.NewRecorder()

			Wrap(NormalizeURL, nextHandler).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedLocation, rr.Header().Get("Location"))
		})
	}
}
