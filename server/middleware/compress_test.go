// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompress(t *testing.T) {
	t.Parallel()

	compress, err := Compress()
	require.NoError(t, err)

	large := `{"translations":["` + strings.Repeat("Welcome ", 512) + `"]}`

	tests := []struct {
		name           string
		body           string
		acceptEncoding string
		wantGzip       bool
	}{
		{"Large body is compressed", large, "gzip", true},
		{"Client without gzip", large, "", false},
		{"Small body is sent as is", `{"success":true}`, "gzip", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				_, _ = io.WriteString(w, tt.body)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin/translatable-strings/load", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}

			rr := httptest.NewRecorder()
			Wrap(compress, next).ServeHTTP(rr, req)

			if !tt.wantGzip {
				assert.Empty(t, rr.Header().Get("Content-Encoding"))
				assert.Equal(t, tt.body, rr.Body.String())

				return
			}

			assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))

			zr, err := gzip.NewReader(rr.Body)
			require.NoError(t, err)

			decoded, err := io.ReadAll(zr)
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(decoded))
		})
	}
}
