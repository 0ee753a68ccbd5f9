// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestLoad focuses on verifying main functionality (precedence of sources,
rejection of invalid input) and *shouldn't* need exhaustive scenarios.

The tests below use t.Setenv and therefore cannot run in parallel.
*/

func writeYAML(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string            // Description of the test case
		yaml    string            // Content of the YAML file, empty to skip it
		env     map[string]string // Name of the environment variable and its value
		wantErr error             // Expected sentinel error, if any
		check   func(t *testing.T, cfg *ServerConfig)
	}{
		{
			name: "Defaults",
			check: func(t *testing.T, cfg *ServerConfig) {
				t.Helper()
				assert.Equal(t, "localhost", cfg.Basic.Host)
				assert.Equal(t, "8282", cfg.Basic.Port)
				assert.Equal(t, []string{"templates/", "src/"}, cfg.ExtractionPaths())
				assert.Equal(t, "translations", cfg.StorageDirectory())
				assert.Equal(t, "/admin", cfg.HTTP.RoutePrefix)
				assert.Equal(t, []string{"en"}, cfg.Translator.Locales)
				assert.Zero(t, cfg.Extraction.CacheSize)
			},
		},
		{
			name: "YAML overrides defaults",
			yaml: `
project:
  basePath: /srv/site
  parserViewPaths: [views/]
translator:
  locales: [en, fr, fr]
http:
  routePrefix: /manage/
limiter:
  enabled: true
  expiry: 30m
`,
			check: func(t *testing.T, cfg *ServerConfig) {
				t.Helper()
				assert.Equal(t, []string{"views/", "src/"}, cfg.ExtractionPaths())
				assert.Equal(t, "/srv/site/translations", cfg.StorageDirectory())
				assert.Equal(t, "/srv/site/po", cfg.CatalogDirectory())
				assert.Equal(t, []string{"en", "fr"}, cfg.Translator.Locales)
				assert.Equal(t, "/manage", cfg.HTTP.RoutePrefix)
				assert.True(t, cfg.Limiter.Enabled)
				assert.Equal(t, 30*time.Minute, cfg.Limiter.Expiry)
			},
		},
		{
			name: "Environment overrides YAML",
			yaml: `
basic:
  port: "9000"
`,
			env: map[string]string{
				"TRANSTRINGS_PORT":                "9100",
				"TRANSTRINGS_LOCALES":             "en,de",
				"TRANSTRINGS_CATALOG_DIRECTORY":   "/var/lib/po",
				"TRANSTRINGS_LIMITER_EXPIRY":      "2h",
				"TRANSTRINGS_TEMPLATE_EXTENSIONS": "mustache,html",
			},
			check: func(t *testing.T, cfg *ServerConfig) {
				t.Helper()
				assert.Equal(t, "9100", cfg.Basic.Port)
				assert.Equal(t, []string{"en", "de"}, cfg.Translator.Locales)
				assert.Equal(t, "/var/lib/po", cfg.CatalogDirectory())
				assert.Equal(t, 2*time.Hour, cfg.Limiter.Expiry)
				assert.Equal(t, []string{"mustache", "html"}, cfg.Extraction.TemplateExtensions)
			},
		},
		{
			name:    "Invalid locale",
			env:     map[string]string{"TRANSTRINGS_LOCALES": "en,not a locale"},
			wantErr: errInvalidLocale,
		},
		{
			name:    "Unix socket with host",
			env:     map[string]string{"TRANSTRINGS_UNIXSOCKET": "/run/transtrings.sock"},
			wantErr: errUnixSocketWithHostPort,
		},
		{
			name:    "Zero concurrency",
			yaml:    "extraction:\n  concurrency: 0\n",
			wantErr: errInvalidConcurrency,
		},
		{
			name:    "Negative cache size",
			env:     map[string]string{"TRANSTRINGS_SCAN_CACHE_SIZE": "-1"},
			wantErr: errInvalidCacheSize,
		},
		{
			name:    "Route prefix without slash",
			env:     map[string]string{"TRANSTRINGS_ROUTE_PREFIX": "admin"},
			wantErr: errInvalidRoutePrefix,
		},
		{
			name:    "Limiter with zero rate",
			env:     map[string]string{"TRANSTRINGS_LIMITER": "true", "TRANSTRINGS_LIMITER_RATE": "0"},
			wantErr: errInvalidLimiterRate,
		},
		{
			name:    "Limiter with invalid prefix",
			yaml:    "limiter:\n  enabled: true\n  ipv4Prefix: 33\n",
			wantErr: errInvalidLimiterPrefix,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.yaml != "" {
				path = writeYAML(t, tt.yaml)
			}

			cfg := &ServerConfig{}
			err := cfg.Load(path)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadRejectsUnknownYAMLKeys(t *testing.T) {
	path := writeYAML(t, "basic:\n  hots: example.org\n")

	err := (&ServerConfig{}).Load(path)
	require.Error(t, err)
}

func TestLoadMissingYAMLIsSkipped(t *testing.T) {
	cfg := &ServerConfig{}
	require.NoError(t, cfg.Load(filepath.Join(t.TempDir(), "absent.yaml")))
	assert.Equal(t, "8282", cfg.Basic.Port)
}

func TestUnixSocketPermissions(t *testing.T) {
	tests := []struct {
		raw  string
		want os.FileMode
	}{
		{"", 0o666},
		{"660", 0o660},
		{"0600", 0o600},
		{"rw-rw----", 0o660},
		{"rwxr-xr-x", 0o755},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{}
		cfg.SetDefaults()
		cfg.Basic.Host = ""
		cfg.Basic.Port = ""
		cfg.Basic.UnixSocket = "/run/transtrings.sock"
		cfg.Basic.RawUnixSocketPermissions = tt.raw

		require.NoError(t, cfg.validateAndSet(), tt.raw)
		assert.Equal(t, tt.want, cfg.Basic.UnixSocketPermissions, tt.raw)
	}

	cfg := &ServerConfig{}
	cfg.SetDefaults()
	cfg.Basic.Host = ""
	cfg.Basic.Port = ""
	cfg.Basic.UnixSocket = "/run/transtrings.sock"
	cfg.Basic.RawUnixSocketPermissions = "999"
	require.ErrorIs(t, cfg.validateAndSet(), errUnixSocketInvalidPermissions)
}

func TestRevision(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unknown", (&buildInfo{}).Revision())

	b := buildInfo{VcsRevision: "0123456789abcdef", VcsTime: "2025-03-01T10:00:00Z", VcsModified: true}
	assert.Equal(t, "2025-03-01-01234567+dirty", b.Revision())
}

func TestRedacted(t *testing.T) {
	t.Parallel()

	cfg := &ServerConfig{}
	cfg.SetDefaults()
	cfg.Basic.UnixSocketUser = "www-data"

	out := cfg.redacted()
	assert.Equal(t, redactedValue, out.Basic.UnixSocketUser)
	assert.Empty(t, out.Basic.UnixSocketGroup)
	assert.Equal(t, "www-data", cfg.Basic.UnixSocketUser)
}

func TestLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		dev   bool
		want  zerolog.Level
	}{
		{"debug", false, zerolog.DebugLevel},
		{"warn", false, zerolog.WarnLevel},
		{"verbose", false, zerolog.InfoLevel},
		{"", false, zerolog.InfoLevel},
		{"error", true, zerolog.DebugLevel},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{}
		cfg.Log.Level = tt.level
		cfg.Development.InDevelopment = tt.dev

		assert.Equal(t, tt.want, cfg.logLevel(), tt.level)
	}
}
