// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package admin_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/transtrings/transtrings/config"
	"codeberg.org/transtrings/transtrings/core/admin"
	"codeberg.org/transtrings/transtrings/core/translation"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestServicesFromConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "views", "home.mustache"), "{{#_t}}[home]Hello{{/_t}}")
	writeFile(t, filepath.Join(root, "src", "Mailer.php"), `<?php $this->translate("Subject");`)
	writeFile(t, filepath.Join(root, "po", "fr.po"), `msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"

msgid "Subject"
msgstr "Objet"
`)

	cfg := &config.ServerConfig{}
	cfg.SetDefaults()
	cfg.Project.BasePath = root
	cfg.Project.ViewPaths = []string{"views/"}
	cfg.Translator.Locales = []string{"en", "fr"}

	services := admin.New(cfg)
	require.NoError(t, services.Check())

	ctx := context.Background()
	require.NoError(t, services.Store.Update(ctx, "fr", "[home]Hello", "Bonjour"))

	records, err := services.Load(ctx, translation.Filter{Lang: "fr"})
	require.NoError(t, err)

	values := make(map[string]string, len(records))
	for _, r := range records {
		values[r.Key] = r.Value
	}

	assert.Equal(t, map[string]string{"Subject": "Objet", "[home]Hello": "Bonjour"}, values)
	assert.FileExists(t, filepath.Join(root, "translations", "messages.fr.csv"))

	_, locale := services.Matcher().Match("fr-BE")
	assert.Equal(t, "fr", locale)
}

func TestUntranslated(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "templates", "home.mustache"), "{{#_t}}Hello{{/_t}}{{#_t}}Bye{{/_t}}")

	cfg := &config.ServerConfig{}
	cfg.SetDefaults()
	cfg.Project.BasePath = root
	cfg.Translator.Locales = []string{"en", "fr"}

	services := admin.New(cfg)

	ctx := context.Background()
	require.NoError(t, services.Store.Update(ctx, "fr", "Hello", "Bonjour"))

	records, err := services.Untranslated(ctx, translation.Filter{Lang: "fr"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Bye", records[0].Key)
	assert.Equal(t, "Bye", records[0].Value)

	records, err = services.Untranslated(ctx, translation.Filter{})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}
