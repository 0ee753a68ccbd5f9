// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package csvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRaw(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func TestUpdateCreatesDirectoryAndFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "translations")
	store := New(dir, "messages")

	require.NoError(t, store.Update(context.Background(), "fr", "Hello", "Bonjour"))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	path, err := store.Path("fr")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "messages.fr.csv"), path)
	assert.Equal(t, "Hello;Bonjour\n", readRaw(t, path))
}

func TestUpdateMergesAndSorts(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir(), "messages")
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "fr", "b", "B"))
	require.NoError(t, store.Update(ctx, "fr", "a", "A"))
	require.NoError(t, store.Update(ctx, "fr", "b", "B2"))

	path, _ := store.Path("fr")
	assert.Equal(t, "a;A\nb;B2\n", readRaw(t, path))

	// idempotent
	require.NoError(t, store.Update(ctx, "fr", "b", "B2"))
	assert.Equal(t, "a;A\nb;B2\n", readRaw(t, path))

	rows, err := store.Read("fr")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "A", "b": "B2"}, rows)
}

func TestUpdateQuoting(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir(), "messages")
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "en", "[promo]title:wysiwyg", `<p class="x">a; b</p>`))
	require.NoError(t, store.Update(ctx, "en", "multi", "line\nbreak"))
	require.NoError(t, store.Update(ctx, "en", "blank", ""))

	rows, err := store.Read("en")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"[promo]title:wysiwyg": `<p class="x">a; b</p>`,
		"multi":                "line\nbreak",
		"blank":                "",
	}, rows)
}

func TestReadExistingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := "greeting;\"Hi; there\"\nlonely\n\nextra;value;ignored\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "messages.de.csv"), []byte(content), 0o600))

	rows, err := New(dir, "messages").Read("de")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"greeting": "Hi; there",
		"lonely":   "",
		"extra":    "value",
	}, rows)
}

func TestReadMissingFile(t *testing.T) {
	t.Parallel()

	rows, err := New(filepath.Join(t.TempDir(), "absent"), "messages").Read("fr")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
}

func TestInvalidLang(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir(), "messages")

	for _, lang := range []string{"", "../etc", "fr.csv", "fr/be", "fr be"} {
		_, err := store.Path(lang)
		require.ErrorIs(t, err, ErrInvalidLang, lang)

		require.ErrorIs(t, store.Update(context.Background(), lang, "k", "v"), ErrInvalidLang, lang)
	}

	for _, lang := range []string{"fr", "pt-BR", "pt_BR", "zh-Hant-TW"} {
		_, err := store.Path(lang)
		require.NoError(t, err, lang)
	}
}

func TestUpdateHonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := New(t.TempDir(), "messages")
	require.ErrorIs(t, store.Update(ctx, "fr", "k", "v"), context.Canceled)

	rows, err := store.Read("fr")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestConcurrentUpdatesKeepEveryKey(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir(), "messages")

	const n = 50

	var wg sync.WaitGroup

	for i := range n {
		wg.Add(1)

		go func() {
			defer wg.Done()
			assert.NoError(t, store.Update(context.Background(), "fr", fmt.Sprintf("key-%02d", i), "v"))
		}()
	}

	wg.Wait()

	rows, err := store.Read("fr")
	require.NoError(t, err)
	assert.Len(t, rows, n)
}
