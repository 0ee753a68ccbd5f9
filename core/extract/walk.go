// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"
)

// Pattern returns the filename glob matching files with extension ext.
func Pattern(ext string) string {
	return "*." + strings.TrimPrefix(ext, ".")
}

// Walk returns every regular file under root whose base name matches pattern.
//
// Entries are visited in lexical order and the files of a directory come
// before those of its subdirectories, so the result is stable across runs.
// Names starting with a dot are skipped and symbolic links to directories are
// not followed. maxDepth limits how many directory levels are visited, root
// being level 1; 0 means unlimited.
//
// A missing root yields an empty list. Subdirectories that cannot be read are
// logged and skipped.
func Walk(root, pattern string, maxDepth int) ([]string, error) {
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return []string{}, nil
		}

		return nil, fmt.Errorf("read directory %s: %w", root, err)
	}

	files := []string{}
	walkDir(root, entries, matcher, 1, maxDepth, &files)

	return files, nil
}

func walkDir(dir string, entries []fs.DirEntry, matcher glob.Glob, depth, maxDepth int, files *[]string) {
	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})

	var subdirs []string

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		path := filepath.Join(dir, name)

		switch kind := entryKind(path, entry); kind {
		case kindDir:
			subdirs = append(subdirs, path)
		case kindFile:
			if matcher.Match(name) {
				*files = append(*files, path)
			}
		case kindOther:
		}
	}

	if maxDepth > 0 && depth >= maxDepth {
		return
	}

	for _, sub := range subdirs {
		subEntries, err := os.ReadDir(sub)
		if err != nil {
			log.Warn().
				Err(err).
				Str("path", sub).
				Msg("Skipping unreadable directory")

			continue
		}

		walkDir(sub, subEntries, matcher, depth+1, maxDepth, files)
	}
}

type kind int

const (
	kindOther kind = iota
	kindFile
	kindDir
)

// entryKind classifies an entry. Symbolic links count as files when they
// point at a regular file and are otherwise ignored.
func entryKind(path string, entry fs.DirEntry) kind {
	mode := entry.Type()

	switch {
	case mode.IsDir():
		return kindDir
	case mode.IsRegular():
		return kindFile
	case mode&fs.ModeSymlink != 0:
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return kindOther
		}

		return kindFile
	default:
		return kindOther
	}
}
