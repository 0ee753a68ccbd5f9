// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package csvstore persists translations edited in the admin as one
// semicolon separated file per locale:
//
//	<dir>/<domain>.<lang>.csv
//
// Each row is a (key, value) pair. Files have no header, hold at most one row
// per key and are kept sorted by key.
package csvstore

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sync"

	"codeberg.org/transtrings/transtrings/core/audit"
	"codeberg.org/transtrings/transtrings/server/request_context"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644

	separator = ';'
)

// ErrInvalidLang is returned for locale codes that cannot be part of a file name.
var ErrInvalidLang = errors.New("invalid translation language")

var langRegexp = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store reads and writes the CSV files of one translation domain.
//
// Updates to the same locale are serialised; different locales proceed in parallel.
type Store struct {
	dir    string
	domain string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New returns a Store writing <dir>/<domain>.<lang>.csv files.
func New(dir, domain string) *Store {
	return &Store{
		dir:    dir,
		domain: domain,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Dir returns the directory holding the CSV files.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file holding the translations of lang.
func (s *Store) Path(lang string) (string, error) {
	if !langRegexp.MatchString(lang) {
		return "", fmt.Errorf("%w: %q", ErrInvalidLang, lang)
	}

	return filepath.Join(s.dir, s.domain+"."+lang+".csv"), nil
}

func (s *Store) lock(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[path]
	if !ok {
		l = &sync.Mutex{}
		s.locks[path] = l
	}

	return l
}

// Read returns every key and value stored for lang.
//
// A missing file is an empty map.
func (s *Store) Read(lang string) (map[string]string, error) {
	path, err := s.Path(lang)
	if err != nil {
		return nil, err
	}

	l := s.lock(path)
	l.Lock()
	defer l.Unlock()

	return readFile(path)
}

// Update sets key to value in the file of lang, creating the directory and
// the file when needed.
//
// The whole file is rewritten, sorted by key, through a temporary file that
// replaces the original once complete.
func (s *Store) Update(ctx context.Context, lang, key, value string) (err error) {
	path, err := s.Path(lang)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	span := audit.Span{
		Destination: audit.ToFilesystem,
		RequestID:   request_context.FromContext(ctx).RequestID,
		Method:      "write",
		URL:         path,
	}
	span.Begin(ctx)

	defer func() {
		span.Error = err
		span.End()
		span.Log()
	}()

	l := s.lock(path)
	l.Lock()
	defer l.Unlock()

	rows, err := readFile(path)
	if err != nil {
		return err
	}

	rows[key] = value

	data, err := encode(rows)
	if err != nil {
		return err
	}

	span.Size = len(data)
	span.Matches = len(rows)

	if err := os.MkdirAll(s.dir, dirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.dir, err)
	}

	return writeFile(path, data)
}

func readFile(path string) (map[string]string, error) {
	rows := make(map[string]string)

	file, err := os.Open(path) // #nosec G304 -- lang is validated by Path
	if errors.Is(err, fs.ErrNotExist) {
		return rows, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.Comma = separator
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		value := ""
		if len(record) > 1 {
			value = record[1]
		}

		rows[record[0]] = value
	}

	return rows, nil
}

func encode(rows map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	w.Comma = separator

	for _, k := range keys {
		if err := w.Write([]string{k, rows[k]}); err != nil {
			return nil, fmt.Errorf("failed to encode row %q: %w", k, err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode rows: %w", err)
	}

	return buf.Bytes(), nil
}

func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}

	tmpName := tmp.Name()

	defer func() {
		// no-op once renamed
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()

		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}

	if err := tmp.Chmod(filePermissions); err != nil {
		tmp.Close()

		return fmt.Errorf("failed to set permissions on %s: %w", tmpName, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
