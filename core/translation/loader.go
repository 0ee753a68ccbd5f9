// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package translation

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"codeberg.org/transtrings/transtrings/core/audit"
	"codeberg.org/transtrings/transtrings/core/extract"
	"codeberg.org/transtrings/transtrings/core/idgen"
	"codeberg.org/transtrings/transtrings/core/scancache"
	"codeberg.org/transtrings/transtrings/server/request_context"
)

// DefaultConcurrency is the number of files scanned at once when none is set.
const DefaultConcurrency = 4

// Source pairs an Extractor with the file extensions it applies to.
type Source struct {
	Extractor  extract.Extractor
	Extensions []string
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// BasePath is the root every path in Paths is resolved against.
	BasePath string
	// Paths are scanned in order.
	Paths []string
	// Sources are applied to every path in order, typically templates first.
	Sources []Source
	// MaxDepth limits directory recursion; 0 means unlimited.
	MaxDepth int
	// Concurrency is the number of files scanned at once.
	Concurrency int
	// Cache, when set, keeps the occurrences of unchanged files between scans.
	Cache *scancache.Cache[[]Occurrence]
}

// Occurrence is one extracted string and where it was found.
type Occurrence struct {
	Text string
	File string
	Line int
}

// Loader extracts translatable strings from a project on disk.
type Loader struct {
	opts LoaderOptions
}

// NewLoader returns a Loader for opts.
func NewLoader(opts LoaderOptions) *Loader {
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultConcurrency
	}

	return &Loader{opts: opts}
}

type scanJob struct {
	file      string
	extractor extract.Extractor
}

// Occurrences walks every path and returns every marker found, ordered by
// path, then source, then file, then position in the file.
//
// Files are read concurrently. Files that cannot be read are logged and
// skipped. The scan stops early when ctx is done.
func (l *Loader) Occurrences(ctx context.Context) ([]Occurrence, error) {
	jobs := l.jobs()
	requestID := request_context.FromContext(ctx).RequestID
	results := make([][]Occurrence, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Concurrency)

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = l.scanFile(gctx, idgen.Child(requestID, i), job)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []Occurrence
	for _, r := range results {
		out = append(out, r...)
	}

	event := log.Debug().
		Str("request_id", requestID).
		Int("files", len(jobs)).
		Int("occurrences", len(out))

	if l.opts.Cache != nil {
		hits, misses := l.opts.Cache.Stats()
		event = event.
			Uint64("cache_hits", hits).
			Uint64("cache_misses", misses)
	}

	event.Msg("Scanned project")

	return out, nil
}

// Originals returns the distinct extracted strings in order of first appearance.
func (l *Loader) Originals(ctx context.Context) ([]string, error) {
	occurrences, err := l.Occurrences(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(occurrences))
	originals := make([]string, 0, len(occurrences))

	for _, o := range occurrences {
		if seen[o.Text] {
			continue
		}

		seen[o.Text] = true
		originals = append(originals, o.Text)
	}

	return originals, nil
}

// Load extracts every string and resolves it in every locale of tr.
func (l *Loader) Load(ctx context.Context, tr Translator) (*Map, error) {
	originals, err := l.Originals(ctx)
	if err != nil {
		return nil, err
	}

	return Resolve(tr, originals), nil
}

// jobs lists the files to scan. Paths that cannot be listed are logged and skipped.
func (l *Loader) jobs() []scanJob {
	var jobs []scanJob

	for _, path := range l.opts.Paths {
		root := filepath.Join(l.opts.BasePath, path)

		for _, source := range l.opts.Sources {
			for _, ext := range source.Extensions {
				files, err := extract.Walk(root, extract.Pattern(ext), l.opts.MaxDepth)
				if err != nil {
					log.Warn().
						Err(err).
						Str("path", root).
						Str("extension", ext).
						Msg("Skipping path")

					continue
				}

				for _, file := range files {
					jobs = append(jobs, scanJob{file: file, extractor: source.Extractor})
				}
			}
		}
	}

	return jobs
}

func (l *Loader) scanFile(ctx context.Context, id string, job scanJob) []Occurrence {
	var (
		stamp     scancache.Stamp
		cacheable bool
	)

	if l.opts.Cache != nil {
		info, err := os.Stat(job.file)
		if err != nil {
			l.opts.Cache.Forget(job.file)
		} else {
			scanner := string(job.extractor.Format) + ":" + job.extractor.Name
			stamp = scancache.NewStamp(job.file, scanner, info)

			if out, ok := l.opts.Cache.Get(stamp); ok {
				return out
			}

			cacheable = true
		}
	}

	span := audit.Span{
		Destination: audit.ToFilesystem,
		RequestID:   id,
		Method:      "scan",
		URL:         job.file,
	}
	span.Begin(ctx)

	defer func() {
		span.End()
		span.Log()
	}()

	data, err := os.ReadFile(job.file) // #nosec G304 -- paths come from the configured project tree
	if err != nil {
		span.Error = err

		log.Warn().
			Err(err).
			Str("file", job.file).
			Msg("Skipping unreadable file")

		l.opts.Cache.Forget(job.file)

		return nil
	}

	content := string(data)
	matches := job.extractor.Scan(content)

	span.Size = len(data)
	span.Matches = len(matches)

	out := make([]Occurrence, len(matches))
	for i, m := range matches {
		out[i] = Occurrence{Text: m.Text, File: job.file, Line: extract.LineAt(content, m.Offset)}
	}

	if cacheable {
		l.opts.Cache.Add(stamp, out)
	}

	return out
}
