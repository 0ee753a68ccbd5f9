// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"codeberg.org/transtrings/transtrings/config"
	"codeberg.org/transtrings/transtrings/core/translation"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

type ref struct {
	file string
	line int
}

func newTemplateCmd(opts *options) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a gettext template (POT) of every translatable string",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, services, err := opts.services()
			if err != nil {
				return err
			}

			occurrences, err := services.Loader.Occurrences(cmd.Context())
			if err != nil {
				return err
			}

			var b strings.Builder
			writePOT(&b, occurrences, cfg.Project.BasePath, time.Now())

			if outPath == "-" {
				_, err := io.WriteString(cmd.OutOrStdout(), b.String())

				return err
			}

			if err := os.MkdirAll(filepath.Dir(outPath), dirPerm); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			if err := os.WriteFile(outPath, []byte(b.String()), filePerm); err != nil {
				return fmt.Errorf("failed to write output file %s: %w", outPath, err)
			}

			log.Info().
				Str("path", outPath).
				Int("occurrences", len(occurrences)).
				Msg("Template written")

			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "po/messages.pot", `output file, "-" for standard output`)

	return cmd
}

// writePOT writes one entry per distinct string, sorted by msgid. References
// are made relative to root.
func writePOT(b *strings.Builder, occurrences []translation.Occurrence, root string, now time.Time) {
	refs := map[string][]ref{}

	for _, o := range occurrences {
		file := o.File
		if rel, err := filepath.Rel(root, file); err == nil {
			file = rel
		}

		refs[o.Text] = append(refs[o.Text], ref{file: filepath.ToSlash(file), line: o.Line})
	}

	keys := make([]string, 0, len(refs))
	for k := range refs {
		// The empty msgid is reserved for the header.
		if k != "" {
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)

	writeHeader(b, now)

	for i, k := range keys {
		rs := refs[k]
		sort.Slice(rs, func(i, j int) bool {
			if rs[i].file != rs[j].file {
				return rs[i].file < rs[j].file
			}

			return rs[i].line < rs[j].line
		})

		// Duplicates are adjacent once sorted.
		fmt.Fprint(b, "#:")

		var last ref
		for _, r := range rs {
			if r != last {
				fmt.Fprintf(b, " %s:%d", r.file, r.line)

				last = r
			}
		}

		fmt.Fprintln(b)

		if key := translation.ParseKey(k); key.Context != nil {
			fmt.Fprintf(b, "#. context: %s\n", *key.Context)
		}

		writeMsgid(b, k)
		fmt.Fprintf(b, "msgstr \"\"\n")

		if i < len(keys)-1 {
			fmt.Fprintln(b)
		}
	}
}

var poEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// writeMsgid writes s as a PO string. A string with a newline before its end
// is written over several lines, one per newline, after an empty first line.
func writeMsgid(b *strings.Builder, s string) {
	if !strings.Contains(strings.TrimSuffix(s, "\n"), "\n") {
		fmt.Fprintf(b, "msgid \"%s\"\n", poEscaper.Replace(s))

		return
	}

	fmt.Fprintln(b, `msgid ""`)

	for _, line := range strings.SplitAfter(s, "\n") {
		if line != "" {
			fmt.Fprintf(b, "\"%s\"\n", poEscaper.Replace(line))
		}
	}
}

func writeHeader(b *strings.Builder, now time.Time) {
	fmt.Fprintln(b, `msgid ""`)
	fmt.Fprintln(b, `msgstr ""`)
	fmt.Fprintf(b, "\"Project-Id-Version: Transtrings %s\\n\"\n", config.BuildVersion)
	fmt.Fprintf(b, "\"POT-Creation-Date: %s\\n\"\n", now.UTC().Format("2006-01-02 15:04+0000"))
	fmt.Fprintln(b, `"Language: en\n"`)
	fmt.Fprintln(b, `"MIME-Version: 1.0\n"`)
	fmt.Fprintln(b, `"Content-Type: text/plain; charset=UTF-8\n"`)
	fmt.Fprintln(b, `"Content-Transfer-Encoding: 8bit\n"`)
	fmt.Fprintln(b)
}
