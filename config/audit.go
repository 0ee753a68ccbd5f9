// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	logFilePermissions = 0o666

	logFormatJSON = "json"
)

// setupAudit configures the global logger from the Log and Development sections.
//
// Development mode forces debug logging regardless of Log.Level. Log.Format
// "json" writes JSON lines to every output; anything else uses the console
// format, coloured on terminals.
func (cfg *ServerConfig) setupAudit() {
	zerolog.SetGlobalLevel(cfg.logLevel())

	outputs := cfg.Log.Outputs
	if len(outputs) == 0 {
		outputs = []string{"/dev/stderr"}
	}

	writers := make([]io.Writer, 0, len(outputs))

	for _, output := range outputs {
		f, err := openLogOutput(output)
		if err != nil {
			// The logger is not ready yet.
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", output, err)

			continue
		}

		if cfg.Log.Format == logFormatJSON {
			writers = append(writers, f)
		} else {
			writers = append(writers, ConsoleWriter(f))
		}
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(writers...))
}

// logLevel returns the configured level; unknown levels keep the info level.
func (cfg *ServerConfig) logLevel() zerolog.Level {
	if cfg.Development.InDevelopment {
		return zerolog.DebugLevel
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}

	return level
}

func openLogOutput(output string) (*os.File, error) {
	switch output {
	case "/dev/stdout":
		return os.Stdout, nil
	case "/dev/stderr":
		return os.Stderr, nil
	default:
		return os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions) // #nosec:G302,G304
	}
}

// isTerminal returns true if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd())
}

// ConsoleWriter returns a writer for zerolog that has NoColor:isTerminal(f).
func ConsoleWriter(f *os.File) io.Writer {
	noColor := !isTerminal(f)

	w := zerolog.ConsoleWriter{Out: f, NoColor: noColor, TimeFormat: time.DateTime}

	if !noColor {
		w.FormatPrepare = func(m map[string]any) error {
			// pretty print span logs
			switch m["sys"] {
			case "user":
				m["message"] = fmt.Sprintf("[%s] %s %-5s %s", m["destination"], m["status_code"], m["method"], m["url"])
				delete(m, "status_code")
				delete(m, "request_id")
			case "fs":
				m["message"] = fmt.Sprintf("[%s] %v %-5s %s", m["destination"], m["matches"], m["method"], m["url"])
				delete(m, "matches")
			default:
				return nil
			}

			delete(m, "sys")
			delete(m, "method")
			delete(m, "url")
			delete(m, "destination")

			return nil
		}
	}

	return w
}
