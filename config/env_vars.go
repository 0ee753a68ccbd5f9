// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// readEnv populates the provided ServerConfig struct with values from
// environment variables.
//
// Fields whose variable is unset keep their current value, so defaults and
// YAML values survive. List fields are comma separated.
func readEnv(cfg *ServerConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}

// useDotEnv loads environment variables from a .env file, checking
// the current working directory, then the directory of the binary.
//
// This function soft fails if the .env file doesn't exist in either location.
// Variables already present in the environment are never overridden.
func useDotEnv() error {
	cwd, err := os.Getwd()
	if err != nil {
		log.Warn().
			Err(err).
			Msg("Could not get current working directory")
	} else {
		envPath := filepath.Join(cwd, ".env")
		if loaded, err := tryLoadDotEnv(envPath); loaded || err != nil {
			return err
		}
	}

	// Fallback: determine directory of the running binary
	dir := "."
	if exe, err := os.Executable(); err == nil {
		dir = filepath.Dir(exe)
	}

	_, err = tryLoadDotEnv(filepath.Join(dir, ".env"))

	return err
}

// tryLoadDotEnv attempts to load a .env file from the given path.
//
// It reports whether the file was loaded. A missing file is not an error.
func tryLoadDotEnv(envPath string) (bool, error) {
	if _, err := os.Stat(envPath); errors.Is(err, fs.ErrNotExist) {
		log.Debug().
			Str("path", envPath).
			Msg("No .env file found, skipping")

		return false, nil
	}

	if err := godotenv.Load(envPath); err != nil {
		return false, fmt.Errorf("load %s: %w", envPath, err)
	}

	log.Info().
		Str("path", envPath).
		Msg("Loaded configuration from .env file")

	return true, nil
}
