// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

const redactedValue = "[redacted]"

// redacted returns a copy of cfg without the values that reveal accounts of the host.
func (cfg *ServerConfig) redacted() ServerConfig {
	out := *cfg

	for _, field := range []*string{&out.Basic.UnixSocketUser, &out.Basic.UnixSocketGroup} {
		if *field != "" {
			*field = redactedValue
		}
	}

	return out
}

// print logs the version and the effective configuration.
func (cfg *ServerConfig) print() {
	log.Info().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Str("started", cfg.Instance.StartingTime).
		Msg("Starting transtrings")

	out, err := yaml.MarshalWithOptions(cfg.redacted(), GetDurationEncoderOption(), yaml.Indent(2))
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Debug().Msg("Application configuration:\n" + strings.TrimRight(string(out), "\n"))
}
