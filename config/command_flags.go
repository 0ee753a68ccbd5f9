// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "flag"

const (
	configFlagName    = "config"
	defaultConfigPath = "./config.yaml"
)

// configFlag parses the command line and returns the value of the -config
// flag and whether it was given explicitly.
func configFlag() (string, bool) {
	if flag.Lookup(configFlagName) == nil {
		flag.String(configFlagName, defaultConfigPath, "Path to a configuration file in YAML format.")
	}

	if !flag.Parsed() {
		flag.Parse()
	}

	set := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == configFlagName {
			set = true
		}
	})

	return flag.Lookup(configFlagName).Value.String(), set
}
