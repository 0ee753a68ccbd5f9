// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command stringsctl runs the translatable strings admin actions from the
// command line, without starting the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"codeberg.org/transtrings/transtrings/config"
	"codeberg.org/transtrings/transtrings/core/admin"
	"codeberg.org/transtrings/transtrings/core/audit"
)

// configFileEnv names the variable read when --config is not given.
const configFileEnv = "TRANSTRINGS_CONFIGFILE"

type options struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "stringsctl",
		Short: "Manage the translatable strings of a project",
		Long: `stringsctl extracts the translatable strings of a project and edits
the CSV translation files that overlay its gettext catalogues.

The configuration is read the same way as the server: defaults, then the
YAML file, then .env and the environment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML configuration file (default $"+configFileEnv+")")

	root.AddCommand(
		newLoadCmd(opts),
		newUpdateCmd(opts),
		newTemplateCmd(opts),
		newLocalesCmd(opts),
		newVersionCmd(),
	)

	return root
}

func main() {
	audit.SetDefaultLogger()

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("stringsctl failed")
		os.Exit(1)
	}
}

// services loads the configuration and builds the admin services from it.
func (o *options) services() (*config.ServerConfig, *admin.Services, error) {
	path := o.configPath
	if path == "" {
		path = os.Getenv(configFileEnv)
	}

	cfg := &config.ServerConfig{}
	if err := cfg.Load(path); err != nil {
		return nil, nil, err
	}

	return cfg, admin.New(cfg), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cfg := &config.ServerConfig{}
			cfg.Build.Read()

			fmt.Fprintf(cmd.OutOrStdout(), "stringsctl %s (%s)\n", config.BuildVersion, cfg.Build.Revision())
		},
	}
}
