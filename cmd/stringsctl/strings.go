// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"codeberg.org/transtrings/transtrings/core/translation"
	"codeberg.org/transtrings/transtrings/i18n"
)

var errMissingFlag = errors.New("required flag not set")

func newLoadCmd(opts *options) *cobra.Command {
	var (
		filter       translation.Filter
		untranslated bool
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Print every translatable string with its translations as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, services, err := opts.services()
			if err != nil {
				return err
			}

			load := services.Load
			if untranslated {
				load = services.Untranslated
			}

			records, err := load(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if records == nil {
				records = []translation.Record{}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			return enc.Encode(records)
		},
	}

	cmd.Flags().StringVar(&filter.Context, "context", "", "comma separated list of scopes to keep")
	cmd.Flags().StringVar(&filter.Lang, "lang", "", "locale to keep")
	cmd.Flags().BoolVar(&untranslated, "untranslated", false, "keep only strings without a translation")

	return cmd
}

func newUpdateCmd(opts *options) *cobra.Command {
	var lang, key, value string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Set the translation of one string in one locale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if lang == "" || key == "" || !cmd.Flags().Changed("value") {
				return fmt.Errorf("%w: --lang, --key and --value are needed", errMissingFlag)
			}

			_, services, err := opts.services()
			if err != nil {
				return err
			}

			if err := services.Store.Update(cmd.Context(), lang, key, value); err != nil {
				return err
			}

			log.Info().
				Str("lang", lang).
				Str("key", key).
				Msg("Translation updated")

			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "locale of the translation")
	cmd.Flags().StringVar(&key, "key", "", "original string, as extracted")
	cmd.Flags().StringVar(&value, "value", "", "translated string, may be empty")

	return cmd
}

func newLocalesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "List the configured locales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, services, err := opts.services()
			if err != nil {
				return err
			}

			for _, lang := range i18n.Describe(services.Locales) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", lang.Code, lang.Name)
			}

			return nil
		},
	}
}
