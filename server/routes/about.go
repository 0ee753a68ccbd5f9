// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/transtrings/transtrings/config"
)

// AboutData describes the running instance.
type AboutData struct {
	Success   bool     `json:"success"`
	Version   string   `json:"version"`
	Revision  string   `json:"revision"`
	StartedAt string   `json:"started_at"`
	Locales   []string `json:"locales"`
}

// AboutPage is the handler for the about endpoint.
func AboutPage(w http.ResponseWriter, r *http.Request) error {
	return WriteJSON(w, AboutData{
		Success:   true,
		Version:   config.BuildVersion,
		Revision:  config.Global.Build.Revision(),
		StartedAt: config.Global.Instance.StartingTime,
		Locales:   config.Global.Translator.Locales,
	}, http.StatusOK)
}
