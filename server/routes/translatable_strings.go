// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/transtrings/transtrings/core/admin"
	"codeberg.org/transtrings/transtrings/core/csvstore"
	"codeberg.org/transtrings/transtrings/core/translation"
	"codeberg.org/transtrings/transtrings/core/widget"
	"codeberg.org/transtrings/transtrings/i18n"
	"codeberg.org/transtrings/transtrings/server/request_context"
	"codeberg.org/transtrings/transtrings/server/utils"
)

// Request parameter names.
const (
	ParamContext = "translation_context"
	ParamLang    = "translation_lang"
	ParamKey     = "translation_key"
	ParamValue   = "translation_value"
)

// TranslatableStrings serves the translatable strings admin actions.
type TranslatableStrings struct {
	Services *admin.Services
}

// LoadData is the body of a successful load.
type LoadData struct {
	Success      bool                 `json:"success"`
	Translations []translation.Record `json:"translations"`
}

// UpdateData is the body of a successful update.
type UpdateData struct {
	Success bool `json:"success"`
}

// WidgetData is the body of a successful widget request.
type WidgetData struct {
	Success bool        `json:"success"`
	Widget  widget.Data `json:"widget"`
}

// Load lists every extracted string with its translation in every locale,
// optionally narrowed by context scopes and a locale.
func (h *TranslatableStrings) Load(w http.ResponseWriter, r *http.Request) error {
	params, err := utils.ParseParams(r)
	if err != nil {
		return wrapBadRequest("invalid parameters", err)
	}

	records, err := h.Services.Load(r.Context(), translation.Filter{
		Context: params.Get(ParamContext),
		Lang:    params.Get(ParamLang),
	})
	if err != nil {
		return err
	}

	log.Debug().
		Str("request_id", request_context.FromRequest(r).RequestID).
		Int("records", len(records)).
		Msg("Loaded translatable strings")

	return WriteJSON(w, LoadData{Success: true, Translations: records}, http.StatusOK)
}

// Update stores one translation in the CSV file of its locale.
//
// The value may be empty but must be sent.
func (h *TranslatableStrings) Update(w http.ResponseWriter, r *http.Request) error {
	params, err := utils.ParseParams(r)
	if err != nil {
		return wrapBadRequest("invalid parameters", err)
	}

	lang := params.Get(ParamLang)
	if lang == "" {
		return NewBadRequestError("missing parameter %s", ParamLang)
	}

	key := params.Get(ParamKey)
	if key == "" {
		return NewBadRequestError("missing parameter %s", ParamKey)
	}

	value, ok := params.Lookup(ParamValue)
	if !ok {
		return NewBadRequestError("missing parameter %s", ParamValue)
	}

	if err := h.Services.Store.Update(r.Context(), lang, key, value); err != nil {
		if errors.Is(err, csvstore.ErrInvalidLang) {
			return wrapBadRequest("invalid parameter "+ParamLang, err)
		}

		return fmt.Errorf("failed to update translation: %w", err)
	}

	return WriteJSON(w, UpdateData{Success: true}, http.StatusOK)
}

// Widget returns the configuration of the front-end grid.
func (h *TranslatableStrings) Widget(w http.ResponseWriter, r *http.Request) error {
	params, err := utils.ParseParams(r)
	if err != nil {
		return wrapBadRequest("invalid parameters", err)
	}

	ts := &widget.TranslatableStrings{}

	if v, ok := params.Lookup(widget.OptionTranslatableContext); ok && v != "" {
		ts.SetTranslatableContext(v)
	}

	showContext, err := params.Bool(widget.OptionShowContext)
	if err != nil {
		return wrapBadRequest("invalid parameter", err)
	}

	if showContext != nil {
		ts.SetShowContext(*showContext)
	}

	hasFiltering, err := params.Bool(widget.OptionHasFiltering)
	if err != nil {
		return wrapBadRequest("invalid parameter", err)
	}

	if hasFiltering != nil {
		ts.SetHasFiltering(*hasFiltering)
	}

	current := request_context.FromRequest(r).Locale
	if current == "" && len(h.Services.Locales) > 0 {
		current = h.Services.Locales[0]
	}

	ts.SetLocales(i18n.Describe(h.Services.Locales), current)

	return WriteJSON(w, WidgetData{Success: true, Widget: ts.DataForJS()}, http.StatusOK)
}
