// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"fmt"
	"net/http"

	"codeberg.org/transtrings/transtrings/config"
	"codeberg.org/transtrings/transtrings/server/request_context"
)

// ErrorData is the body of every failed response.
type ErrorData struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteJSON writes data as a JSON response with the given HTTP status code.
//
// It sets the appropriate headers, writes the status code, and then writes the JSON body.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) error {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	return nil
}

// ErrorResponse writes the request error held in the request context as a JSON response.
//
// Messages of internal errors are only shown in development.
func ErrorResponse(w http.ResponseWriter, r *http.Request) {
	ctx := request_context.FromRequest(r)

	message := http.StatusText(ctx.StatusCode)
	if ctx.RequestError != nil && (ctx.StatusCode < http.StatusInternalServerError || config.Global.Development.InDevelopment) {
		message = ctx.RequestError.Error()
	}

	_ = WriteJSON(w, ErrorData{Success: false, Error: message}, ctx.StatusCode)
}
