// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
)

// MaxBodyBytes caps the size of a request body read by ParseParams.
const MaxBodyBytes = 1 << 20

var (
	ErrMalformedBody = errors.New("malformed request body")
	ErrBodyTooLarge  = errors.New("request body too large")
)

// Params holds the parameters of a request by name.
type Params map[string]string

// ParseParams collects the parameters of r from the query string, a form
// encoded body and a JSON object body.
//
// Body values take precedence over query values. JSON numbers and booleans
// are converted to their string form; null values are dropped.
func ParseParams(r *http.Request) (Params, error) {
	params := make(Params)

	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			params[name] = values[0]
		}
	}

	if r.Body == nil || r.Method == http.MethodGet || r.Method == http.MethodHead {
		return params, nil
	}

	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		if err := parseJSONBody(r, params); err != nil {
			return nil, err
		}
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := parseFormBody(r, mediaType, params); err != nil {
			return nil, err
		}
	}

	return params, nil
}

func parseJSONBody(r *http.Request, params Params) error {
	var body map[string]any

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if isTooLarge(err) {
			return ErrBodyTooLarge
		}

		return fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}

	for name, value := range body {
		switch v := value.(type) {
		case nil:
		case string:
			params[name] = v
		case bool:
			params[name] = strconv.FormatBool(v)
		case float64:
			params[name] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return fmt.Errorf("%w: parameter %q must be a string", ErrMalformedBody, name)
		}
	}

	return nil
}

func parseFormBody(r *http.Request, mediaType string, params Params) error {
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(MaxBodyBytes)
	} else {
		err = r.ParseForm()
	}

	if err != nil {
		if isTooLarge(err) {
			return ErrBodyTooLarge
		}

		return fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}

	for name, values := range r.PostForm {
		if len(values) > 0 {
			params[name] = values[0]
		}
	}

	return nil
}

func isTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError

	return errors.As(err, &maxBytesErr)
}

// Lookup returns the value of the named parameter and whether it was sent.
func (p Params) Lookup(name string) (string, bool) {
	v, ok := p[name]

	return v, ok
}

// Get retrieves the value of a parameter by name.
//
// If the parameter is not present or empty, it returns the provided default value or an empty string.
func (p Params) Get(name string, defaultValue ...string) string {
	if v := p[name]; v != "" {
		return v
	}

	if len(defaultValue) > 0 {
		return defaultValue[0]
	}

	return ""
}

// Bool parses the named parameter with strconv.ParseBool.
//
// It returns nil when the parameter is absent or empty.
func (p Params) Bool(name string) (*bool, error) {
	v := p[name]
	if v == "" {
		return nil, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("parameter %q: %w", name, err)
	}

	return &b, nil
}
