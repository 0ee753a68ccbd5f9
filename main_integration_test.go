// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

/*
To run these tests, specify `-tags=integration` when running `go test`.
*/
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// Server configuration constants.
	host      = "127.0.0.1:8282"
	authority = "http://127.0.0.1:8282/admin"

	// Polling constants.
	retryCount  = 10
	dialTimeout = 250 * time.Millisecond
)

// httpTestCase defines a test case.
type httpTestCase struct {
	URL                string
	Method             string
	ExpectedStatusCode int

	// POST requests specific fields
	FormData map[string]string
}

// setDefault sets the default values for the test case.
func (c *httpTestCase) setDefault() {
	if c.ExpectedStatusCode == 0 {
		c.ExpectedStatusCode = 200
	}
}

// TestMain is used for global setup and teardown.
//
// It writes a sample project, starts the server on it and waits for it to be
// available before running tests.
func TestMain(m *testing.M) {
	project, err := os.MkdirTemp("", "transtrings-integration")
	if err != nil {
		log.Fatalf("Failed to create project directory: %v", err)
	}

	if err := writeSampleProject(project); err != nil {
		log.Fatalf("Failed to write sample project: %v", err)
	}

	for k, v := range map[string]string{
		"TRANSTRINGS_HOST":      "127.0.0.1",
		"TRANSTRINGS_PORT":      "8282",
		"TRANSTRINGS_BASE_PATH": project,
		"TRANSTRINGS_LOCALES":   "en,fr",
	} {
		_ = os.Setenv(k, v)
	}

	go func() {
		if err := run(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for the server.
	if !waitForServerReady() {
		log.Fatalf("Server did not start in time")
	}

	code := m.Run()

	_ = os.RemoveAll(project)

	os.Exit(code)
}

func writeSampleProject(root string) error {
	files := map[string]string{
		"templates/home.mustache": "<h1>{{#_t}}[home]Welcome:html{{/_t}}</h1>",
		"src/Mailer.php":          "<?php\n$this->translate('[mail]Subject');\n",
	}

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}

		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}
	}

	return nil
}

// waitForServerReady polls the server until it's available or the retries are exhausted.
func waitForServerReady() bool {
	for range retryCount {
		conn, err := net.DialTimeout("tcp", host, dialTimeout)
		if err == nil {
			_ = conn.Close()

			return true // Server is up.
		}

		time.Sleep(dialTimeout)
	}

	return false
}

// TestBasicAllRoutes tests all basic routes of the server.
func TestBasicAllRoutes(t *testing.T) {
	t.Parallel()

	testCases := []httpTestCase{
		{
			URL:    "/translatable-strings/load",
			Method: http.MethodGet,
		},
		{
			URL:    "/translatable-strings/load?translation_lang=fr&translation_context=home,mail",
			Method: http.MethodGet,
		},
		{
			URL:    "/translatable-strings/widget?show_context=false",
			Method: http.MethodGet,
		},
		{
			URL:                "/translatable-strings/widget?show_context=maybe",
			Method:             http.MethodGet,
			ExpectedStatusCode: http.StatusBadRequest,
		},
		{
			URL:    "/about",
			Method: http.MethodGet,
		},
		{
			URL:                "/translatable-strings/update",
			Method:             http.MethodPost,
			ExpectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s %s", tc.Method, tc.URL), func(t *testing.T) {
			t.Parallel()
			tc.setDefault()

			resp := makeRequest(t, buildRequest(t, authority+tc.URL, tc.Method))
			defer resp.Body.Close()

			if resp.StatusCode != tc.ExpectedStatusCode {
				t.Errorf("expected status %d, got %d", tc.ExpectedStatusCode, resp.StatusCode)
			}
		})
	}
}

// TestUpdateThenLoad stores a translation and reads it back.
func TestUpdateThenLoad(t *testing.T) {
	t.Parallel()

	updateReq := httpTestCase{
		URL:    "/translatable-strings/update",
		Method: http.MethodPost,
		FormData: map[string]string{
			"translation_lang":  "fr",
			"translation_key":   "[mail]Subject",
			"translation_value": "Objet",
		},
	}
	updateReq.setDefault()

	resp := makeRequest(t, buildRequestWithFormData(t, authority+updateReq.URL, updateReq.Method, updateReq.FormData))
	defer resp.Body.Close()

	if resp.StatusCode != updateReq.ExpectedStatusCode {
		t.Fatalf("expected status %d, got %d", updateReq.ExpectedStatusCode, resp.StatusCode)
	}

	resp = makeRequest(t, buildRequest(t, authority+"/translatable-strings/load?translation_lang=fr&translation_context=mail", http.MethodGet))
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}

	if got := gjson.GetBytes(body, "translations.0.translation_value").String(); got != "Objet" {
		t.Errorf("expected translation %q, got %q", "Objet", got)
	}
}

func buildRequest(t *testing.T, link, method string) *http.Request {
	t.Helper()

	req, err := http.NewRequestWithContext(context.TODO(), method, link, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	return req
}

func buildRequestWithFormData(t *testing.T, link, method string, formData map[string]string) *http.Request {
	t.Helper()

	form := url.Values{}

	for k, v := range formData {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(context.TODO(), method, link, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	return req
}

func makeRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	return resp
}
