// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

/*
To run these tests, specify `-tags=integration` when running `go test`.
*/
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const (
	// Server configuration constants.
	host      = "127.0.0.1:8484"
	authority = "http://127.0.0.1:8484"

	// Polling constants.
	retryCount  = 20
	dialTimeout = 250 * time.Millisecond
)

const germanPO = `msgid ""
msgstr ""
"Language: de\n"
"Plural-Forms: nplurals=2; plural=(n != 1);\n"

msgid "Hello"
msgstr "Hallo"
`

// httpTestCase defines a test case.
type httpTestCase struct {
	URL                string
	Method             string
	ExpectedStatusCode int
	Header             http.Header
}

// setDefault sets the default values for the test case.
func (c *httpTestCase) setDefault() {
	if c.ExpectedStatusCode == 0 {
		c.ExpectedStatusCode = 200
	}

	if c.Method == "" {
		c.Method = http.MethodGet
	}
}

// TestMain is used for global setup and teardown.
//
// It starts the serve command on a temporary po directory and waits for it
// to be available before running tests.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "tagtr-po")
	if err != nil {
		log.Fatalf("Failed to create po directory: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "de.po"), []byte(germanPO), 0o600); err != nil {
		log.Fatalf("Failed to write catalogue: %v", err)
	}

	hostname, port, _ := net.SplitHostPort(host)

	go func() {
		if code := run([]string{"serve", "--po-dir", dir, "--host", hostname, "--port", port, "--config", filepath.Join(dir, "none.yaml")}); code != 0 {
			log.Fatalf("Server failed with status %d", code)
		}
	}()

	// Wait for the server.
	if !waitForServerReady() {
		log.Fatalf("Server did not start in time")
	}

	code := m.Run()

	_ = os.RemoveAll(dir)

	os.Exit(code)
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

// TestBasicAllRoutes tests all routes of the server.
func TestBasicAllRoutes(t *testing.T) {
	t.Parallel()

	testCases := []httpTestCase{
		{URL: "/healthz"},
		{URL: "/metrics"},

		// Catalogue index
		{URL: "/catalogs"},
		{URL: "/catalogs", Header: http.Header{"Accept-Language": {"de-DE"}}},

		// Catalogues
		{URL: "/catalogs/de"},
		{URL: "/catalogs/de-AT?pretty"},
		{URL: "/catalogs/de", Header: http.Header{"Accept-Encoding": {"zstd"}}},
		{URL: "/catalogs/en", ExpectedStatusCode: http.StatusNotFound},

		// Trailing slashes are redirected; the client follows.
		{URL: "/catalogs/"},

		{URL: "/nowhere", ExpectedStatusCode: http.StatusNotFound},
		{URL: "/catalogs", Method: http.MethodPost, ExpectedStatusCode: http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s %s", tc.Method, tc.URL), func(t *testing.T) {
			t.Parallel()
			tc.setDefault()

			resp := makeRequest(t, buildRequest(t, authority+tc.URL, tc.Method, tc.Header))
			defer resp.Body.Close()

			if resp.StatusCode != tc.ExpectedStatusCode {
				t.Errorf("expected status %d, got %d", tc.ExpectedStatusCode, resp.StatusCode)
			}
		})
	}
}

func buildRequest(t *testing.T, link, method string, header http.Header) *http.Request {
	t.Helper()

	req, err := http.NewRequestWithContext(context.TODO(), method, link, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	for k, v := range header {
		req.Header[k] = v
	}

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
