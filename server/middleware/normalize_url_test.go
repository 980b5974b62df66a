// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		requestURL       string
		expectedStatus   int
		expectedLocation string
		shouldRedirect   bool
	}{
		{
			name:           "Root path should not redirect",
			requestURL:     "/",
			expectedStatus: http.StatusOK,
			shouldRedirect: false,
		},
		{
			name:           "Path without trailing slash should not redirect",
			requestURL:     "/catalogs/de",
			expectedStatus: http.StatusOK,
			shouldRedirect: false,
		},
		{
			name:             "Path with trailing slash should redirect",
			requestURL:       "/catalogs/de/",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/catalogs/de",
			shouldRedirect:   true,
		},
		{
			name:             "Repeated trailing slashes should redirect once",
			requestURL:       "/catalogs/de//",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/catalogs/de",
			shouldRedirect:   true,
		},
		{
			name:             "Slashes only should redirect to root",
			requestURL:       "//",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/",
			shouldRedirect:   true,
		},
		{
			name:             "Query parameters should be preserved in trailing slash redirect",
			requestURL:       "/catalogs/de/?pretty=1&lang=ja",
			expectedStatus:   http.StatusPermanentRedirect,
			expectedLocation: "/catalogs/de?pretty=1&lang=ja",
			shouldRedirect:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			// Create a test handler that returns 200 OK
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			// Wrap with our middleware
			handler := Wrap(NormalizeURL, nextHandler)

			// Create test request
			req := httptest.NewRequest(http.MethodGet, tt.requestURL, nil)
			w := httptest.NewRecorder()

			// Execute request
			handler.ServeHTTP(w, req)

			// Check status code
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			// Check redirect location if expected
			if tt.shouldRedirect {
				location := w.Header().Get("Location")
				if location != tt.expectedLocation {
					t.Errorf("Expected location %q, got %q", tt.expectedLocation, location)
				}
			} else {
				// Should not have Location header if not redirecting
				if location := w.Header().Get("Location"); location != "" {
					t.Errorf("Expected no Location header, got %q", location)
				}
			}
		})
	}
}

func TestHasTrailingSlash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected bool
	}{
		{"/", false},               // Root should not be considered as having trailing slash
		{"/catalogs", false},       // No trailing slash
		{"/catalogs/", true},       // Has trailing slash
		{"/catalogs/pt-BR/", true}, // Has trailing slash
		{"/catalogs/pt-BR", false}, // No trailing slash
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)

			result := hasTrailingSlash(req)
			if result != tt.expected {
				t.Errorf("hasTrailingSlash(%q) = %v, expected %v", tt.path, result, tt.expected)
			}
		})
	}
}
