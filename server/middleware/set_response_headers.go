// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"

	"codeberg.org/tagtr/tagtr/config"
)

// baseHeaders defines the default headers to be set in responses.
//
// Tagtr-Version and Tagtr-Revision are added dynamically in SetResponseHeaders.
var baseHeaders = http.Header{
	"Referrer-Policy":         {"no-referrer"},
	"X-Content-Type-Options":  {"nosniff"},
	"Content-Security-Policy": {"default-src 'none'; frame-ancestors 'none'"},
	"Cache-Control":           {"no-cache"},
}

// SetResponseHeaders adds default headers to HTTP responses. Handlers may
// override any of them, Cache-Control in particular.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	headers.Set("Tagtr-Version", config.BuildVersion)

	if revision := config.Global.Build.Revision(); revision != "" {
		headers.Set("Tagtr-Revision", revision)
	}

	next.ServeHTTP(w, r)
}
