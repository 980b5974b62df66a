// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package set_request_context

import (
	"net/http"

	"codeberg.org/tagtr/tagtr/server/request_context"
)

// WithRequestContext is a middleware that attaches a RequestContext to each
// HTTP request and echoes its id in the X-Request-Id response header.
func WithRequestContext(w http.ResponseWriter, r *http.Request, next http.Handler) {
	ctx := request_context.WithRequestContext(r.Context(), r)

	w.Header().Set(request_context.RequestIDHeader, request_context.FromContext(ctx).RequestID)

	next.ServeHTTP(w, r.WithContext(ctx))
}
