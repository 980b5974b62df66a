// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/tagtr/tagtr/server/metrics"
	"codeberg.org/tagtr/tagtr/server/middleware"
	"codeberg.org/tagtr/tagtr/server/middleware/limiter"
	"codeberg.org/tagtr/tagtr/server/middleware/set_request_context"
)

// RegisterMiddleware installs the middleware chain. l and m may be nil.
func (router *Router) RegisterMiddleware(l *limiter.Limiter, m *metrics.Metrics) {
	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.NormalizeURL)                // handle trailing slashes
	router.Use(set_request_context.WithRequestContext) // needed for everything else
	router.Use(middleware.SetResponseHeaders)          // all responses need this

	if l != nil {
		router.Use(l.Evaluate)
	}

	// must stay last: it reads the pattern ServeMux records on the request
	if m != nil {
		router.Use(m.Middleware)
	}
}
