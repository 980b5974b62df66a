// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"slices"
	"sync"

	"codeberg.org/tagtr/tagtr/server/middleware"
)

// Router dispatches requests to the routes of the catalog server through a
// chain of middleware.
//
// Routes and middleware must be registered before the first request; the
// chain is composed once, on that request.
type Router struct {
	mux         *http.ServeMux
	patterns    []string
	middlewares []middleware.Middleware

	compose sync.Once
	chain   http.Handler
}

// NewRouter creates a new Router instance.
func NewRouter() *Router {
	return &Router{mux: http.NewServeMux()}
}

// Handle registers handler for pattern.
func (router *Router) Handle(pattern string, handler http.Handler) {
	router.patterns = append(router.patterns, pattern)
	router.mux.Handle(pattern, handler)
}

// HandleFunc registers handler for pattern.
func (router *Router) HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	router.Handle(pattern, http.HandlerFunc(handler))
}

// Patterns returns the registered patterns in registration order.
func (router *Router) Patterns() []string {
	return slices.Clone(router.patterns)
}

// Use appends m to the chain. The first middleware added runs first.
func (router *Router) Use(m middleware.Middleware) {
	router.middlewares = append(router.middlewares, m)
}

// ServeHTTP runs the middleware chain, then the matching route.
func (router *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	router.compose.Do(func() {
		var h http.Handler = router.mux

		for _, m := range slices.Backward(router.middlewares) {
			h = middleware.Wrap(m, h)
		}

		router.chain = h
	})

	router.chain.ServeHTTP(w, r)
}
