// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouterChainOrder(t *testing.T) {
	t.Parallel()

	var trail []string

	mark := func(name string) func(http.ResponseWriter, *http.Request, http.Handler) {
		return func(w http.ResponseWriter, r *http.Request, next http.Handler) {
			trail = append(trail, name)
			next.ServeHTTP(w, r)
		}
	}

	router := NewRouter()
	router.HandleFunc("GET /catalogs/{lang}", func(w http.ResponseWriter, r *http.Request) {
		trail = append(trail, "route:"+r.PathValue("lang"))
		w.WriteHeader(http.StatusNoContent)
	})
	router.Use(mark("outer"))
	router.Use(mark("inner"))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/catalogs/de", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "outer inner route:de", strings.Join(trail, " "))
	assert.Equal(t, []string{"GET /catalogs/{lang}"}, router.Patterns())
}

func TestRouterStopsChain(t *testing.T) {
	t.Parallel()

	router := NewRouter()
	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		t.Error("route reached through a middleware that answered")
	})
	router.Use(func(w http.ResponseWriter, _ *http.Request, _ http.Handler) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	for range 2 {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	}
}
