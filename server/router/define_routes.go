// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"time"

	"codeberg.org/tagtr/tagtr/server/metrics"
	"codeberg.org/tagtr/tagtr/server/middleware"
	"codeberg.org/tagtr/tagtr/server/routes"
)

// DefineRoutes sets up all the routes of the catalog server.
//
// m may be nil, in which case /metrics is not served. debug adds the
// pprof and flight recorder endpoints under /debug/.
func (router *Router) DefineRoutes(catalogs *routes.Catalogs, m *metrics.Metrics, debug bool) {
	router.HandleFunc("GET /catalogs", middleware.CatchError(catalogs.Index))
	router.HandleFunc("GET /catalogs/{lang}", middleware.CatchError(catalogs.Catalog))

	router.HandleFunc("GET /healthz", middleware.CatchError(routes.Healthz))

	if m != nil {
		router.Handle("GET /metrics", m.Handler())
	}

	if debug {
		registerDebugRoutes(router)
	}

	// "GET /" matches every path not matched above
	router.HandleFunc("GET /", middleware.CatchError(routes.NotFound))
}

var flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})

func registerDebugRoutes(router *Router) {
	if !flightRecorder.Enabled() {
		if err := flightRecorder.Start(); err != nil {
			panic(err)
		}
	}

	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, r *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
