// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package metrics collects Prometheus metrics for the catalog server.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tagtr"

// unmatched labels requests that no route handled.
const unmatched = "unmatched"

// Metrics holds the collectors of one server on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts handled requests by method, route and status code.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration observes request latency by method and route.
	RequestDuration *prometheus.HistogramVec

	// InFlight is the number of requests being served.
	InFlight prometheus.Gauge

	// CatalogCache counts compiled catalogue cache lookups by result, "hit" or "miss".
	CatalogCache *prometheus.CounterVec
}

// New creates the collectors and registers them, along with the Go and
// process collectors, on a new registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "route", "code"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		InFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being served.",
			},
		),
		CatalogCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_cache_lookups_total",
				Help:      "Compiled catalogue cache lookups by result.",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.InFlight,
		m.CatalogCache,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// CacheLookup records a catalogue cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}

	result := "miss"
	if hit {
		result = "hit"
	}

	m.CatalogCache.WithLabelValues(result).Inc()
}

// Middleware records request metrics. It must be the last middleware
// before the router's ServeMux, which sets the matched pattern on the
// request it receives.
func (m *Metrics) Middleware(w http.ResponseWriter, r *http.Request, next http.Handler) {
	m.InFlight.Inc()
	defer m.InFlight.Dec()

	snoop := httpsnoop.CaptureMetrics(next, w, r)

	route := r.Pattern
	if route == "" {
		route = unmatched
	}

	m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(snoop.Code)).Inc()
	m.RequestDuration.WithLabelValues(r.Method, route).Observe(snoop.Duration.Seconds())
}
