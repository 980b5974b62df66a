// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"math"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/tagtr/tagtr/i18n"
)

// Rate limit headers, following draft-ietf-httpapi-ratelimit-headers.
const (
	HeaderRateLimitLimit     = "RateLimit-Limit"
	HeaderRateLimitRemaining = "RateLimit-Remaining"
	HeaderRateLimitReset     = "RateLimit-Reset"
)

// Evaluate is the middleware that applies the limiter to a request.
//
// Requests whose client IP cannot be determined are let through.
func (l *Limiter) Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	addr, ok := clientAddr(r)
	if !ok {
		log.Warn().
			Str("remote_addr", r.RemoteAddr).
			Msg("Could not parse client IP, skipping rate limit")

		next.ServeHTTP(w, r)

		return
	}

	if l.exempted(addr) {
		next.ServeHTTP(w, r)

		return
	}

	l.maybeCleanup(l.now())

	network := networkOf(addr)

	allowed, tokens := l.allow(network)

	reset := l.addRateLimitHeaders(w, tokens)

	if !allowed {
		log.Debug().
			Str("sys", "limiter").
			Str("network", network).
			Str("path", r.URL.Path).
			Msg("Rate limit exceeded")

		w.Header().Set("Retry-After", strconv.FormatInt(max(reset, 1), 10))
		http.Error(w, i18n.Tr(r.Context(), "Too many requests, please try again later."), http.StatusTooManyRequests)

		return
	}

	next.ServeHTTP(w, r)
}

// addRateLimitHeaders writes the state of a bucket holding tokens and
// returns the number of seconds until it is full again.
func (l *Limiter) addRateLimitHeaders(w http.ResponseWriter, tokens float64) int64 {
	// Calculate tokens remaining (can't exceed burst or drop below zero).
	remaining := int(math.Max(0, math.Min(float64(l.burst), tokens)))

	// Calculate seconds until full bucket replenishment (if not already full).
	var resetTime int64

	if tokens < float64(l.burst) && l.rate > 0 {
		resetTime = int64(math.Ceil((float64(l.burst) - tokens) / float64(l.rate)))
	}

	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(l.burst))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(remaining))
	w.Header().Set(HeaderRateLimitReset, strconv.FormatInt(resetTime, 10))

	return resetTime
}
