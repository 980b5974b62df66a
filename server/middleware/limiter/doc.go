// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter is a middleware that enforces per-network rate limiting for HTTP requests.

Clients are grouped by their IP network (/24 for IPv4, /64 for IPv6) and each
network shares a token bucket. Responses carry RateLimit-Limit,
RateLimit-Remaining and RateLimit-Reset headers; rejected requests get
429 Too Many Requests with Retry-After.
*/
package limiter
