// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP middleware of the catalog server.

Middleware are plain functions of type [Middleware] and are chained by
router.Router in registration order. Handlers that can fail are wrapped with
[CatchError], which writes the error response and the access log line.
*/
package middleware
