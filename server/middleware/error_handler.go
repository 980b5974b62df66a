// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"errors"
	"maps"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog/log"

	"codeberg.org/tagtr/tagtr/core/audit"
	"codeberg.org/tagtr/tagtr/server/request_context"
	"codeberg.org/tagtr/tagtr/server/routes"
)

// CatchError wraps HTTP handlers that return an error, providing centralized error handling,
// response buffering, and request logging.
//
// The handler's output is buffered using an httptest.ResponseRecorder and any
// error it returns is stored in the request context. Then:
//   - routes.ErrNotFound, or a 404 written by the handler, discards the buffer
//     and writes a 404 error response.
//   - Any other error without an HTTP error status code (i.e., status < 400)
//     is treated as an internal error and answered with a 500 error response.
//   - In all other cases the buffered response is written to the client.
//
// Finally, it logs the completed request via the audit package.
func CatchError(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := request_context.FromRequest(r)

		span := audit.Span{
			RequestID: ctx.RequestID,
			Method:    r.Method,
			URL:       r.URL.String(),
		}

		_ = span.Begin(r.Context())

		recorder := httptest.NewRecorder()

		// Execute the handler, capturing its output and any returned error.
		err := handler(recorder, r)

		span.End()

		ctx.RequestError = err

		switch {
		case errors.Is(err, routes.ErrNotFound) || recorder.Code == http.StatusNotFound:
			ctx.StatusCode = http.StatusNotFound

			routes.ErrorPage(w, r)

		case err != nil && recorder.Code < http.StatusBadRequest:
			ctx.StatusCode = http.StatusInternalServerError

			routes.ErrorPage(w, r)

		default:
			// This is a successful response or a handled error. We trust the recorder's output.
			if recorder.Code == 0 {
				recorder.Code = http.StatusOK
			}

			ctx.StatusCode = recorder.Code
			span.Size = recorder.Body.Len()

			maps.Copy(w.Header(), recorder.Header())
			w.WriteHeader(recorder.Code)

			if _, err := recorder.Body.WriteTo(w); err != nil {
				log.Err(err).Msg("Failed to write response body")
			}
		}

		span.StatusCode = ctx.StatusCode
		span.Error = ctx.RequestError

		span.Log()
	}
}
