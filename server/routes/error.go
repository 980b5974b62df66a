// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/tagtr/tagtr/i18n"
	"codeberg.org/tagtr/tagtr/server/request_context"
)

// ErrNotFound is returned by handlers for resources that do not exist.
var ErrNotFound = errors.New("not found")

// errorBody is the JSON document written by ErrorPage.
type errorBody struct {
	Status    int    `json:"status"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorPage writes an error response for the status code and error stored
// in the request context. Details of server errors are logged, not sent.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	rc := request_context.FromRequest(r)

	body := errorBody{
		Status:    rc.StatusCode,
		RequestID: rc.RequestID,
	}

	switch {
	case rc.StatusCode == http.StatusNotFound:
		body.Error = i18n.Tr(r.Context(), "The requested resource was not found.")
	case rc.StatusCode >= http.StatusInternalServerError:
		body.Error = i18n.Tr(r.Context(), "Something went wrong on our side.")
	case rc.RequestError != nil:
		body.Error = rc.RequestError.Error()
	default:
		body.Error = http.StatusText(rc.StatusCode)
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Language", rc.T.String())
	w.WriteHeader(rc.StatusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).
			Str("request_id", rc.RequestID).
			Msg("Failed to write error response")
	}
}

// NotFound is the fallback handler for unknown paths.
func NotFound(_ http.ResponseWriter, _ *http.Request) error {
	return ErrNotFound
}
