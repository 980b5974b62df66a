// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestHumanizeSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{1023, "1023"},
		{1024, "1.00K"},
		{1536, "1.50K"},
		{bytesInMB, "1.00M"},
		{3 * bytesInGB, "3.00G"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, humanizeSize(tt.in))
	}
}

func TestSpanServerTimingName(t *testing.T) {
	t.Parallel()

	span := Span{Method: "GET", URL: "/catalogs"}
	assert.Equal(t, "http$GET$L2NhdGFsb2dz", span.ServerTimingName())

	span.Task = "catalog"
	assert.Equal(t, "catalog$GET$L2NhdGFsb2dz", span.ServerTimingName())
}

func TestSpanEndIsIdempotent(t *testing.T) {
	t.Parallel()

	var span Span

	span.Begin(context.Background())
	span.End()

	first := span.Duration()

	span.End()

	assert.Equal(t, first, span.Duration())
}

func TestSetDefaultLogger(t *testing.T) {
	saved := log.Logger
	t.Cleanup(func() { log.Logger = saved })

	var buf bytes.Buffer

	SetDefaultLogger(&buf)

	log.Debug().Msg("hidden")
	log.Info().Str("path", "po").Msg("ready")

	assert.Contains(t, buf.String(), "INF ready path=po")
	assert.NotContains(t, buf.String(), "hidden")
	assert.NotContains(t, buf.String(), "\x1b[")
}
