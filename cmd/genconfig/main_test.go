// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/tagtr/tagtr/config"
)

func defaults() *config.Config {
	cfg := &config.Config{}
	cfg.SetDefaults()

	return cfg
}

func TestEnvExample(t *testing.T) {
	t.Parallel()

	out := envExample(defaults())

	assert.True(t, strings.HasPrefix(out, envFileHeader))
	assert.Contains(t, out, "## Serve\n")
	assert.Contains(t, out, "TAGTR_PO_DIR=\"./po\"\n")
	assert.Contains(t, out, "# TAGTR_CACHE_SIZE=64\n")
	assert.Contains(t, out, "# TAGTR_CACHE_CONTROL_MAX_AGE=5m0s\n")
	assert.Contains(t, out, "# TAGTR_EXTRACT_EXTENSIONS=.go,.templ\n")
	assert.Contains(t, out, "# TAGTR_UNIXSOCKET=\n")
	assert.NotContains(t, out, "## Build")
}

func TestYAMLExample(t *testing.T) {
	t.Parallel()

	out, err := yamlExample(defaults())
	require.NoError(t, err)

	assert.Contains(t, out, "\nserve:\n")
	assert.Contains(t, out, "\n  poDir: ")
	assert.Contains(t, out, "\n  # cacheControlMaxAge: ")

	// The active lines form a loadable configuration.
	var cfg config.Config

	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "./po", cfg.Serve.PoDir)
	assert.Zero(t, cfg.Serve.CacheSize)
}
