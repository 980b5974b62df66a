// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// readYAML merges the file at path into cfg. A missing file is skipped; a key
// that no field of Config declares is an error, so typos do not pass silently.
func (cfg *Config) readYAML(path string) error {
	if path == "" {
		return nil
	}

	f, err := os.Open(path) // #nosec G304 -- path is chosen by the operator
	if errors.Is(err, os.ErrNotExist) {
		log.Info().
			Str("path", path).
			Msg("No YAML configuration file found, skipping")

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to open configuration file %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f, yaml.Strict()).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML from %s: %w", path, err)
	}

	log.Info().
		Str("path", path).
		Msg("Successfully loaded configuration")

	return nil
}
