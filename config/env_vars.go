// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const dotEnvFile = ".env"

var (
	errUnsupportedFieldType = errors.New("unsupported field type")
	errDotEnvSyntax         = errors.New("expected KEY=VALUE")
)

// section is one group of Config fields, named as in error messages.
type section struct {
	name  string
	value reflect.Value
}

// sections lists the groups of cfg that environment variables can set.
func (cfg *Config) sections() []section {
	return []section{
		{"Extract", reflect.ValueOf(&cfg.Extract).Elem()},
		{"Compile", reflect.ValueOf(&cfg.Compile).Elem()},
		{"Serve", reflect.ValueOf(&cfg.Serve).Elem()},
		{"Log", reflect.ValueOf(&cfg.Log).Elem()},
		{"Internationalization", reflect.ValueOf(&cfg.Internationalization).Elem()},
	}
}

// readEnv sets every field carrying an env tag whose variable is present in
// the environment. Malformed values are reported together.
func readEnv(cfg *Config) error {
	var errs []error

	for _, s := range cfg.sections() {
		typ := s.value.Type()

		for i := range typ.NumField() {
			name, ok := typ.Field(i).Tag.Lookup("env")
			if !ok {
				continue
			}

			raw, set := os.LookupEnv(name)
			if !set {
				continue
			}

			if err := setField(s.value.Field(i), raw); err != nil {
				errs = append(errs, fmt.Errorf("%s.%s from %s=%q: %w", s.name, typ.Field(i).Name, name, raw, err))
			}
		}
	}

	return errors.Join(errs...)
}

func setField(field reflect.Value, raw string) error {
	switch p := field.Addr().Interface().(type) {
	case *string:
		*p = raw
	case *bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}

		*p = v
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}

		*p = v
	case *time.Duration:
		v, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}

		*p = v
	case *[]string:
		*p = splitList(raw)
	default:
		return fmt.Errorf("%w %s", errUnsupportedFieldType, field.Type())
	}

	return nil
}

// splitList splits a comma-separated list, dropping blank items.
func splitList(raw string) []string {
	items := make([]string, 0, strings.Count(raw, ",")+1)

	for item := range strings.SplitSeq(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}

// dotEnvPaths returns where a .env file is looked for: the working directory,
// then the directory of the executable.
func dotEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, dotEnvFile))
	}

	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), dotEnvFile))
	}

	return paths
}

// useDotEnv exports the variables of the first .env file found. Variables
// already present in the environment keep their value.
func useDotEnv(paths ...string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path) // #nosec G304 -- fixed file name in known directories
		if errors.Is(err, os.ErrNotExist) {
			continue
		}

		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		vars, err := parseDotEnv(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		for key, value := range vars {
			if _, set := os.LookupEnv(key); set {
				continue
			}

			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to export %s: %w", key, err)
			}
		}

		log.Info().
			Str("path", path).
			Int("vars", len(vars)).
			Msg("Loaded configuration from .env file")

		return nil
	}

	log.Debug().Msg("No .env file found, skipping")

	return nil
}

// parseDotEnv reads KEY=VALUE lines. Blank lines and # comments are skipped,
// an optional "export " prefix is dropped and matching quotes around a value
// are removed.
func parseDotEnv(data []byte) (map[string]string, error) {
	vars := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))

	for lineNumber := 1; sc.Scan(); lineNumber++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(strings.TrimPrefix(line, "export "), "=")
		key = strings.TrimSpace(key)

		if !ok || key == "" {
			return nil, fmt.Errorf("line %d: %w", lineNumber, errDotEnvSyntax)
		}

		vars[key] = unquote(strings.TrimSpace(value))
	}

	return vars, sc.Err()
}

func unquote(value string) string {
	if len(value) >= 2 && value[0] == value[len(value)-1] && (value[0] == '"' || value[0] == '\'') {
		return value[1 : len(value)-1]
	}

	return value
}
