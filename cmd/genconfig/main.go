// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command genconfig writes the example configuration files in deploy/ from
// the defaults of config.Config.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/tagtr/tagtr/config"
	"codeberg.org/tagtr/tagtr/core/audit"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/tagtr.yaml.example"
	filePerm       = 0o644

	envFileHeader = `# tagtr configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
# Command-line flags take precedence over these values.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# tagtr configuration (via configuration file)
#
# Copy this file to tagtr.yaml and customize the values below.
# Environment variables and command-line flags take precedence over these values.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
)

// uncommentedEnv lists the variables written active in the .env example.
var uncommentedEnv = map[string]bool{
	"TAGTR_HOST":   true,
	"TAGTR_PORT":   true,
	"TAGTR_PO_DIR": true,
}

// uncommentedYAML lists the keys written active in the YAML example.
var uncommentedYAML = map[string]bool{
	"host:":  true,
	"port:":  true,
	"poDir:": true,
}

func main() {
	audit.SetDefaultLogger(os.Stderr)

	cfg := &config.Config{}
	cfg.SetDefaults()

	writeFile(envOutputFile, envExample(cfg))

	content, err := yamlExample(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	writeFile(yamlOutputFile, content)
}

func writeFile(path, content string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to create output directory")
	}

	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write example file")
	}

	log.Info().Str("path", path).Msg("Successfully generated example file")
}

// envExample renders one section per configuration group, listing the env
// tag of every field with its default value.
func envExample(cfg *config.Config) string {
	var sb strings.Builder
	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	// Iterate over the top-level struct fields.
	for i := range typ.NumField() {
		structField := typ.Field(i)
		structValue := val.Field(i)

		if structValue.Kind() != reflect.Struct || structField.Name == "Build" {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", structField.Name)

		innerTyp := structValue.Type()
		for j := range innerTyp.NumField() {
			field := innerTyp.Field(j)
			value := structValue.Field(j)

			tag, ok := field.Tag.Lookup("env")
			if !ok {
				continue
			}

			envVarName := strings.Split(tag, ",")[0]

			switch {
			case uncommentedEnv[envVarName]:
				fmt.Fprintf(&sb, "%s=\"%v\"\n", envVarName, value.Interface())
			case value.Kind() == reflect.Slice:
				// comma-separated lists
				items := make([]string, value.Len())
				for k := range value.Len() {
					items[k] = fmt.Sprint(value.Index(k).Interface())
				}

				fmt.Fprintf(&sb, "# %s=%s\n", envVarName, strings.Join(items, ","))
			case value.Kind() == reflect.String && value.Len() == 0:
				fmt.Fprintf(&sb, "# %s=\n", envVarName)
			default:
				fmt.Fprintf(&sb, "# %s=%v\n", envVarName, value.Interface())
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// yamlExample renders cfg as YAML with every key but the listen address and
// the po directory commented out.
func yamlExample(cfg *config.Config) (string, error) {
	var yamlContent strings.Builder

	encoderOpts := []yaml.EncodeOption{
		config.GetDurationEncoderOption(),
		yaml.Indent(2),
	}
	if err := yaml.NewEncoder(&yamlContent, encoderOpts...).Encode(cfg); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(yamlFileHeader)

	for line := range strings.SplitSeq(yamlContent.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// Top-level keys (e.g., "serve:") are treated as section headers.
		if !strings.HasPrefix(line, " ") {
			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		key, _, _ := strings.Cut(trimmed, " ")
		if uncommentedYAML[key] {
			sb.WriteString(line + "\n")

			continue
		}

		indentSize := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indentSize), trimmed)
	}

	return sb.String(), nil
}
