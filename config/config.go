// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// Global exposes the configuration of the running command.
var Global Config

// DefaultConfigFile is read when neither --config nor TAGTR_CONFIGFILE is set.
const DefaultConfigFile = "./tagtr.yaml"

// Config holds the application configuration.
type Config struct {
	Build buildInfo `yaml:"-"`

	Extract struct {
		BaseDir     string   `env:"TAGTR_EXTRACT_BASE_DIR" yaml:"baseDir"`
		Packages    []string `env:"TAGTR_EXTRACT_PACKAGES" yaml:"packages"`
		Extensions  []string `env:"TAGTR_EXTRACT_EXTENSIONS" yaml:"extensions"`
		References  string   `env:"TAGTR_EXTRACT_REFERENCES" yaml:"references"`
		Concurrency int      `env:"TAGTR_EXTRACT_CONCURRENCY" yaml:"concurrency"`
		Output      string   `env:"TAGTR_EXTRACT_OUTPUT" yaml:"output"`
	} `yaml:"extract"`

	Compile struct {
		Domain string `env:"TAGTR_COMPILE_DOMAIN" yaml:"domain"`
		Pretty bool   `env:"TAGTR_COMPILE_PRETTY" yaml:"pretty"`
	} `yaml:"compile"`

	Serve struct {
		Host                     string        `env:"TAGTR_HOST" yaml:"host"`
		Port                     string        `env:"TAGTR_PORT" yaml:"port"`
		UnixSocket               string        `env:"TAGTR_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string        `env:"TAGTR_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode   `yaml:"-"`
		UnixSocketUser           string        `env:"TAGTR_UNIXSOCKET_USER" yaml:"unixSocketUser"`
		UnixSocketGroup          string        `env:"TAGTR_UNIXSOCKET_GROUP" yaml:"unixSocketGroup"`
		PoDir                    string        `env:"TAGTR_PO_DIR" yaml:"poDir"`
		Domain                   string        `env:"TAGTR_DOMAIN" yaml:"domain"`
		CacheSize                int           `env:"TAGTR_CACHE_SIZE" yaml:"cacheSize"`
		CacheControlMaxAge       time.Duration `env:"TAGTR_CACHE_CONTROL_MAX_AGE" yaml:"cacheControlMaxAge"`
		RateLimit                int           `env:"TAGTR_RATE_LIMIT" yaml:"rateLimit"`
		RateBurst                int           `env:"TAGTR_RATE_BURST" yaml:"rateBurst"`
		RateLimitExempt          []string      `env:"TAGTR_RATE_LIMIT_EXEMPT" yaml:"rateLimitExempt"`
		Debug                    bool          `env:"TAGTR_SERVE_DEBUG" yaml:"debug"`
	} `yaml:"serve"`

	Log struct {
		Level   string   `env:"TAGTR_LOG_LEVEL" yaml:"logLevel"`
		Outputs []string `env:"TAGTR_LOG_OUTPUTS" yaml:"logOutputs"`
		Format  string   `env:"TAGTR_LOG_FORMAT" yaml:"logFormat"`
	} `yaml:"log"`

	Internationalization struct {
		// Strict mode for missing keys.
		//
		// When enabled, missing keys are logged (deduplicated per locale+key) and
		// visibly wrapped using markers.
		StrictMissingKeys bool `env:"TAGTR_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"internationalization"`
}

// ConfigPath resolves the configuration file to read, in order of
// precedence: the --config flag when set by the user, TAGTR_CONFIGFILE, and
// DefaultConfigFile with a fallback to ./tagtr.yml.
func ConfigPath(flagValue string, flagSet bool) string {
	if flagSet {
		return flagValue
	}

	if envVar := os.Getenv("TAGTR_CONFIGFILE"); envVar != "" {
		return envVar
	}

	if _, err := os.Stat(DefaultConfigFile); os.IsNotExist(err) {
		if _, statErr := os.Stat("./tagtr.yml"); statErr == nil {
			return "./tagtr.yml"
		}
	}

	return DefaultConfigFile
}

// Load fills cfg from defaults, the YAML file at configFilePath, a .env file
// and environment variables, in that order. Command-line flags may be written
// into cfg afterwards; Apply must be called once they are.
func (cfg *Config) Load(configFilePath string) error {
	cfg.SetDefaults()

	cfg.Build.load()

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(dotEnvPaths()...); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	return nil
}

// Apply validates cfg, fills derived fields and configures logging.
func (cfg *Config) Apply() error {
	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	return nil
}

// WarnIfContainerized warns when running inside a container with a listen
// host that is unreachable from outside it.
func (cfg *Config) WarnIfContainerized() {
	if cfg.Serve.UnixSocket != "" || !isContainerized() {
		return
	}

	if cfg.Serve.Host != "0.0.0.0" && cfg.Serve.Host != "::" {
		log.Warn().
			Str("host", cfg.Serve.Host).
			Msg("Running in a containerized environment but host is not a wildcard address (e.g., '0.0.0.0' or '::'). This may prevent the service from being accessible outside the container.")
	}
}

// isContainerized checks for common indicators of a containerized environment.
//
// This is a heuristic and may not be 100% accurate.
func isContainerized() bool {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	if _, err := os.Stat("/.containerenv"); err == nil {
		return true
	}

	// #nosec G304 -- We are checking for the existence and content of a well-known system file for heuristics.
	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err == nil {
		content := string(cgroup)

		return strings.Contains(content, "docker") ||
			strings.Contains(content, "kubepods") ||
			strings.Contains(content, "containerd") ||
			strings.Contains(content, "lxc") ||
			strings.Contains(content, "crio") ||
			// systemd-nspawn containers
			strings.Contains(content, ".machine")
	}

	return false
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
