// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// validation errors.
var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Serve.UnixSocketPermissions value")
	errInvalidReferences            = errors.New("invalid Extract.References value")
	errInvalidConcurrency           = errors.New("Extract.Concurrency cannot be negative")
	errEmptyDomain                  = errors.New("domain cannot be empty")
	errInvalidCacheSize             = errors.New("Serve.CacheSize cannot be negative")
	errInvalidRateLimit             = errors.New("Serve.RateLimit and Serve.RateBurst cannot be negative")
	errInvalidRateLimitExempt       = errors.New("invalid Serve.RateLimitExempt entry")
	errInvalidLogLevel              = errors.New("invalid Log.Level value")
	errInvalidLogFormat             = errors.New("invalid Log.Format value")
)

var (
	fileModeOctalRegexp  = regexp.MustCompile(`^0?[0-7]{3}$`)
	fileModeStringRegexp = regexp.MustCompile(`^(?:[r-][w-][x-]){3}$`)
)

var referenceModes = []string{"full", "file", "never"}

// validateAndSet validates the configuration and populates derived fields.
func (cfg *Config) validateAndSet() error {
	if err := cfg.validateServe(); err != nil {
		return err
	}

	cfg.Extract.References = strings.ToLower(strings.TrimSpace(cfg.Extract.References))
	if cfg.Extract.References == "" {
		cfg.Extract.References = "full"
	}

	if !slices.Contains(referenceModes, cfg.Extract.References) {
		return fmt.Errorf("%w %q, want one of %s", errInvalidReferences, cfg.Extract.References, strings.Join(referenceModes, ", "))
	}

	if cfg.Extract.Concurrency < 0 {
		return errInvalidConcurrency
	}

	if cfg.Compile.Domain == "" || cfg.Serve.Domain == "" {
		return errEmptyDomain
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("%w %q: %w", errInvalidLogLevel, cfg.Log.Level, err)
	}

	switch cfg.Log.Format {
	case "", "console", "json":
		// valid
	default:
		return fmt.Errorf("%w %q", errInvalidLogFormat, cfg.Log.Format)
	}

	return nil
}

func (cfg *Config) validateServe() error {
	if cfg.Serve.UnixSocket != "" {
		if cfg.Serve.Host != "" || cfg.Serve.Port != "" {
			return errUnixSocketWithHostPort
		}

		switch {
		case cfg.Serve.RawUnixSocketPermissions == "":
			cfg.Serve.UnixSocketPermissions = 0o666
		case fileModeOctalRegexp.MatchString(cfg.Serve.RawUnixSocketPermissions):
			rawModeUint64, _ := strconv.ParseUint(cfg.Serve.RawUnixSocketPermissions, 8, 32)

			cfg.Serve.UnixSocketPermissions = os.FileMode(rawModeUint64)
		case fileModeStringRegexp.MatchString(cfg.Serve.RawUnixSocketPermissions):
			mode := os.FileMode(0)

			for i, c := range cfg.Serve.RawUnixSocketPermissions {
				// If permission bit is set
				if c != '-' {
					// Set i-th bit from the end
					const bitsInByte = 8

					mode |= 1 << (bitsInByte - i)
				}
			}

			cfg.Serve.UnixSocketPermissions = mode
		default:
			return errUnixSocketInvalidPermissions
		}
	} else {
		if cfg.Serve.Host == "" {
			cfg.Serve.Host = defaultHost
			log.Debug().
				Str("host", cfg.Serve.Host).
				Msg("Binding to default host")
		}

		if cfg.Serve.Port == "" {
			cfg.Serve.Port = defaultPort
			log.Debug().
				Str("port", cfg.Serve.Port).
				Msg("Using default port")
		}
	}

	if cfg.Serve.CacheSize < 0 {
		return errInvalidCacheSize
	}

	if cfg.Serve.RateLimit < 0 || cfg.Serve.RateBurst < 0 {
		return errInvalidRateLimit
	}

	for _, entry := range cfg.Serve.RateLimitExempt {
		if net.ParseIP(entry) != nil {
			continue
		}

		if _, _, err := net.ParseCIDR(entry); err != nil {
			return fmt.Errorf("%w %q: must be an IP address or a CIDR", errInvalidRateLimitExempt, entry)
		}
	}

	return nil
}
