// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	// Default number of compressed catalogs kept by the catalog server.
	defaultCacheSize = 64
	// Default Cache-Control max-age of catalog responses in seconds.
	defaultCacheControlMaxAgeSeconds = 300

	// Default catalog server rate limit in requests per second.
	defaultRateLimit = 20
	defaultRateBurst = 40

	defaultHost = "localhost"
	defaultPort = "8383"
)

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.Extract.BaseDir = ""
	cfg.Extract.Packages = []string{"i18n"}
	cfg.Extract.Extensions = []string{".go", ".templ"}
	cfg.Extract.References = "full"
	cfg.Extract.Concurrency = 0
	cfg.Extract.Output = ""

	cfg.Compile.Domain = "messages"
	cfg.Compile.Pretty = false

	cfg.Serve.Host = ""
	cfg.Serve.Port = ""
	cfg.Serve.PoDir = "./po"
	cfg.Serve.Domain = "messages"
	cfg.Serve.CacheSize = defaultCacheSize
	cfg.Serve.CacheControlMaxAge = defaultCacheControlMaxAgeSeconds * time.Second
	cfg.Serve.RateLimit = defaultRateLimit
	cfg.Serve.RateBurst = defaultRateBurst
	cfg.Serve.RateLimitExempt = nil
	cfg.Serve.Debug = false

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Internationalization.StrictMissingKeys = false
}
