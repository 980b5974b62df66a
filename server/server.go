// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package server runs the catalog HTTP server.

It serves the locales loaded by i18n.Setup as compiled JSON catalogues:

	GET /catalogs          index of the available locales
	GET /catalogs/{lang}   compiled catalogue of the best matching locale
	GET /metrics           Prometheus metrics
	GET /healthz           liveness probe
*/
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/user"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/tagtr/tagtr/config"
	"codeberg.org/tagtr/tagtr/server/metrics"
	"codeberg.org/tagtr/tagtr/server/middleware/limiter"
	"codeberg.org/tagtr/tagtr/server/router"
	"codeberg.org/tagtr/tagtr/server/routes"
)

const (
	// Values for http.Server timeouts.
	// ref: gosec: G112
	readHeaderTimeout time.Duration = 15 * time.Second
	readTimeout       time.Duration = 15 * time.Second
	writeTimeout      time.Duration = 10 * time.Second
	idleTimeout       time.Duration = 30 * time.Second

	serverShutdownDeadline time.Duration = 5 * time.Second
)

var (
	errChmodSocket = errors.New("failed to change unix socket permissions")
	errChownSocket = errors.New("failed to change unix socket ownership")
)

// NewHandler builds the router of the catalog server from the Serve section
// of cfg. i18n.Setup must have been called.
func NewHandler(cfg *config.Config) (*router.Router, *metrics.Metrics, error) {
	m := metrics.New()

	catalogs, err := routes.NewCatalogs(cfg.Serve.Domain, cfg.Serve.CacheSize, cfg.Serve.CacheControlMaxAge, m)
	if err != nil {
		return nil, nil, err
	}

	var l *limiter.Limiter
	if cfg.Serve.RateLimit > 0 {
		l = limiter.New(cfg.Serve.RateLimit, cfg.Serve.RateBurst, cfg.Serve.RateLimitExempt)
	}

	r := router.NewRouter()
	r.DefineRoutes(catalogs, m, cfg.Serve.Debug)
	r.RegisterMiddleware(l, m)

	log.Debug().Strs("routes", r.Patterns()).Msg("Routes registered")

	return r, m, nil
}

// Run serves handler on the listener configured in cfg until ctx is done,
// then shuts the server down gracefully.
func Run(ctx context.Context, cfg *config.Config, handler http.Handler) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	listener, err := chooseListener(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	// Channel to listen for server errors
	serverErrors := make(chan error, 1)

	go func() {
		serverErrors <- server.Serve(listener)
	}()

	// Block until the context is done or a server error is received
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), serverShutdownDeadline)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
	}

	log.Info().Msg("Server exited gracefully")

	return nil
}

func chooseListener(ctx context.Context, cfg *config.Config) (net.Listener, error) {
	// Check if we should use a Unix domain socket
	if cfg.Serve.UnixSocket != "" {
		unixAddr := cfg.Serve.UnixSocket

		unixListener, err := (&net.ListenConfig{}).Listen(ctx, "unix", unixAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to start Unix socket listener on %v: %w", unixAddr, err)
		}

		if err = setupSocket(cfg); err != nil {
			_ = unixListener.Close()

			return nil, err
		}

		log.Info().
			Str("address", unixAddr).
			Msg("Listening on Unix domain socket")

		return unixListener, nil
	}

	// Otherwise, fall back to TCP listener
	addr := net.JoinHostPort(cfg.Serve.Host, cfg.Serve.Port)

	tcpListener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start TCP listener on %v: %w", addr, err)
	}

	addr = tcpListener.Addr().String()

	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		_ = tcpListener.Close()

		return nil, fmt.Errorf("failed to parse listener address %q: %w", addr, err)
	}

	log.Info().
		Str("address", addr).
		Str("url", fmt.Sprintf("http://localhost:%v/catalogs", port)).
		Msg("Listening on address")

	return tcpListener, nil
}

func setupSocket(cfg *config.Config) error {
	serve := cfg.Serve

	uid, gid := -1, -1

	var err error

	if serve.UnixSocketUser != "" {
		uid, err = parseUserOrGroupID(serve.UnixSocketUser, "user")
		if err != nil {
			return err
		}
	}

	if serve.UnixSocketGroup != "" {
		gid, err = parseUserOrGroupID(serve.UnixSocketGroup, "group")
		if err != nil {
			return err
		}
	}

	if uid != -1 || gid != -1 {
		if err := os.Chown(serve.UnixSocket, uid, gid); err != nil {
			return fmt.Errorf("%w: %w", errChownSocket, err)
		}
	}

	if serve.UnixSocketPermissions != 0 {
		if err := os.Chmod(serve.UnixSocket, serve.UnixSocketPermissions); err != nil {
			return fmt.Errorf("%w: %w", errChmodSocket, err)
		}
	}

	return nil
}

// parseUserOrGroupID attempts to parse a user or group identifier.
//
// It first tries to convert the value to an integer. If that fails, it
// performs a system lookup for the given kind ("user" or "group").
func parseUserOrGroupID(value, kind string) (int, error) {
	if id, err := strconv.Atoi(value); err == nil {
		return id, nil
	}

	var idStr string

	if kind == "user" {
		u, err := user.Lookup(value)
		if err != nil {
			return -1, fmt.Errorf("failed to lookup user '%s': %w", value, err)
		}

		idStr = u.Uid
	} else { // kind == "group"
		g, err := user.LookupGroup(value)
		if err != nil {
			return -1, fmt.Errorf("failed to lookup group '%s': %w", value, err)
		}

		idStr = g.Gid
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return -1, fmt.Errorf("failed to parse %s ID from looked-up value '%s': %w", kind, value, err)
	}

	return id, nil
}
