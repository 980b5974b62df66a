// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"codeberg.org/tagtr/tagtr/config"
	"codeberg.org/tagtr/tagtr/i18n"
	"codeberg.org/tagtr/tagtr/server"
)

type serveCommand struct {
	cmd *cobra.Command
	O   struct {
		PoDir  string
		Domain string
		Host   string
		Port   string
	}
}

func (v *serveCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve compiled catalogs over HTTP",
		Long: `Load the <locale>.po files of a directory and serve them as compiled JSON
catalogs, negotiating the locale from the request path or Accept-Language.`,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return newErrorWithUsage("serve command needs no arguments")
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(cmd)
		},
	}

	v.cmd.Flags().StringVar(&v.O.PoDir, "po-dir", "", "directory holding the <locale>.po files (default ./po)")
	v.cmd.Flags().StringVarP(&v.O.Domain, "domain", "d", "", "gettext domain of the served catalogs (default messages)")
	v.cmd.Flags().StringVar(&v.O.Host, "host", "", "host to listen on (default localhost)")
	v.cmd.Flags().StringVarP(&v.O.Port, "port", "p", "", "port to listen on (default 8383)")

	return v.cmd
}

func (v *serveCommand) configure(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("po-dir") {
		cfg.Serve.PoDir = v.O.PoDir
	}

	if flags.Changed("domain") {
		cfg.Serve.Domain = v.O.Domain
	}

	if flags.Changed("host") {
		cfg.Serve.Host = v.O.Host
	}

	if flags.Changed("port") {
		cfg.Serve.Port = v.O.Port
	}
}

func (v *serveCommand) Execute(cmd *cobra.Command) error {
	cfg := &config.Global

	cfg.WarnIfContainerized()

	if err := i18n.Setup(os.DirFS(cfg.Serve.PoDir), "."); err != nil {
		return fmt.Errorf("failed to load locales from %s: %w", cfg.Serve.PoDir, err)
	}

	log.Info().
		Int("locales", len(i18n.Languages())).
		Str("dir", cfg.Serve.PoDir).
		Msg("Initialized i18n engine")

	handler, _, err := server.NewHandler(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, cfg, handler)
}
