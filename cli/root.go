// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package cli implements the tagtr command line.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"codeberg.org/tagtr/tagtr/config"
)

// errorWithUsage marks an error caused by the arguments, for which the usage
// of the command is printed.
type errorWithUsage struct{ msg string }

func (e errorWithUsage) Error() string { return e.msg }

func newErrorWithUsage(format string, a ...any) error {
	return errorWithUsage{msg: fmt.Sprintf(format, a...)}
}

// IsErrorWithUsage reports whether err should be followed by the usage of
// the command that failed.
func IsErrorWithUsage(err error) bool {
	var e errorWithUsage

	return errors.As(err, &e)
}

// configurer writes the flags a user set on a command into cfg.
type configurer func(cmd *cobra.Command, cfg *config.Config)

type rootCommand struct {
	cmd *cobra.Command
	O   struct {
		Config   string
		LogLevel string
	}

	configurers map[*cobra.Command]configurer
}

func (v *rootCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "tagtr",
		Short: "Extract, compile and serve translatable messages of templ components",
		// main handles error output
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newErrorWithUsage("run 'tagtr -h' for help")
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return v.loadConfig(cmd)
		},
	}

	v.cmd.Version = config.BuildVersion
	v.cmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)

	v.cmd.PersistentFlags().StringVar(&v.O.Config,
		"config",
		config.DefaultConfigFile,
		"configuration file (also TAGTR_CONFIGFILE)")
	v.cmd.PersistentFlags().StringVar(&v.O.LogLevel,
		"log-level",
		"",
		"log level: trace, debug, info, warn, error, fatal or panic")

	return v.cmd
}

// AddCommand registers a subcommand. configure, when not nil, runs after the
// configuration is loaded and before it is validated.
func (v *rootCommand) AddCommand(cmd *cobra.Command, configure configurer) {
	v.Command().AddCommand(cmd)

	if configure == nil {
		return
	}

	if v.configurers == nil {
		v.configurers = make(map[*cobra.Command]configurer)
	}

	v.configurers[cmd] = configure
}

// loadConfig fills config.Global from its sources, then from the flags of
// cmd, and applies it.
func (v *rootCommand) loadConfig(cmd *cobra.Command) error {
	path := config.ConfigPath(v.O.Config, cmd.Flags().Changed("config"))

	if err := config.Global.Load(path); err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		config.Global.Log.Level = v.O.LogLevel
	}

	if configure, ok := v.configurers[cmd]; ok {
		configure(cmd, &config.Global)
	}

	return config.Global.Apply()
}

func newRootCommand() *rootCommand {
	root := &rootCommand{}

	extract := &extractCommand{}
	root.AddCommand(extract.Command(), extract.configure)

	compile := &compileCommand{}
	root.AddCommand(compile.Command(), compile.configure)

	serve := &serveCommand{}
	root.AddCommand(serve.Command(), serve.configure)

	return root
}

// Execute runs the command line and returns the command that ran along
// with its error.
func Execute(ctx context.Context, args []string) (*cobra.Command, error) {
	root := newRootCommand().Command()
	root.SetArgs(args)

	cmd, _, err := root.Find(args)
	if err != nil {
		cmd = root
	}

	return cmd, root.ExecuteContext(ctx)
}
