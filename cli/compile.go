// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/tagtr/tagtr/catalog"
	"codeberg.org/tagtr/tagtr/config"
)

type compileCommand struct {
	cmd *cobra.Command
	O   struct {
		Domain string
		Pretty bool
		Output string
	}
}

func (v *compileCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "compile <pofile>",
		Short: "Compile a PO file into a JSON catalog",
		Long: `Compile the translations of a PO file into the JSON catalog read by
catalog.LoadCompiled. Translations are stored in their structured form.`,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return newErrorWithUsage("compile requires exactly one argument: <pofile>")
			}

			if _, err := os.Stat(args[0]); err != nil {
				return newErrorWithUsage("invalid path: %s", args[0])
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(cmd, args)
		},
	}

	v.cmd.Flags().StringVarP(&v.O.Domain, "domain", "d", catalog.DefaultDomain, "gettext domain of the output data")
	v.cmd.Flags().BoolVar(&v.O.Pretty, "pretty", false, "indent the output")
	v.cmd.Flags().StringVarP(&v.O.Output, "output", "o", "", "write the catalog to this file instead of stdout")

	return v.cmd
}

func (v *compileCommand) configure(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("domain") {
		cfg.Compile.Domain = v.O.Domain
	}

	if cmd.Flags().Changed("pretty") {
		cfg.Compile.Pretty = v.O.Pretty
	}
}

func (v *compileCommand) Execute(cmd *cobra.Command, args []string) error {
	opts := config.Global.Compile

	doc, err := catalog.CompileFile(args[0], opts.Domain)
	if err != nil {
		return err
	}

	data, err := doc.Marshal(opts.Pretty)
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), v.O.Output, func(w io.Writer) error {
		_, err := w.Write(data)

		return err
	})
}
