// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"codeberg.org/tagtr/tagtr/catalog"
	"codeberg.org/tagtr/tagtr/config"
	"codeberg.org/tagtr/tagtr/extract"
)

var errExtractFailed = errors.New("extraction failed")

const outputFilePermissions = 0o644

type extractCommand struct {
	cmd *cobra.Command
	O   struct {
		Extensions  []string
		BaseDir     string
		Packages    []string
		References  string
		Output      string
		Concurrency int
	}
}

func (v *extractCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "extract <paths...>",
		Short: "Extract translatable messages into a PO template",
		Long: `Extract the messages of Translate and PluralTranslate calls found in Go and
templ sources and write them as a PO template.

Directories are walked recursively. Arguments containing "..." are Go package
patterns, resolved from the working directory.

Files that fail to extract are reported on stderr and nothing is written.`,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return newErrorWithUsage("extract requires at least one path")
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(cmd, args)
		},
	}

	v.cmd.Flags().StringSliceVarP(&v.O.Extensions, "ext", "e", nil, "file extensions to consider (default go,templ)")
	v.cmd.Flags().StringVar(&v.O.BaseDir, "base", "", "directory references are relative to (default project root)")
	v.cmd.Flags().StringSliceVar(&v.O.Packages, "packages", nil, "package names qualifying recognised calls (default i18n)")
	v.cmd.Flags().StringVar(&v.O.References, "references", "", "source references to write: full, file or never")
	v.cmd.Flags().StringVarP(&v.O.Output, "output", "o", "", "write the template to this file instead of stdout")
	v.cmd.Flags().IntVarP(&v.O.Concurrency, "concurrency", "j", 0, "files processed at once (default GOMAXPROCS)")

	return v.cmd
}

func (v *extractCommand) configure(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("ext") {
		cfg.Extract.Extensions = v.O.Extensions
	}

	if flags.Changed("base") {
		cfg.Extract.BaseDir = v.O.BaseDir
	}

	if flags.Changed("packages") {
		cfg.Extract.Packages = v.O.Packages
	}

	if flags.Changed("references") {
		cfg.Extract.References = v.O.References
	}

	if flags.Changed("output") {
		cfg.Extract.Output = v.O.Output
	}

	if flags.Changed("concurrency") {
		cfg.Extract.Concurrency = v.O.Concurrency
	}
}

func (v *extractCommand) Execute(cmd *cobra.Command, args []string) error {
	opts := config.Global.Extract
	stderr := cmd.ErrOrStderr()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	refs, err := extract.ParseReferenceMode(opts.References)
	if err != nil {
		return err
	}

	base := opts.BaseDir
	if base == "" {
		base = extract.ProjectRoot(wd)
	}

	exts := normalizeExtensions(opts.Extensions)

	var paths, patterns []string

	for _, arg := range args {
		if extract.IsPackagePattern(arg) {
			patterns = append(patterns, arg)
		} else {
			paths = append(paths, arg)
		}
	}

	files, invalid := extract.Files(paths, exts)
	for _, d := range invalid {
		fmt.Fprintf(stderr, "invalid path: %s\n", d)
	}

	if len(patterns) > 0 {
		pkgFiles, err := extract.Packages(cmd.Context(), wd, patterns, exts)
		if err != nil {
			return err
		}

		files = append(files, pkgFiles...)
	}

	x, err := extract.New(extract.Options{
		BaseDir:     base,
		Packages:    opts.Packages,
		References:  refs,
		Concurrency: opts.Concurrency,
	})
	if err != nil {
		return err
	}

	headers := catalog.DefaultHeaders(time.Now(), config.Global.Build.Generator())

	cat, err := x.Catalog(cmd.Context(), files, headers)
	if err != nil {
		var diags *extract.DiagnosticsError
		if !errors.As(err, &diags) {
			return err
		}

		for _, d := range diags.Diagnostics {
			fmt.Fprintln(stderr, d.Error())
		}

		return fmt.Errorf("%w: %d of %d file(s) failed", errExtractFailed, len(diags.Diagnostics), len(files))
	}

	log.Info().
		Int("files", len(files)).
		Int("messages", cat.Len()).
		Msg("Extracted messages")

	return writeOutput(cmd.OutOrStdout(), opts.Output, func(w io.Writer) error {
		_, err := cat.WriteTo(w)

		return err
	})
}

// normalizeExtensions accepts extensions with or without the leading dot.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))

	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}

		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}

		out = append(out, ext)
	}

	return out
}

// writeOutput runs write against path, creating its directory, or against
// stdout when path is empty.
func writeOutput(stdout io.Writer, path string, write func(w io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermissions) // #nosec G304 -- path is chosen by the operator
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}

	if err := write(f); err != nil {
		_ = f.Close()

		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return f.Close()
}
