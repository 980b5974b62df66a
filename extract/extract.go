// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"codeberg.org/tagtr/tagtr/catalog"
)

// Logger is the extract sub-logger.
var Logger = log.With().Str("sys", "extract").Logger()

// ReferenceMode controls the source references written for each message.
type ReferenceMode uint8

const (
	// ReferencesFull writes path:line.
	ReferencesFull ReferenceMode = iota
	// ReferencesFile writes the path only.
	ReferencesFile
	// ReferencesNever writes no references.
	ReferencesNever
)

func (m ReferenceMode) String() string {
	switch m {
	case ReferencesFull:
		return "full"
	case ReferencesFile:
		return "file"
	case ReferencesNever:
		return "never"
	default:
		return "ReferenceMode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseReferenceMode parses "full", "file" or "never".
func ParseReferenceMode(s string) (ReferenceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return ReferencesFull, nil
	case "file":
		return ReferencesFile, nil
	case "never":
		return ReferencesNever, nil
	default:
		return 0, fmt.Errorf("%w: %q", errInvalidRefMode, s)
	}
}

// Options configures an Extractor.
type Options struct {
	// BaseDir is the directory references are relative to. Defaults to the
	// working directory.
	BaseDir string

	// Packages are the package names that qualify recognised calls.
	// Defaults to ["i18n"].
	Packages []string

	References ReferenceMode

	// Concurrency bounds the number of files processed at once. Defaults to
	// GOMAXPROCS.
	Concurrency int
}

// Extractor collects translatable messages from Go and templ sources.
type Extractor struct {
	base        string
	packages    map[string]struct{}
	refs        ReferenceMode
	concurrency int
}

// New returns an Extractor for opts.
func New(opts Options) (*Extractor, error) {
	base := opts.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}

		base = wd
	}

	base, err := filepath.Abs(base)
	if err != nil {
		return nil, err
	}

	names := opts.Packages
	if len(names) == 0 {
		names = []string{"i18n"}
	}

	x := &Extractor{
		base:        base,
		packages:    make(map[string]struct{}, len(names)),
		refs:        opts.References,
		concurrency: opts.Concurrency,
	}

	for _, name := range names {
		x.packages[name] = struct{}{}
	}

	if x.concurrency <= 0 {
		x.concurrency = runtime.GOMAXPROCS(0)
	}

	return x, nil
}

// Extract processes paths concurrently and returns their messages in path
// order. When a file fails, the other files are still processed and a
// *DiagnosticsError listing every failure is returned instead of entries.
func (x *Extractor) Extract(ctx context.Context, paths []string) ([]catalog.Entry, error) {
	results := make([][]catalog.Entry, len(paths))
	errs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(x.concurrency)

	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i], errs[i] = x.File(p)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		entries []catalog.Entry
		diags   []Diagnostic
	)

	for i, p := range paths {
		if errs[i] != nil {
			diags = append(diags, Diagnostic{File: x.relative(p), Err: errs[i]})

			continue
		}

		entries = append(entries, results[i]...)
	}

	if len(diags) > 0 {
		return nil, &DiagnosticsError{Diagnostics: diags}
	}

	Logger.Debug().
		Int("files", len(paths)).
		Int("messages", len(entries)).
		Msg("Extracted messages")

	return entries, nil
}

// Catalog extracts paths and merges the result into a catalog with headers.
func (x *Extractor) Catalog(ctx context.Context, paths []string, headers map[string]string) (*catalog.Catalog, error) {
	entries, err := x.Extract(ctx, paths)
	if err != nil {
		return nil, err
	}

	return catalog.Merge(entries, headers), nil
}

// File extracts the messages of one source file.
func (x *Extractor) File(path string) ([]catalog.Entry, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return x.Source(path, src)
}

// Source extracts the messages of src, read from path. Files ending in
// .templ are parsed as templ templates, everything else as Go.
func (x *Extractor) Source(path string, src []byte) ([]catalog.Entry, error) {
	w := newFileWalker(x, x.relative(path))

	var chunks []chunk

	if strings.EqualFold(filepath.Ext(path), ".templ") {
		var err error
		if chunks, err = w.templChunks(path, src); err != nil {
			return nil, err
		}
	} else {
		fset := token.NewFileSet()

		f, err := parser.ParseFile(fset, path, src, parser.ParseComments)
		if err != nil {
			return nil, err
		}

		c := chunk{fset: fset, file: f}
		w.addChunk(c)
		chunks = []chunk{c}
	}

	for _, c := range chunks {
		if err := w.walk(c); err != nil {
			return nil, err
		}
	}

	return w.entries, nil
}

// relative returns path relative to the base directory, slash separated.
// Paths outside the base directory are kept as given.
func (x *Extractor) relative(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}

	rel, err := filepath.Rel(x.base, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}

	return filepath.ToSlash(rel)
}

func (x *Extractor) reference(file string, line int) string {
	switch x.refs {
	case ReferencesFile:
		return file
	case ReferencesNever:
		return ""
	default:
		return file + ":" + strconv.Itoa(line)
	}
}
