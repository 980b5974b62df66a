// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"
)

// DefaultExtensions are the file extensions Files looks for in directories.
var DefaultExtensions = []string{".go", ".templ"}

// Files expands paths into source files. Directories are walked
// recursively, skipping hidden, vendor and testdata directories and
// generated _templ.go files. Files named explicitly are kept whatever their
// extension. Paths that cannot be read are reported as diagnostics.
func Files(paths, exts []string) ([]string, []Diagnostic) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	var (
		files []string
		diags []Diagnostic
	)

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			diags = append(diags, Diagnostic{File: root, Err: err})

			continue
		}

		if !info.IsDir() {
			files = append(files, filepath.Clean(root))

			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				diags = append(diags, Diagnostic{File: path, Err: err})

				return nil
			}

			if d.IsDir() {
				if path != root && skipDir(d.Name()) {
					return filepath.SkipDir
				}

				return nil
			}

			if hasExt(d.Name(), exts) && !strings.HasSuffix(d.Name(), "_templ.go") {
				files = append(files, path)
			}

			return nil
		})
		if err != nil {
			diags = append(diags, Diagnostic{File: root, Err: err})
		}
	}

	slices.Sort(files)

	return slices.Compact(files), diags
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata"
}

func hasExt(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, "."+strings.TrimPrefix(e, ".")) {
			return true
		}
	}

	return false
}

// IsPackagePattern reports whether arg is a Go package pattern rather than
// a file system path.
func IsPackagePattern(arg string) bool {
	return strings.Contains(arg, "...")
}

// Packages loads Go package patterns from dir and returns their source
// files, plus the templ files found next to them when exts includes .templ.
func Packages(ctx context.Context, dir string, patterns, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles,
		Dir:     dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errLoadPackages, err)
	}

	if n := packages.PrintErrors(pkgs); n > 0 {
		return nil, fmt.Errorf("%w: %d error(s) in %s", errLoadPackages, n, strings.Join(patterns, " "))
	}

	withGo := hasExt("x.go", exts)
	withTempl := hasExt("x.templ", exts)

	var files []string

	dirs := make(map[string]struct{})

	for _, pkg := range pkgs {
		for _, f := range pkg.GoFiles {
			if withGo && !strings.HasSuffix(f, "_templ.go") {
				files = append(files, f)
			}

			dirs[filepath.Dir(f)] = struct{}{}
		}
	}

	if withTempl {
		for d := range dirs {
			matches, err := filepath.Glob(filepath.Join(d, "*.templ"))
			if err != nil {
				return nil, err
			}

			files = append(files, matches...)
		}
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}

// ProjectRoot finds a stable base directory for references, preferring
// the git top level, then the nearest directory holding go.mod, then wd.
func ProjectRoot(wd string) string {
	if root := gitTopLevel(wd); root != "" {
		return root
	}

	if root := nearestGoModDir(wd); root != "" {
		return root
	}

	return wd
}

func gitTopLevel(wd string) string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")

	cmd.Dir = wd

	out, err := cmd.Output()
	if err != nil {
		return ""
	}

	root := strings.TrimSpace(string(out))
	if root == "" {
		return ""
	}

	return filepath.Clean(root)
}

func nearestGoModDir(start string) string {
	dir := filepath.Clean(start)
	for {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}

		dir = parent
	}
}
