// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"fmt"
	"go/ast"
	"go/token"
	"path"
	"strconv"

	"golang.org/x/tools/go/ast/inspector"

	"codeberg.org/tagtr/tagtr/catalog"
)

// chunk is a Go syntax tree taken from a source file. Adding offset to a line
// of the tree gives the line in the source file.
type chunk struct {
	fset   *token.FileSet
	file   *ast.File
	offset int
}

func (c chunk) line(p token.Pos) int {
	return c.fset.Position(p).Line + c.offset
}

// fileWalker collects the messages of one source file. It is not shared
// between files, so annotations never leak across file boundaries.
type fileWalker struct {
	x          *Extractor
	ref        string
	qualifiers map[string]struct{}
	notes      annotations
	entries    []catalog.Entry

	// noted is the end of the last construct that took an annotation.
	// Constructs nested inside it do not take one.
	noted token.Pos
}

func newFileWalker(x *Extractor, ref string) *fileWalker {
	w := &fileWalker{x: x, ref: ref, qualifiers: make(map[string]struct{})}
	for name := range x.packages {
		w.qualifiers[name] = struct{}{}
	}

	return w
}

// addChunk registers the imports and comments of c. It must be called for
// every chunk, in source order, before any chunk is walked.
func (w *fileWalker) addChunk(c chunk) {
	for _, imp := range c.file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}

		if _, ok := w.x.packages[path.Base(p)]; !ok {
			continue
		}

		name := path.Base(p)
		if imp.Name != nil {
			name = imp.Name.Name
		}

		if name != "_" && name != "." {
			w.qualifiers[name] = struct{}{}
		}
	}

	for _, group := range c.file.Comments {
		for _, comment := range group.List {
			w.notes.add(c.line(comment.Pos()), c.line(comment.End()), goCommentText(comment.Text))
		}
	}
}

// walk extracts the constructs of c in source order.
func (w *fileWalker) walk(c chunk) error {
	var err error

	w.noted = token.NoPos

	in := inspector.New([]*ast.File{c.file})
	in.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		if err == nil {
			err = w.call(c, n.(*ast.CallExpr))
		}
	})

	return err
}

func (w *fileWalker) call(c chunk, call *ast.CallExpr) error {
	name, ok := w.qualified(call.Fun)
	if !ok {
		return nil
	}

	spec, ok := constructs[name]
	if !ok {
		return nil
	}

	line := c.line(call.Pos())

	var (
		entry catalog.Entry
		err   error
	)

	switch spec.kind {
	case simpleConstruct:
		entry, err = w.simple(call)
	case pluralConstruct:
		entry, err = w.plural(call)
	case callConstruct:
		var literal bool

		entry, literal, err = w.callForm(name, spec, call)
		if err == nil && !literal {
			Logger.Debug().
				Str("file", w.ref).
				Int("line", line).
				Str("call", name).
				Msg("Skipping call with non-literal message")

			return nil
		}
	}

	if err != nil {
		return fmt.Errorf("line %d: %w", line, err)
	}

	if note, ok := w.notes.at(line); ok && call.Pos() >= w.noted {
		w.noted = call.End()

		if entry.Comment == "" {
			entry.Comment = note
		}
	}

	entry.Reference = w.x.reference(w.ref, line)
	w.entries = append(w.entries, entry)

	return nil
}

// qualified returns the selected name when fun is pkg.Name for one of the
// qualifiers of the file.
func (w *fileWalker) qualified(fun ast.Expr) (string, bool) {
	sel, ok := ast.Unparen(fun).(*ast.SelectorExpr)
	if !ok {
		return "", false
	}

	id, ok := sel.X.(*ast.Ident)
	if !ok {
		return "", false
	}

	if _, ok := w.qualifiers[id.Name]; !ok {
		return "", false
	}

	return sel.Sel.Name, true
}

// constructCall reports whether e is a call of a qualified function.
func (w *fileWalker) constructCall(e ast.Expr) (string, *ast.CallExpr, bool) {
	call, ok := ast.Unparen(e).(*ast.CallExpr)
	if !ok {
		return "", nil, false
	}

	name, ok := w.qualified(call.Fun)

	return name, call, ok
}
