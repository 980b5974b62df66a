// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"fmt"
	goparser "go/parser"
	"go/token"
	"strings"

	"github.com/a-h/templ/parser/v2"
	"github.com/a-h/templ/parser/v2/visitor"
)

// Go code is wrapped so that go/parser accepts it. Each prefix ends with the
// Go code on its last line.
const (
	exprPrefix = "package p\nvar _ = "
	codePrefix = "package p\nfunc _() {\n"
	declPrefix = "package p\n"
)

// templChunks parses a templ file and returns the Go code it embeds, in
// source order. Template comments are registered on w as they are found.
func (w *fileWalker) templChunks(filename string, src []byte) ([]chunk, error) {
	tf, err := parser.ParseString(string(src))
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()

	var chunks []chunk

	add := func(prefix string, expr parser.Expression, suffix string) error {
		if strings.TrimSpace(expr.Value) == "" {
			return nil
		}

		f, err := goparser.ParseFile(fset, filename, prefix+expr.Value+suffix, goparser.ParseComments)
		if err != nil {
			return fmt.Errorf("line %d: %w", expr.Range.From.Line+1, err)
		}

		c := chunk{
			fset:   fset,
			file:   f,
			offset: int(expr.Range.From.Line) - strings.Count(prefix, "\n"),
		}

		w.addChunk(c)
		chunks = append(chunks, c)

		return nil
	}

	v := visitor.New()

	v.TemplateFileGoExpression = func(n *parser.TemplateFileGoExpression) error {
		return add(declPrefix, n.Expression, "")
	}
	v.TemplElementExpression = func(n *parser.TemplElementExpression) error {
		if err := add(exprPrefix, n.Expression, ""); err != nil {
			return err
		}

		for _, child := range n.Children {
			if err := child.Visit(v); err != nil {
				return err
			}
		}

		return nil
	}
	v.CallTemplateExpression = func(n *parser.CallTemplateExpression) error {
		return add(exprPrefix, n.Expression, "")
	}
	v.StringExpression = func(n *parser.StringExpression) error {
		return add(exprPrefix, n.Expression, "")
	}
	v.ExpressionAttribute = func(n *parser.ExpressionAttribute) error {
		return add(exprPrefix, n.Expression, "")
	}
	v.BoolExpressionAttribute = func(n *parser.BoolExpressionAttribute) error {
		return add(exprPrefix, n.Expression, "")
	}
	v.SpreadAttributes = func(n *parser.SpreadAttributes) error {
		return add(exprPrefix, n.Expression, "")
	}
	v.GoCode = func(n *parser.GoCode) error {
		return add(codePrefix, n.Expression, "\n}")
	}
	v.HTMLComment = func(n *parser.HTMLComment) error {
		w.notes.add(int(n.Range.From.Line)+1, int(n.Range.To.Line)+1, n.Contents)

		return nil
	}
	v.GoComment = func(n *parser.GoComment) error {
		w.notes.add(int(n.Range.From.Line)+1, int(n.Range.To.Line)+1, n.Contents)

		return nil
	}

	if err := v.VisitTemplateFile(tf); err != nil {
		return nil, err
	}

	return chunks, nil
}
