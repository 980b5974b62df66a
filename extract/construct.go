// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"

	"codeberg.org/tagtr/tagtr/catalog"
	"codeberg.org/tagtr/tagtr/placeholder"
)

type constructKind uint8

const (
	simpleConstruct constructKind = iota
	pluralConstruct
	callConstruct
)

// construct describes where a recognised call keeps its messages. Argument
// indexes of -1 mean the argument does not exist.
type construct struct {
	kind     constructKind
	context  int
	singular int
	plural   int
}

// constructs lists the calls the extractor recognises, by name.
var constructs = map[string]construct{
	"Translate":       {kind: simpleConstruct},
	"PluralTranslate": {kind: pluralConstruct},

	"MsgKey": {kind: callConstruct, context: -1, singular: 0, plural: -1},

	"String": {kind: callConstruct, context: -1, singular: 1, plural: -1},
	"Tr":     {kind: callConstruct, context: -1, singular: 1, plural: -1},

	"StringC": {kind: callConstruct, context: 1, singular: 2, plural: -1},
	"TrC":     {kind: callConstruct, context: 1, singular: 2, plural: -1},

	"PluralString": {kind: callConstruct, context: -1, singular: 1, plural: 2},
	"TrN":          {kind: callConstruct, context: -1, singular: 1, plural: 2},

	"PluralStringC": {kind: callConstruct, context: 1, singular: 2, plural: 3},
	"TrNC":          {kind: callConstruct, context: 1, singular: 2, plural: 3},
}

// minArgs returns the number of arguments a call form needs, counting the
// plural count.
func (c construct) minArgs() int {
	n := max(c.context, c.singular, c.plural) + 1
	if c.plural >= 0 {
		n++
	}

	return n
}

// attrs holds the Context and Comment children of a construct.
type attrs struct {
	context    string
	comment    string
	hasContext bool
	hasComment bool
}

func (a *attrs) set(owner, name, value string) error {
	switch name {
	case "Context":
		if a.hasContext {
			return placeholder.Structuralf("more than one Context in %s", owner)
		}

		a.context, a.hasContext = value, true
	case "Comment":
		if a.hasComment {
			return placeholder.Structuralf("more than one Comment in %s", owner)
		}

		a.comment, a.hasComment = value, true
	}

	return nil
}

// simple reads Translate(children...).
func (w *fileWalker) simple(call *ast.CallExpr) (catalog.Entry, error) {
	if call.Ellipsis.IsValid() {
		return catalog.Entry{}, unsupported(call.Args[len(call.Args)-1])
	}

	var a attrs

	nodes, err := w.children("Translate", call.Args, &a)
	if err != nil {
		return catalog.Entry{}, err
	}

	msgid, err := messageID("Translate", nodes)
	if err != nil {
		return catalog.Entry{}, err
	}

	return catalog.Entry{MsgID: msgid, Context: a.context, Comment: a.comment}, nil
}

// plural reads PluralTranslate(count, children...).
func (w *fileWalker) plural(call *ast.CallExpr) (catalog.Entry, error) {
	if len(call.Args) == 0 {
		return catalog.Entry{}, placeholder.Structuralf("PluralTranslate needs a count")
	}

	if call.Ellipsis.IsValid() {
		return catalog.Entry{}, unsupported(call.Args[len(call.Args)-1])
	}

	var (
		a                      attrs
		singular, plural       []ast.Expr
		hasSingular, hasPlural bool
	)

	for _, arg := range call.Args[1:] {
		name, child, ok := w.constructCall(arg)
		if !ok {
			if isStringExpr(arg) {
				return catalog.Entry{}, placeholder.Structuralf("Unexpected PluralTranslate child tag: %s", types.ExprString(arg))
			}

			return catalog.Entry{}, unsupported(arg)
		}

		switch name {
		case "Singular":
			if hasSingular {
				return catalog.Entry{}, placeholder.Structuralf("More than one Singular tag found")
			}

			singular, hasSingular = child.Args, true
		case "Plural":
			if hasPlural {
				return catalog.Entry{}, placeholder.Structuralf("More than one Plural tag found")
			}

			plural, hasPlural = child.Args, true
		case "Context", "Comment":
			value, err := w.attrValue(name, child)
			if err != nil {
				return catalog.Entry{}, err
			}

			if err := a.set("PluralTranslate", name, value); err != nil {
				return catalog.Entry{}, err
			}
		default:
			return catalog.Entry{}, placeholder.Structuralf("Unexpected PluralTranslate child tag: %s", name)
		}
	}

	if !hasSingular {
		return catalog.Entry{}, placeholder.Structuralf("No Singular tag found")
	}

	if !hasPlural {
		return catalog.Entry{}, placeholder.Structuralf("No Plural tag found")
	}

	msgid, err := w.branch("Singular", singular)
	if err != nil {
		return catalog.Entry{}, err
	}

	msgidPlural, err := w.branch("Plural", plural)
	if err != nil {
		return catalog.Entry{}, err
	}

	return catalog.Entry{
		MsgID:       msgid,
		MsgIDPlural: msgidPlural,
		Context:     a.context,
		Comment:     a.comment,
	}, nil
}

func (w *fileWalker) branch(owner string, args []ast.Expr) (string, error) {
	nodes, err := w.children(owner, args, nil)
	if err != nil {
		return "", err
	}

	return messageID(owner, nodes)
}

// messageID flattens nodes into a msgid. An empty msgid would collide with
// the catalogue header and is a structural error.
func messageID(owner string, nodes []placeholder.Node) (string, error) {
	msgid, err := placeholder.FlattenStrict(nodes)
	if err != nil {
		return "", err
	}

	if msgid == "" {
		return "", placeholder.Structuralf("empty %s message", owner)
	}

	return msgid, nil
}

// children converts the children of a message into nodes. Context and
// Comment are accepted only when a is not nil.
func (w *fileWalker) children(owner string, args []ast.Expr, a *attrs) ([]placeholder.Node, error) {
	nodes := make([]placeholder.Node, 0, len(args))

	for _, arg := range args {
		name, call, ok := w.constructCall(arg)
		if !ok {
			if _, isCall := ast.Unparen(arg).(*ast.CallExpr); isCall {
				return nil, unsupported(arg)
			}

			s, err := stringValue(arg)
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, placeholder.NewText(s))

			continue
		}

		switch name {
		case "Param":
			if len(call.Args) != 2 {
				return nil, placeholder.Structuralf("Param needs a name and a value, got %d arguments", len(call.Args))
			}

			paramName, err := stringValue(call.Args[0])
			if err != nil {
				return nil, err
			}

			nodes = append(nodes, placeholder.NewParam(paramName, call.Args[1]))
		case "WrapParam":
			if len(call.Args) < 2 {
				return nil, placeholder.Structuralf("WrapParam needs a name and a wrapper, got %d arguments", len(call.Args))
			}

			if call.Ellipsis.IsValid() {
				return nil, unsupported(call.Args[len(call.Args)-1])
			}

			paramName, err := stringValue(call.Args[0])
			if err != nil {
				return nil, err
			}

			body := make([]string, 0, len(call.Args)-2)

			for _, b := range call.Args[2:] {
				s, err := stringValue(b)
				if err != nil {
					return nil, err
				}

				body = append(body, s)
			}

			nodes = append(nodes, placeholder.NewBodyParam(paramName, call.Args[1], body...))
		case "Context", "Comment":
			if a == nil {
				return nil, placeholder.Structuralf("attributes are not allowed in %s", owner)
			}

			value, err := w.attrValue(name, call)
			if err != nil {
				return nil, err
			}

			if err := a.set(owner, name, value); err != nil {
				return nil, err
			}
		default:
			return nil, placeholder.Structuralf("unexpected %s child %s", owner, name)
		}
	}

	return nodes, nil
}

func (w *fileWalker) attrValue(name string, call *ast.CallExpr) (string, error) {
	if len(call.Args) != 1 {
		return "", placeholder.Structuralf("%s needs one argument, got %d", name, len(call.Args))
	}

	return stringValue(call.Args[0])
}

// callForm reads the String and Tr families and MsgKey conversions. The
// second result is false when a message argument is not a literal or the
// msgid is empty.
func (w *fileWalker) callForm(name string, c construct, call *ast.CallExpr) (catalog.Entry, bool, error) {
	if need := c.minArgs(); len(call.Args) < need {
		return catalog.Entry{}, false, placeholder.Structuralf("%s needs at least %d arguments, got %d", name, need, len(call.Args))
	}

	var (
		e   catalog.Entry
		err error
	)

	if e.MsgID, err = stringValue(call.Args[c.singular]); err != nil || e.MsgID == "" {
		return e, false, nil
	}

	if c.context >= 0 {
		if e.Context, err = stringValue(call.Args[c.context]); err != nil {
			return e, false, nil
		}
	}

	if c.plural >= 0 {
		if e.MsgIDPlural, err = stringValue(call.Args[c.plural]); err != nil {
			return e, false, nil
		}
	}

	return e, true, nil
}

// stringValue evaluates a string literal or a + concatenation of string
// literals.
func stringValue(e ast.Expr) (string, error) {
	switch x := ast.Unparen(e).(type) {
	case *ast.BasicLit:
		if x.Kind == token.STRING {
			return constant.StringVal(constant.MakeFromLiteral(x.Value, token.STRING, 0)), nil
		}
	case *ast.BinaryExpr:
		if x.Op == token.ADD {
			left, err := stringValue(x.X)
			if err != nil {
				return "", err
			}

			right, err := stringValue(x.Y)
			if err != nil {
				return "", err
			}

			return left + right, nil
		}
	}

	return "", unsupported(e)
}

func isStringExpr(e ast.Expr) bool {
	_, err := stringValue(e)

	return err == nil
}

func unsupported(e ast.Expr) error {
	return &UnsupportedExpressionError{Expr: types.ExprString(e)}
}
