// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"codeberg.org/tagtr/tagtr/placeholder"
)

// Attr is a message attribute passed among the children of [Translate] or
// [PluralTranslate]. Construct it with [Context] or [Comment].
type Attr struct {
	kind  attrKind
	value string
}

type attrKind uint8

const (
	contextAttr attrKind = iota + 1
	commentAttr
)

// Context disambiguates identical msgids, like gettext's msgctxt.
func Context(msgctxt string) Attr { return Attr{kind: contextAttr, value: msgctxt} }

// Comment is a note for translators. It is written to the catalogue by the
// extractor and has no effect at render time.
func Comment(text string) Attr { return Attr{kind: commentAttr, value: text} }

// Param is a named parameter, written as {name} in the msgid.
//
// The value may be a [templ.Component], which is rendered as is, or any other
// value, which is formatted with fmt and escaped.
func Param(name string, value any) placeholder.Node {
	return placeholder.NewParam(name, value)
}

// WrapParam is a named parameter whose body is translated along with the
// message, written as {name}body{/name}. At render time wrapper is rendered
// with the translated body as its children.
func WrapParam(name string, wrapper templ.Component, body ...string) placeholder.Node {
	return placeholder.NewBodyParam(name, wrapper, body...)
}

// Branch is the singular or plural half of a [PluralTranslate].
type Branch struct {
	plural   bool
	children []any
}

// Singular holds the message used when the count calls for the singular form.
func Singular(children ...any) Branch { return Branch{children: children} }

// Plural holds the message used for every other count.
func Plural(children ...any) Branch { return Branch{plural: true, children: children} }

type attrs struct {
	context    string
	comment    string
	hasContext bool
	hasComment bool
}

func (a *attrs) set(owner string, attr Attr) error {
	switch attr.kind {
	case contextAttr:
		if a.hasContext {
			return placeholder.Structuralf("more than one Context in %s", owner)
		}

		a.context, a.hasContext = attr.value, true
	case commentAttr:
		if a.hasComment {
			return placeholder.Structuralf("more than one Comment in %s", owner)
		}

		a.comment, a.hasComment = attr.value, true
	default:
		return placeholder.Structuralf("zero Attr in %s", owner)
	}

	return nil
}

// collect turns children into message nodes. Attributes are accepted only
// when a is not nil.
func collect(owner string, children []any, a *attrs) ([]placeholder.Node, error) {
	nodes := make([]placeholder.Node, 0, len(children))

	for _, child := range children {
		switch v := child.(type) {
		case string:
			nodes = append(nodes, placeholder.NewText(v))
		case placeholder.Node:
			if v.Kind == placeholder.Fragment {
				return nil, placeholder.Structuralf("unexpected Fragment child in %s", owner)
			}

			nodes = append(nodes, v)
		case Attr:
			if a == nil {
				return nil, placeholder.Structuralf("attributes are not allowed in %s", owner)
			}

			if err := a.set(owner, v); err != nil {
				return nil, err
			}
		default:
			return nil, placeholder.Structuralf("unexpected %s child of type %T", owner, child)
		}
	}

	return nodes, nil
}

// Translation is a translatable message. It implements [templ.Component] and
// renders through the [Renderer] carried by the render context.
type Translation struct {
	nodes []placeholder.Node
	attrs attrs
	err   error
}

// Translate builds a message from text, [Param], [WrapParam], [Context] and
// [Comment] children. Malformed children are reported when the message is
// resolved or rendered.
func Translate(children ...any) *Translation {
	t := &Translation{}
	t.nodes, t.err = collect("Translate", children, &t.attrs)

	return t
}

// Nodes returns the message as written in source.
func (t *Translation) Nodes() []placeholder.Node { return t.nodes }

// Context returns the message context, or "" if none was given.
func (t *Translation) Context() string { return t.attrs.context }

// Comment returns the translator comment, or "" if none was given.
func (t *Translation) Comment() string { return t.attrs.comment }

// MsgID returns the placeholder string used to look the message up.
func (t *Translation) MsgID() (string, error) {
	if t.err != nil {
		return "", t.err
	}

	return placeholder.Flatten(t.nodes)
}

func (t *Translation) Render(ctx context.Context, w io.Writer) error {
	r := RendererFrom(ctx)

	res, err := r.Resolve(t)
	if err != nil {
		return err
	}

	return r.write(ctx, w, res)
}

// PluralTranslation is a message with singular and plural forms. It
// implements [templ.Component].
type PluralTranslation struct {
	count    int
	singular []placeholder.Node
	plural   []placeholder.Node
	attrs    attrs
	err      error
}

// PluralTranslate builds a plural message from exactly one [Singular] and one
// [Plural] branch, in any order, plus optional [Context] and [Comment].
func PluralTranslate(count int, children ...any) *PluralTranslation {
	p := &PluralTranslation{count: count}
	p.err = p.collect(children)

	return p
}

func (p *PluralTranslation) collect(children []any) error {
	var singular, plural *Branch

	for _, child := range children {
		switch v := child.(type) {
		case Branch:
			if v.plural {
				if plural != nil {
					return placeholder.Structuralf("More than one Plural tag found")
				}

				plural = &v

				continue
			}

			if singular != nil {
				return placeholder.Structuralf("More than one Singular tag found")
			}

			singular = &v
		case Attr:
			if err := p.attrs.set("PluralTranslate", v); err != nil {
				return err
			}
		default:
			return placeholder.Structuralf("Unexpected PluralTranslate child: %T", child)
		}
	}

	if singular == nil {
		return placeholder.Structuralf("No Singular tag found")
	}

	if plural == nil {
		return placeholder.Structuralf("No Plural tag found")
	}

	var err error

	if p.singular, err = collect("Singular", singular.children, nil); err != nil {
		return err
	}

	p.plural, err = collect("Plural", plural.children, nil)

	return err
}

// Count returns the count the plural form is selected for.
func (p *PluralTranslation) Count() int { return p.count }

// Context returns the message context, or "" if none was given.
func (p *PluralTranslation) Context() string { return p.attrs.context }

// Comment returns the translator comment, or "" if none was given.
func (p *PluralTranslation) Comment() string { return p.attrs.comment }

// MsgIDs returns the singular and plural placeholder strings.
func (p *PluralTranslation) MsgIDs() (singular, plural string, err error) {
	if p.err != nil {
		return "", "", p.err
	}

	if singular, err = placeholder.Flatten(p.singular); err != nil {
		return "", "", err
	}

	if plural, err = placeholder.Flatten(p.plural); err != nil {
		return "", "", err
	}

	return singular, plural, nil
}

func (p *PluralTranslation) Render(ctx context.Context, w io.Writer) error {
	r := RendererFrom(ctx)

	res, err := r.ResolvePlural(p)
	if err != nil {
		return err
	}

	return r.write(ctx, w, res)
}
