// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"golang.org/x/text/language"

	"codeberg.org/tagtr/tagtr/core/lrucache"
	"codeberg.org/tagtr/tagtr/gettext"
	"codeberg.org/tagtr/tagtr/placeholder"
)

// DefaultCacheSize is the number of decoded translations a [Renderer] keeps.
const DefaultCacheSize = 512

// State tells how a message was resolved.
type State uint8

const (
	// NoTranslation means the lookup returned the msgid itself.
	NoTranslation State = iota
	// SingularFallback means a plural lookup returned the singular msgid.
	SingularFallback
	// PluralFallback means a plural lookup returned the plural msgid.
	PluralFallback
	// StructuredSubstitution means a translation was found and its
	// parameters were bound to the values given in source.
	StructuredSubstitution
)

func (s State) String() string {
	switch s {
	case NoTranslation:
		return "NoTranslation"
	case SingularFallback:
		return "SingularFallback"
	case PluralFallback:
		return "PluralFallback"
	case StructuredSubstitution:
		return "StructuredSubstitution"
	default:
		return "Unknown"
	}
}

// Result is a resolved message ready to be written out.
type Result struct {
	State State
	Nodes []placeholder.Node
}

// Translated reports whether a translation was substituted.
func (r Result) Translated() bool { return r.State == StructuredSubstitution }

// Renderer resolves messages against one gettext lookup.
//
// A Renderer is safe for concurrent use.
type Renderer struct {
	gettext *gettext.Adapter
	tag     language.Tag
	parsed  *lrucache.Cache[placeholder.Node] // nil when caching is disabled
}

type options struct {
	tag       language.Tag
	cacheSize int
}

// Option configures a [Renderer].
type Option func(*options)

// WithLocale sets the locale reported by [Renderer.Locale] and used in logs.
func WithLocale(tag language.Tag) Option {
	return func(o *options) { o.tag = tag }
}

// WithCacheSize bounds the cache of decoded translations. A size of zero or
// less disables the cache.
func WithCacheSize(size int) Option {
	return func(o *options) { o.cacheSize = size }
}

// NewRenderer returns a Renderer backed by gt. A nil gt never translates.
func NewRenderer(gt *gettext.Adapter, opts ...Option) *Renderer {
	o := options{tag: baseTag, cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}

	if gt == nil {
		gt = gettext.Identity()
	}

	r := &Renderer{gettext: gt, tag: o.tag}

	if o.cacheSize > 0 {
		r.parsed, _ = lrucache.New[placeholder.Node](o.cacheSize)
	}

	return r
}

// Locale returns the locale of the renderer.
func (r *Renderer) Locale() language.Tag { return r.tag }

// Gettext returns the lookup backing the renderer.
func (r *Renderer) Gettext() *gettext.Adapter { return r.gettext }

// Resolve looks t up and binds the translation's parameters to the values
// given in source.
//
// When the lookup returns the msgid unchanged the result is NoTranslation and
// carries t's nodes as written. A translation referencing a parameter that t
// does not define fails with a *placeholder.MissingPlaceholderError.
func (r *Renderer) Resolve(t *Translation) (Result, error) {
	msgid, err := t.MsgID()
	if err != nil {
		return Result{}, err
	}

	// The empty msgid is the catalogue header.
	if msgid == "" {
		return Result{State: NoTranslation, Nodes: t.nodes}, nil
	}

	translated := r.gettext.Select(t.Context())(msgid)
	if translated == msgid {
		r.missing(t.Context(), msgid)

		return Result{State: NoTranslation, Nodes: t.nodes}, nil
	}

	nodes, err := bind(r.parse(translated), t.nodes)
	if err != nil {
		return Result{}, err
	}

	return Result{State: StructuredSubstitution, Nodes: nodes}, nil
}

// ResolvePlural looks p up for its count.
//
// A lookup returning either msgid unchanged falls back to that branch as
// written. Otherwise the translation's parameters are bound to the branch
// selected for the count: the plural branch when the locale has a single
// plural form, else the singular branch for a count of one and the plural
// branch for any other count.
func (r *Renderer) ResolvePlural(p *PluralTranslation) (Result, error) {
	singular, plural, err := p.MsgIDs()
	if err != nil {
		return Result{}, err
	}

	translated := r.gettext.SelectPlural(p.Context())(singular, plural, p.count)

	switch translated {
	case singular:
		r.missing(p.Context(), singular)

		return Result{State: SingularFallback, Nodes: p.singular}, nil
	case plural:
		r.missing(p.Context(), singular)

		return Result{State: PluralFallback, Nodes: p.plural}, nil
	}

	source := p.singular
	if r.pluralBranch(p.count) {
		source = p.plural
	}

	nodes, err := bind(r.parse(translated), source)
	if err != nil {
		return Result{}, err
	}

	return Result{State: StructuredSubstitution, Nodes: nodes}, nil
}

func (r *Renderer) pluralBranch(count int) bool {
	if r.gettext.Plurals() == 1 {
		return true
	}

	return count != 1
}

func (r *Renderer) parse(s string) placeholder.Node {
	if r.parsed == nil {
		return placeholder.Parse(s)
	}

	n, _ := r.parsed.GetOrAdd(s, func() (placeholder.Node, error) {
		return placeholder.Parse(s), nil
	})

	return n
}

func (r *Renderer) missing(msgctxt, msgid string) {
	logMissingOnce(strippedTagString(r.tag), buildLogKey(msgctxt, msgid))
}

// bind copies the value and wrapper of each parameter of source onto the
// parameter of the same name in translated.
func bind(translated placeholder.Node, source []placeholder.Node) ([]placeholder.Node, error) {
	params := make(map[string]placeholder.Node, len(source))

	for _, n := range source {
		if n.Kind == placeholder.Param {
			params[n.Name] = n
		}
	}

	decoded := translated.Nodes()
	out := make([]placeholder.Node, 0, len(decoded))

	for _, n := range decoded {
		if n.Kind == placeholder.Param {
			src, ok := params[n.Name]
			if !ok {
				return nil, &placeholder.MissingPlaceholderError{Name: n.Name}
			}

			n.Value, n.Wrapper = src.Value, src.Wrapper
		}

		out = append(out, n)
	}

	return out, nil
}
