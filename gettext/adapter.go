// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package gettext wraps the four gettext lookup functions behind one calling
convention.

An [Adapter] is built once, at setup time, from a catalogue such as a
*gotext.Po, from two functions (gettext and ngettext) or from four (adding
pgettext and npgettext). Malformed bundles are rejected with a
*ConfigurationError right away rather than at render time. When the
contextual functions are missing, they ignore the context and delegate to
the plain ones.
*/
package gettext

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// ErrConfiguration is matched by every *ConfigurationError.
var ErrConfiguration = errors.New("invalid gettext configuration")

// ConfigurationError reports a malformed gettext function bundle.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "gettext: " + e.Reason }

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

type (
	// SingularFunc is gettext.
	SingularFunc func(msgid string) string
	// PluralFunc is ngettext.
	PluralFunc func(msgid, msgidPlural string, n int) string
	// ContextSingularFunc is pgettext.
	ContextSingularFunc func(msgctxt, msgid string) string
	// ContextPluralFunc is npgettext.
	ContextPluralFunc func(msgctxt, msgid, msgidPlural string, n int) string
)

// Funcs bundles the four lookup functions. Gettext and NGettext are required.
type Funcs struct {
	Gettext   SingularFunc
	NGettext  PluralFunc
	PGettext  ContextSingularFunc
	NPGettext ContextPluralFunc
}

// Translator is implemented by gotext catalogues such as *gotext.Po and
// *gotext.Locale, and by *catalog.Compiled.
type Translator interface {
	Get(str string, vars ...any) string
	GetN(str, plural string, n int, vars ...any) string
}

// ContextTranslator is a [Translator] that also supports message contexts.
type ContextTranslator interface {
	Translator
	GetC(str, ctx string, vars ...any) string
	GetNC(str, plural string, n int, ctx string, vars ...any) string
}

// Adapter dispatches lookups to a gettext function bundle.
// It is immutable and safe for concurrent use.
type Adapter struct {
	funcs   Funcs
	plurals int
}

// New builds an Adapter from one bundle (a [Funcs], a *gotext.Po, a
// [ContextTranslator] or a [Translator]), from two functions
// (gettext, ngettext) or from four (gettext, ngettext, pgettext, npgettext).
func New(args ...any) (*Adapter, error) {
	switch len(args) {
	case 1:
		switch v := args[0].(type) {
		case Funcs:
			return FromFuncs(v)
		case *gotext.Po:
			if v == nil {
				return nil, &ConfigurationError{Reason: "nil catalogue"}
			}

			return FromPo(v), nil
		case ContextTranslator:
			return FromTranslator(v), nil
		case Translator:
			return FromTranslator(v), nil
		default:
			return nil, &ConfigurationError{Reason: fmt.Sprintf("%T does not provide gettext and ngettext", v)}
		}
	case 2, 4:
		var (
			f  Funcs
			ok bool
		)

		if f.Gettext, ok = asSingular(args[0]); !ok {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("argument 1: want func(string) string, got %T", args[0])}
		}

		if f.NGettext, ok = asPlural(args[1]); !ok {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("argument 2: want func(string, string, int) string, got %T", args[1])}
		}

		if len(args) == 4 {
			if f.PGettext, ok = asContextSingular(args[2]); !ok {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("argument 3: want func(string, string) string, got %T", args[2])}
			}

			if f.NPGettext, ok = asContextPlural(args[3]); !ok {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("argument 4: want func(string, string, string, int) string, got %T", args[3])}
			}
		}

		return FromFuncs(f)
	default:
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("expected a catalogue or 2 or 4 lookup functions, got %d arguments", len(args)),
		}
	}
}

// FromFuncs builds an Adapter from f. Missing contextual functions ignore
// the context and delegate to the plain ones.
func FromFuncs(f Funcs) (*Adapter, error) {
	if f.Gettext == nil || f.NGettext == nil {
		return nil, &ConfigurationError{Reason: "gettext and ngettext are required"}
	}

	if f.PGettext == nil {
		gettext := f.Gettext
		f.PGettext = func(_, msgid string) string { return gettext(msgid) }
	}

	if f.NPGettext == nil {
		ngettext := f.NGettext
		f.NPGettext = func(_, msgid, msgidPlural string, n int) string { return ngettext(msgid, msgidPlural, n) }
	}

	return &Adapter{funcs: f}, nil
}

// FromTranslator builds an Adapter backed by t. Contexts are honoured only
// when t is a [ContextTranslator].
func FromTranslator(t Translator) *Adapter {
	f := Funcs{
		Gettext:  func(msgid string) string { return t.Get(msgid) },
		NGettext: func(msgid, msgidPlural string, n int) string { return t.GetN(msgid, msgidPlural, n) },
	}

	if ct, ok := t.(ContextTranslator); ok {
		f.PGettext = func(msgctxt, msgid string) string { return ct.GetC(msgid, msgctxt) }
		f.NPGettext = func(msgctxt, msgid, msgidPlural string, n int) string {
			return ct.GetNC(msgid, msgidPlural, n, msgctxt)
		}
	}

	a, _ := FromFuncs(f)

	if pf, ok := t.(interface{ PluralForms() string }); ok {
		a.plurals, _ = ParsePluralForms(pf.PluralForms())
	}

	return a
}

// FromPo builds an Adapter backed by a parsed gotext catalogue. The plural
// arity is read from its Plural-Forms header.
func FromPo(po *gotext.Po) *Adapter {
	a := FromTranslator(po)

	if dom := po.GetDomain(); dom != nil {
		a.plurals, _ = ParsePluralForms(dom.PluralForms)
	}

	return a
}

// Identity returns an Adapter that never translates: gettext returns its
// input and ngettext picks the singular form when n is 1.
func Identity() *Adapter {
	a, _ := FromFuncs(Funcs{
		Gettext: func(msgid string) string { return msgid },
		NGettext: func(msgid, msgidPlural string, n int) string {
			if n == 1 {
				return msgid
			}

			return msgidPlural
		},
	})

	return a
}

// WithPlurals returns a copy of a that reports n plural forms for its locale.
func (a *Adapter) WithPlurals(n int) *Adapter {
	cp := *a
	cp.plurals = n

	return &cp
}

// Plurals returns the number of plural forms of the locale, or 0 when unknown.
func (a *Adapter) Plurals() int { return a.plurals }

// Gettext looks up msgid.
func (a *Adapter) Gettext(msgid string) string { return a.funcs.Gettext(msgid) }

// NGettext looks up a plural message for n.
func (a *Adapter) NGettext(msgid, msgidPlural string, n int) string {
	return a.funcs.NGettext(msgid, msgidPlural, n)
}

// PGettext looks up msgid under msgctxt.
func (a *Adapter) PGettext(msgctxt, msgid string) string { return a.funcs.PGettext(msgctxt, msgid) }

// NPGettext looks up a plural message for n under msgctxt.
func (a *Adapter) NPGettext(msgctxt, msgid, msgidPlural string, n int) string {
	return a.funcs.NPGettext(msgctxt, msgid, msgidPlural, n)
}

// Select returns the singular lookup bound to context, or the plain one when
// context is empty.
func (a *Adapter) Select(context string) SingularFunc {
	if context == "" {
		return a.funcs.Gettext
	}

	return func(msgid string) string { return a.funcs.PGettext(context, msgid) }
}

// SelectPlural returns the plural lookup bound to context, or the plain one
// when context is empty.
func (a *Adapter) SelectPlural(context string) PluralFunc {
	if context == "" {
		return a.funcs.NGettext
	}

	return func(msgid, msgidPlural string, n int) string {
		return a.funcs.NPGettext(context, msgid, msgidPlural, n)
	}
}

// ParsePluralForms reads a Plural-Forms header such as
// "nplurals=2; plural=(n != 1);". It returns 0 and an empty expression for
// missing fields.
func ParsePluralForms(header string) (nplurals int, expr string) {
	for _, part := range strings.Split(header, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}

		switch strings.TrimSpace(key) {
		case "nplurals":
			nplurals, _ = strconv.Atoi(strings.TrimSpace(value))
		case "plural":
			expr = strings.TrimSpace(value)
		}
	}

	return nplurals, expr
}

func asSingular(v any) (SingularFunc, bool) {
	switch f := v.(type) {
	case SingularFunc:
		return f, f != nil
	case func(string) string:
		return f, f != nil
	}

	return nil, false
}

func asPlural(v any) (PluralFunc, bool) {
	switch f := v.(type) {
	case PluralFunc:
		return f, f != nil
	case func(string, string, int) string:
		return f, f != nil
	}

	return nil, false
}

func asContextSingular(v any) (ContextSingularFunc, bool) {
	switch f := v.(type) {
	case ContextSingularFunc:
		return f, f != nil
	case func(string, string) string:
		return f, f != nil
	}

	return nil, false
}

func asContextPlural(v any) (ContextPluralFunc, bool) {
	switch f := v.(type) {
	case ContextPluralFunc:
		return f, f != nil
	case func(string, string, string, int) string:
		return f, f != nil
	}

	return nil, false
}
