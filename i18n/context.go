// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type (
	tagKeyType      struct{}
	rendererKeyType struct{}
)

var (
	tagKey      = tagKeyType{}
	rendererKey = rendererKeyType{}
)

// LangParam is the name of the URL query parameter used by HTTP helpers to read
// a preferred language as a BCP 47 tag.
const LangParam = "lang"

// WithTag stores t in ctx and returns a derived context that carries it.
//
// The returned context should be passed to downstream code that performs
// translations. Passing the zero value of [language.Tag] clears any existing value.
//
// The ctx must not be nil.
func WithTag(ctx context.Context, t language.Tag) context.Context {
	return context.WithValue(ctx, tagKey, t)
}

// TagFrom returns the language tag stored in ctx, or the tag for [BaseLocale]
// if none is present. It never returns the zero value of [language.Tag].
func TagFrom(ctx context.Context) language.Tag {
	if ctx != nil {
		if t, _ := ctx.Value(tagKey).(language.Tag); t != (language.Tag{}) {
			return t
		}
	}

	return baseTag
}

// WithRenderer returns a derived context whose translations use r regardless
// of the language tag it carries.
func WithRenderer(ctx context.Context, r *Renderer) context.Context {
	return context.WithValue(ctx, rendererKey, r)
}

// RendererFrom returns the renderer for ctx: the one installed with
// [WithRenderer], else the one loaded by [Setup] for the best match of
// [TagFrom]. Without either it returns a renderer that never translates.
func RendererFrom(ctx context.Context) *Renderer {
	if ctx != nil {
		if r, _ := ctx.Value(rendererKey).(*Renderer); r != nil {
			return r
		}
	}

	if loc := match(TagFrom(ctx).String()); loc != nil {
		return loc.renderer
	}

	return baseRenderer
}

// FromRequest returns the best language tag for r by inspecting user preferences
// in priority order:
// 1) query parameter [LangParam]
// 2) Accept-Language header
//
// A [LangParam] of "auto" (case-insensitive) is ignored.
//
// If r is nil, or if Setup has not been called, FromRequest returns the tag for [BaseLocale].
func FromRequest(r *http.Request) language.Tag {
	if r == nil || matcher == nil {
		return baseTag
	}

	preferred := make([]string, 0, 2)

	if q := r.URL.Query().Get(LangParam); q != "" && !strings.EqualFold(q, "auto") {
		preferred = append(preferred, q)
	}

	if al := r.Header.Get("Accept-Language"); al != "" {
		preferred = append(preferred, al)
	}

	tag, _ := Match(preferred...)

	return tag
}

// WithRequest resolves the language from r using [FromRequest] and installs the
// matched tag in the returned context. It is equivalent to:
//
//	WithTag(ctx, FromRequest(r))
//
// The ctx must not be nil.
func WithRequest(ctx context.Context, r *http.Request) context.Context {
	return WithTag(ctx, FromRequest(r))
}
