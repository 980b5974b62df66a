// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/tagtr/tagtr/placeholder"
)

var errOddVars = errors.New("i18n: odd number of arguments, want key, value pairs")

// Vars holds named placeholder values.
type Vars map[string]any

// String translates msgid and fills its {name} placeholders from kv, given as
// alternating key, value pairs.
//
// Placeholders with body content cannot be represented in a flat string and
// fail with a *placeholder.UnsupportedPlaceholderError.
func (r *Renderer) String(msgid string, kv ...any) (string, error) {
	s, _, err := r.text("", msgid, "", 0, false, kv)

	return s, err
}

// StringC is like [Renderer.String] with a disambiguating context, similar to
// gettext's pgettext.
func (r *Renderer) StringC(msgctxt, msgid string, kv ...any) (string, error) {
	s, _, err := r.text(msgctxt, msgid, "", 0, false, kv)

	return s, err
}

// PluralString translates a singular or plural message for n. If the
// translation is missing, singular is used when n == 1 and plural otherwise.
func (r *Renderer) PluralString(singular, plural string, n int, kv ...any) (string, error) {
	s, _, err := r.text("", singular, plural, n, true, kv)

	return s, err
}

// PluralStringC is the contextual variant of [Renderer.PluralString],
// similar to gettext's npgettext.
func (r *Renderer) PluralStringC(msgctxt, singular, plural string, n int, kv ...any) (string, error) {
	s, _, err := r.text(msgctxt, singular, plural, n, true, kv)

	return s, err
}

// text performs the lookup and interpolation. found is false when the lookup
// returned one of the msgids unchanged.
func (r *Renderer) text(
	msgctxt, singular, plural string,
	n int,
	pluralMode bool,
	kv []any,
) (s string, found bool, err error) {
	vars, err := varsOf(kv)
	if err != nil {
		return "", false, err
	}

	if pluralMode {
		s = r.gettext.SelectPlural(msgctxt)(singular, plural, n)
		found = s != singular && s != plural
	} else {
		s = r.gettext.Select(msgctxt)(singular)
		found = s != singular
	}

	if !found {
		r.missing(msgctxt, singular)
	}

	s, err = placeholder.Interpolate(s, vars)

	return s, found, err
}

// String translates msgid with the renderer carried by ctx.
// See [Renderer.String].
func String(ctx context.Context, msgid string, kv ...any) (string, error) {
	return RendererFrom(ctx).String(msgid, kv...)
}

// StringC translates msgid under msgctxt with the renderer carried by ctx.
func StringC(ctx context.Context, msgctxt, msgid string, kv ...any) (string, error) {
	return RendererFrom(ctx).StringC(msgctxt, msgid, kv...)
}

// PluralString translates a plural message with the renderer carried by ctx.
func PluralString(ctx context.Context, singular, plural string, n int, kv ...any) (string, error) {
	return RendererFrom(ctx).PluralString(singular, plural, n, kv...)
}

// PluralStringC translates a plural message under msgctxt with the renderer
// carried by ctx.
func PluralStringC(ctx context.Context, msgctxt, singular, plural string, n int, kv ...any) (string, error) {
	return RendererFrom(ctx).PluralStringC(msgctxt, singular, plural, n, kv...)
}

// Tr returns the translated string for a source message id (msgid), which should
// be the original English UI text. If key-value pairs are provided, {name}
// placeholders are filled from them.
//
// Tr never fails: errors are logged and the msgid is returned. If a
// translation is not found, Tr returns the msgid unchanged, or visibly wrapped
// if strict mode is enabled.
func Tr(ctx context.Context, msgid string, kv ...any) string {
	return tr(ctx, "", msgid, "", 0, false, kv)
}

// TrC is the contextual variant of [Tr], similar to gettext's pgettext.
func TrC(ctx context.Context, msgctxt, msgid string, kv ...any) string {
	return tr(ctx, msgctxt, msgid, "", 0, false, kv)
}

// TrN translates a singular or plural message depending on n. If a translation
// is missing, we choose singular when n == 1, otherwise plural.
func TrN(ctx context.Context, singular, plural string, n int, kv ...any) string {
	return tr(ctx, "", singular, plural, n, true, kv)
}

// TrNC is the contextual variant of TrN, similar to gettext's npgettext.
func TrNC(ctx context.Context, msgctxt, singular, plural string, n int, kv ...any) string {
	return tr(ctx, msgctxt, singular, plural, n, true, kv)
}

func tr(
	ctx context.Context,
	msgctxt, singular, plural string,
	n int,
	pluralMode bool,
	kv []any,
) string {
	r := RendererFrom(ctx)

	base := singular
	if pluralMode && n != 1 {
		base = plural
	}

	s, found, err := r.text(msgctxt, singular, plural, n, pluralMode, kv)
	if err != nil {
		if strictMissingKeys() {
			return "⟦" + base + "⟧"
		}

		Logger.Warn().
			Err(err).
			Str("locale", r.tag.String()).
			Str("key", buildLogKey(msgctxt, singular)).
			Msg("Failed to format translation")

		return base
	}

	if !found && strictMissingKeys() {
		return "⟦" + s + "⟧"
	}

	return s
}

// varsOf builds Vars from alternating key, value pairs.
func varsOf(kv []any) (Vars, error) {
	if len(kv)%2 != 0 {
		return nil, errOddVars
	}

	m := make(Vars, len(kv)/2)

	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("i18n: key at position %d is %T, want string", i, kv[i])
		}

		m[k] = kv[i+1]
	}

	return m, nil
}
