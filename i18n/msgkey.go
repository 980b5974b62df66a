// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"io"
)

// Translatable is a value that can translate itself using a context.
// Types such as [MsgKey], [Translation] and [PluralTranslation] implement Translatable.
type Translatable interface {
	Tr(ctx context.Context) string
}

// MsgKey is a source message id (msgid) string without parameters.
//
// Construct with MsgKey("Are you sure you want to quit?") and call Tr(ctx) to resolve
// using the current locale in ctx. The extractor picks up MsgKey conversions of
// string literals.
type MsgKey string

// Tr translates this msgid within the current locale chain.
// It is equivalent to calling [Tr] with the same msgid.
func (s MsgKey) Tr(ctx context.Context) string {
	return Tr(ctx, string(s))
}

// Render writes the escaped translation.
func (s MsgKey) Render(ctx context.Context, w io.Writer) error {
	return writeEscaped(w, s.Tr(ctx))
}

// Tr returns the translation as plain text. Parameter values are formatted
// with fmt and bodies are written without their wrappers. Errors are logged
// and the msgid is returned.
func (t *Translation) Tr(ctx context.Context) string {
	r := RendererFrom(ctx)

	res, err := r.Resolve(t)
	if err != nil {
		return r.fail(t.Context(), t.nodes, err)
	}

	return plain(res)
}

// Tr returns the plural translation as plain text. See [Translation.Tr].
func (p *PluralTranslation) Tr(ctx context.Context) string {
	r := RendererFrom(ctx)

	res, err := r.ResolvePlural(p)
	if err != nil {
		source := p.singular
		if p.count != 1 {
			source = p.plural
		}

		return r.fail(p.Context(), source, err)
	}

	return plain(res)
}
