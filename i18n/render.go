// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"codeberg.org/tagtr/tagtr/placeholder"
)

// write renders res as HTML. Untranslated output is wrapped in "⟦…⟧" when
// StrictMissingKeys is enabled.
func (r *Renderer) write(ctx context.Context, w io.Writer, res Result) error {
	mark := !res.Translated() && strictMissingKeys()

	if mark {
		if _, err := io.WriteString(w, "⟦"); err != nil {
			return err
		}
	}

	if err := writeNodes(ctx, w, res.Nodes); err != nil {
		return err
	}

	if mark {
		_, err := io.WriteString(w, "⟧")

		return err
	}

	return nil
}

func writeNodes(ctx context.Context, w io.Writer, nodes []placeholder.Node) error {
	for _, n := range nodes {
		var err error

		switch n.Kind {
		case placeholder.Text:
			err = writeEscaped(w, n.Text)
		case placeholder.Param:
			err = writeParam(ctx, w, n)
		case placeholder.Fragment:
			err = writeNodes(ctx, w, n.Children)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func writeParam(ctx context.Context, w io.Writer, n placeholder.Node) error {
	var body templ.Component = templ.NopComponent
	if n.HasBody {
		body = escapedText(n.Body)
	}

	if wrapper, ok := n.Wrapper.(templ.Component); ok && wrapper != nil {
		return wrapper.Render(templ.WithChildren(ctx, body), w)
	}

	switch v := n.Value.(type) {
	case templ.Component:
		return v.Render(templ.WithChildren(ctx, body), w)
	case nil:
		return body.Render(ctx, w)
	default:
		if n.HasBody {
			return body.Render(ctx, w)
		}

		return writeEscaped(w, fmt.Sprint(v))
	}
}

func escapedText(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return writeEscaped(w, s)
	})
}

func writeEscaped(w io.Writer, s string) error {
	_, err := io.WriteString(w, templ.EscapeString(s))

	return err
}

// plain renders res as text without markup.
func plain(res Result) string {
	var b strings.Builder

	writePlain(&b, res.Nodes)

	if !res.Translated() && strictMissingKeys() {
		return "⟦" + b.String() + "⟧"
	}

	return b.String()
}

func writePlain(b *strings.Builder, nodes []placeholder.Node) {
	for _, n := range nodes {
		switch n.Kind {
		case placeholder.Text:
			b.WriteString(n.Text)
		case placeholder.Param:
			switch {
			case n.HasBody:
				b.WriteString(n.Body)
			case n.Value != nil:
				fmt.Fprint(b, n.Value)
			}
		case placeholder.Fragment:
			writePlain(b, n.Children)
		}
	}
}

// fail logs err and returns the source form of nodes.
func (r *Renderer) fail(msgctxt string, nodes []placeholder.Node, err error) string {
	s := placeholder.Format(placeholder.NewFragment(nodes...))

	if strictMissingKeys() {
		return "⟦" + s + "⟧"
	}

	Logger.Warn().
		Err(err).
		Str("locale", r.tag.String()).
		Str("key", buildLogKey(msgctxt, s)).
		Msg("Failed to render translation")

	return s
}
