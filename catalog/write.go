// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// WriteTo writes c as PO text.
func (c *Catalog) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	c.writeHeader(&b)

	for _, r := range c.records {
		fmt.Fprintln(&b)

		for _, line := range r.Comments {
			writeComment(&b, "#.", line)
		}

		for _, ref := range r.References {
			writeComment(&b, "#:", ref)
		}

		if r.Context != "" {
			fmt.Fprintf(&b, "msgctxt %s\n", quote(r.Context))
		}

		fmt.Fprintf(&b, "msgid %s\n", quote(r.MsgID))

		if r.MsgIDPlural != "" {
			fmt.Fprintf(&b, "msgid_plural %s\n", quote(r.MsgIDPlural))

			for i, tr := range r.Translations {
				fmt.Fprintf(&b, "msgstr[%d] %s\n", i, quote(tr))
			}

			continue
		}

		fmt.Fprintf(&b, "msgstr %s\n", quote(r.Translations[0]))
	}

	n, err := io.WriteString(w, b.String())

	return int64(n), err
}

// String returns c as PO text.
func (c *Catalog) String() string {
	var b strings.Builder

	_, _ = c.WriteTo(&b)

	return b.String()
}

func (c *Catalog) writeHeader(b *strings.Builder) {
	fmt.Fprintln(b, `msgid ""`)
	fmt.Fprintln(b, `msgstr ""`)

	written := make(map[string]bool, len(c.Headers))

	for _, name := range headerOrder {
		if v, ok := c.Headers[name]; ok {
			fmt.Fprintln(b, quote(name+": "+v+"\n"))

			written[name] = true
		}
	}

	for _, name := range slices.Sorted(maps.Keys(c.Headers)) {
		if !written[name] {
			fmt.Fprintln(b, quote(name+": "+c.Headers[name]+"\n"))
		}
	}
}

func writeComment(b *strings.Builder, prefix, text string) {
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			fmt.Fprintln(b, prefix)

			continue
		}

		fmt.Fprintf(b, "%s %s\n", prefix, line)
	}
}

// quote escapes s as a PO string literal.
func quote(s string) string {
	var b strings.Builder

	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte('"')

	return b.String()
}
