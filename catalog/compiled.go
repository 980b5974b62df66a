// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"errors"
	"fmt"

	"github.com/leonelquinteros/gotext/plurals"
	"github.com/tidwall/gjson"

	"codeberg.org/tagtr/tagtr/gettext"
	"codeberg.org/tagtr/tagtr/placeholder"
)

var (
	errInvalidJSON   = errors.New("compiled catalogue is not valid JSON")
	errDomainMissing = errors.New("domain not found in compiled catalogue")
)

// Compiled is a compiled catalogue loaded for lookups. It implements the
// gotext lookup methods, so it can back a gettext.Adapter directly.
type Compiled struct {
	meta     Meta
	nplurals int
	plural   plurals.Expression
	messages map[string][]placeholder.Node
}

// LoadCompiled reads domain from a document written by [Document.Marshal].
// An empty domain selects the first domain in the document.
func LoadCompiled(data []byte, domain string) (*Compiled, error) {
	if !gjson.ValidBytes(data) {
		return nil, errInvalidJSON
	}

	var (
		body  gjson.Result
		found bool
	)

	gjson.ParseBytes(data).ForEach(func(k, v gjson.Result) bool {
		if domain == "" || k.String() == domain {
			body, found = v, true

			return false
		}

		return true
	})

	if !found {
		return nil, fmt.Errorf("%w: %q", errDomainMissing, domain)
	}

	c := &Compiled{messages: make(map[string][]placeholder.Node)}

	var err error

	body.ForEach(func(k, v gjson.Result) bool {
		if k.String() == "" {
			c.meta = Meta{
				Domain:      v.Get("domain").String(),
				Lang:        v.Get("lang").String(),
				PluralForms: v.Get("plural_forms").String(),
			}

			return true
		}

		forms := make([]placeholder.Node, 0, 2)

		for _, item := range v.Array() {
			var n placeholder.Node

			n, err = placeholder.DecodeJSON(item)
			if err != nil {
				err = fmt.Errorf("message %q: %w", k.String(), err)

				return false
			}

			forms = append(forms, n)
		}

		c.messages[k.String()] = forms

		return true
	})

	if err != nil {
		return nil, err
	}

	var expr string

	c.nplurals, expr = gettext.ParsePluralForms(c.meta.PluralForms)
	if expr != "" {
		if c.plural, err = plurals.Compile(expr); err != nil {
			return nil, fmt.Errorf("invalid plural expression %q: %w", expr, err)
		}
	}

	return c, nil
}

// Meta returns the catalogue metadata.
func (c *Compiled) Meta() Meta { return c.meta }

// PluralForms returns the Plural-Forms header of the catalogue.
func (c *Compiled) PluralForms() string { return c.meta.PluralForms }

// Len returns the number of messages.
func (c *Compiled) Len() int { return len(c.messages) }

// Lookup returns the decoded forms stored for msgid under msgctxt.
func (c *Compiled) Lookup(msgctxt, msgid string) ([]placeholder.Node, bool) {
	forms, ok := c.messages[ContextKey(msgctxt, msgid)]

	return forms, ok
}

// Get returns the translation of str, or str itself.
func (c *Compiled) Get(str string, vars ...any) string {
	return c.GetC(str, "", vars...)
}

// GetN returns the plural form of str for n.
func (c *Compiled) GetN(str, plural string, n int, vars ...any) string {
	return c.GetNC(str, plural, n, "", vars...)
}

// GetC returns the translation of str under ctx.
func (c *Compiled) GetC(str, ctx string, vars ...any) string {
	if form, ok := c.form(ctx, str, 0); ok {
		return printf(form, vars)
	}

	return printf(str, vars)
}

// GetNC returns the plural form of str for n under ctx.
func (c *Compiled) GetNC(str, plural string, n int, ctx string, vars ...any) string {
	if form, ok := c.form(ctx, str, c.index(n)); ok {
		return printf(form, vars)
	}

	if n == 1 {
		return printf(str, vars)
	}

	return printf(plural, vars)
}

// form returns plural form i of msgid. An empty form counts as untranslated.
func (c *Compiled) form(msgctxt, msgid string, i int) (string, bool) {
	forms, ok := c.Lookup(msgctxt, msgid)
	if !ok || i < 0 || i >= len(forms) {
		return "", false
	}

	s := placeholder.Format(forms[i])

	return s, s != ""
}

func (c *Compiled) index(n int) int {
	if n < 0 {
		n = -n
	}

	if c.plural != nil {
		return c.plural.Eval(uint32(n)) // #nosec G115 -- n is non-negative
	}

	if n != 1 {
		return 1
	}

	return 0
}

func printf(s string, vars []any) string {
	if len(vars) == 0 {
		return s
	}

	return fmt.Sprintf(s, vars...)
}
