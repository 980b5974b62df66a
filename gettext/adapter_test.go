// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package gettext

import (
	"strings"
	"testing"

	"github.com/leonelquinteros/gotext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frPo = `
msgid ""
msgstr ""
"Language: fr\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=2; plural=(n > 1);\n"

msgid "Open"
msgstr "Ouvrir"

msgctxt "menu"
msgid "Open"
msgstr "Ouvrir le menu"

msgid "{count} file"
msgid_plural "{count} files"
msgstr[0] "{count} fichier"
msgstr[1] "{count} fichiers"
`

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}

	return string(r)
}

func TestNewArity(t *testing.T) {
	t.Parallel()

	gettext := func(s string) string { return reverse(s) }
	ngettext := func(s, p string, n int) string {
		if n == 1 {
			return s
		}

		return strings.ToUpper(p)
	}
	pgettext := func(ctx, s string) string { return ctx + ":" + s }
	npgettext := func(ctx, s, p string, n int) string { return ctx + ":" + ngettext(s, p, n) }

	t.Run("two functions", func(t *testing.T) {
		t.Parallel()

		a, err := New(gettext, ngettext)
		require.NoError(t, err)

		assert.Equal(t, "cba", a.Gettext("abc"))
		assert.Equal(t, "X", a.NGettext("x", "x", 2))
		// Contexts are ignored without pgettext/npgettext.
		assert.Equal(t, "cba", a.PGettext("ctx", "abc"))
		assert.Equal(t, "one", a.NPGettext("ctx", "one", "many", 1))
	})

	t.Run("four functions", func(t *testing.T) {
		t.Parallel()

		a, err := New(gettext, ngettext, pgettext, npgettext)
		require.NoError(t, err)

		assert.Equal(t, "ctx:abc", a.PGettext("ctx", "abc"))
		assert.Equal(t, "ctx:MANY", a.NPGettext("ctx", "one", "many", 3))
	})

	t.Run("wrong arity", func(t *testing.T) {
		t.Parallel()

		for _, args := range [][]any{{}, {gettext, ngettext, pgettext}, {1, 2, 3, 4, 5}} {
			_, err := New(args...)
			require.ErrorIs(t, err, ErrConfiguration, "%d args", len(args))
		}
	})

	t.Run("wrong function type", func(t *testing.T) {
		t.Parallel()

		_, err := New(ngettext, gettext)

		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Reason, "argument 1")
	})

	t.Run("object without lookups", func(t *testing.T) {
		t.Parallel()

		_, err := New(struct{}{})
		require.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("funcs bundle requires ngettext", func(t *testing.T) {
		t.Parallel()

		_, err := New(Funcs{Gettext: gettext})
		require.ErrorIs(t, err, ErrConfiguration)
	})
}

func TestSelect(t *testing.T) {
	t.Parallel()

	a, err := FromFuncs(Funcs{
		Gettext:   func(s string) string { return "plain:" + s },
		NGettext:  func(s, _ string, _ int) string { return "plain:" + s },
		PGettext:  func(c, s string) string { return c + ":" + s },
		NPGettext: func(c, s, _ string, _ int) string { return c + ":" + s },
	})
	require.NoError(t, err)

	assert.Equal(t, "plain:x", a.Select("")("x"))
	assert.Equal(t, "menu:x", a.Select("menu")("x"))
	assert.Equal(t, "plain:x", a.SelectPlural("")("x", "xs", 2))
	assert.Equal(t, "menu:x", a.SelectPlural("menu")("x", "xs", 2))
}

func TestFromPo(t *testing.T) {
	t.Parallel()

	po := gotext.NewPo()
	po.Parse([]byte(frPo))

	a, err := New(po)
	require.NoError(t, err)

	assert.Equal(t, 2, a.Plurals())
	assert.Equal(t, "Ouvrir", a.Select("")("Open"))
	assert.Equal(t, "Ouvrir le menu", a.Select("menu")("Open"))
	assert.Equal(t, "{count} fichier", a.NGettext("{count} file", "{count} files", 1))
	assert.Equal(t, "{count} fichiers", a.NGettext("{count} file", "{count} files", 5))

	// Untranslated messages come back unchanged.
	assert.Equal(t, "Close", a.Gettext("Close"))
	assert.Equal(t, "boxes", a.NGettext("box", "boxes", 2))
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	a := Identity()

	assert.Equal(t, "x", a.Gettext("x"))
	assert.Equal(t, "one", a.NGettext("one", "many", 1))
	assert.Equal(t, "many", a.NGettext("one", "many", 0))
	assert.Equal(t, 0, a.Plurals())
	assert.Equal(t, 1, a.WithPlurals(1).Plurals())
}

func TestParsePluralForms(t *testing.T) {
	t.Parallel()

	n, expr := ParsePluralForms("nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2);")
	assert.Equal(t, 3, n)
	assert.Equal(t, "(n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2)", expr)

	n, expr = ParsePluralForms("")
	assert.Zero(t, n)
	assert.Empty(t, expr)
}
