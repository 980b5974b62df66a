// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

const setupFrPo = `msgid ""
msgstr ""
"Language: fr\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=2; plural=(n > 1);\n"

msgid "Hello, {name}"
msgstr "Bonjour, {name}"

msgid "{count} file"
msgid_plural "{count} files"
msgstr[0] "{count} fichier"
msgstr[1] "{count} fichiers"
`

const setupDePo = `msgid ""
msgstr ""
"Language: de_DE\n"
"Plural-Forms: nplurals=2; plural=(n != 1);\n"

msgid "Hello, {name}"
msgstr "Hallo, {name}"
`

// TestSetup mutates package state and must not run in parallel.
func TestSetup(t *testing.T) {
	fsys := fstest.MapFS{
		"po/fr.po":        {Data: []byte(setupFrPo)},
		"po/de_DE.po":     {Data: []byte(setupDePo)},
		"po/messages.pot": {Data: []byte(`msgid ""` + "\n" + `msgstr ""` + "\n")},
		"po/not a tag.po": {Data: []byte(setupFrPo)},
		"po/nested/x.po":  {Data: []byte(setupFrPo)},
	}

	require.NoError(t, Setup(fsys, "po"))

	var names []string
	for _, tag := range Languages() {
		names = append(names, tag.String())
	}

	assert.Equal(t, []string{"de-DE", "en", "fr"}, names)

	t.Run("Match", func(t *testing.T) {
		tag, ok := Match("fr-CA")
		assert.True(t, ok)
		assert.Equal(t, "fr", tag.String())

		tag, ok = Match("ja")
		assert.False(t, ok, "the base locale has no catalogue")
		assert.Equal(t, BaseLocale, tag.String())

		po, ok := Catalogue(language.French)
		require.True(t, ok)
		assert.Equal(t, "Bonjour, {name}", po.Get("Hello, {name}"))
	})

	t.Run("FromRequest", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/?lang=fr", nil)
		req.Header.Set("Accept-Language", "de-DE,de;q=0.9")
		assert.Equal(t, "fr", FromRequest(req).String())

		req = httptest.NewRequest("GET", "/?lang=auto", nil)
		req.Header.Set("Accept-Language", "de-DE,de;q=0.9")
		assert.Equal(t, "de-DE", FromRequest(req).String())

		assert.Equal(t, BaseLocale, FromRequest(nil).String())
	})

	t.Run("Render", func(t *testing.T) {
		ctx := WithTag(context.Background(), language.MustParse("fr-BE"))

		var buf bytes.Buffer
		require.NoError(t, Translate("Hello, ", Param("name", "Ada")).Render(ctx, &buf))
		assert.Equal(t, "Bonjour, Ada", buf.String())

		buf.Reset()
		require.NoError(t, PluralTranslate(2,
			Singular(Param("count", 2), " file"),
			Plural(Param("count", 2), " files"),
		).Render(ctx, &buf))
		assert.Equal(t, "2 fichiers", buf.String())

		assert.Equal(t, "Hallo, Ada", Tr(WithTag(context.Background(), language.MustParse("de-DE")), "Hello, {name}", "name", "Ada"))
		assert.Equal(t, "Hello, Ada", Tr(context.Background(), "Hello, {name}", "name", "Ada"))
		assert.Equal(t, 2, RendererFrom(ctx).Gettext().Plurals())
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		require.Error(t, Setup(fsys, "locales"))
		assert.Len(t, Languages(), 3, "a failed Setup keeps the loaded locales")
	})
}

func TestTagFrom(t *testing.T) {
	t.Parallel()

	assert.Equal(t, BaseLocale, TagFrom(context.Background()).String())
	assert.Equal(t, BaseLocale, TagFrom(WithTag(context.Background(), language.Tag{})).String())
	assert.Equal(t, "ja", TagFrom(WithTag(context.Background(), language.Japanese)).String())

	r := NewRenderer(nil, WithLocale(language.Japanese))
	assert.Same(t, r, RendererFrom(WithRenderer(context.Background(), r)))
	assert.Equal(t, language.Japanese, r.Locale())
}
