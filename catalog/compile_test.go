// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leonelquinteros/gotext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"codeberg.org/tagtr/tagtr/gettext"
)

const ruPo = `msgid ""
msgstr ""
"Language: ru\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);\n"

msgid "Hello, {name}"
msgstr "Привет, {name}"

msgctxt "menu"
msgid "Open"
msgstr "Открыть"

msgid "Read the {link}docs{/link}"
msgstr "Прочтите {link}документацию{/link}"

msgid "{count} file"
msgid_plural "{count} files"
msgstr[0] "{count} файл"
msgstr[1] "{count} файла"
msgstr[2] "{count} файлов"

msgid "Untranslated"
msgstr ""
`

func compileRu(t *testing.T) []byte {
	t.Helper()

	po := gotext.NewPo()
	po.Parse([]byte(ruPo))

	data, err := Compile(po, "app").Marshal(false)
	require.NoError(t, err)

	return data
}

// member returns the value stored under key in obj. gjson paths cannot
// address empty keys or keys with braces, so walk the object instead.
func member(obj gjson.Result, key string) gjson.Result {
	var out gjson.Result

	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			out = v

			return false
		}

		return true
	})

	return out
}

func TestCompileShape(t *testing.T) {
	t.Parallel()

	app := member(gjson.ParseBytes(compileRu(t)), "app")
	require.True(t, app.Exists())

	meta := member(app, "")
	assert.Equal(t, "app", meta.Get("domain").String())
	assert.Equal(t, "ru", meta.Get("lang").String())
	assert.Contains(t, meta.Get("plural_forms").String(), "nplurals=3")

	assert.True(t, member(app, "menu\u0004Open").Exists())
	assert.True(t, member(app, "{count} file").Exists())
	assert.False(t, member(app, "Untranslated").Exists())

	assert.JSONEq(t, `["Открыть"]`, member(app, "menu\u0004Open").Raw)
	assert.JSONEq(t,
		`[["Fragment", null, "Привет, ", ["Param", {"name": "name"}]]]`,
		member(app, "Hello, {name}").Raw)
	assert.JSONEq(t,
		`[["Fragment", null, "Прочтите ", ["Param", {"name": "link"}, "документацию"]]]`,
		member(app, "Read the {link}docs{/link}").Raw)
}

func TestLoadCompiled(t *testing.T) {
	t.Parallel()

	c, err := LoadCompiled(compileRu(t), "app")
	require.NoError(t, err)

	assert.Equal(t, "ru", c.Meta().Lang)
	assert.Equal(t, "Привет, {name}", c.Get("Hello, {name}"))
	assert.Equal(t, "Открыть", c.GetC("Open", "menu"))
	assert.Equal(t, "Open", c.Get("Open"))
	assert.Equal(t, "Untranslated", c.Get("Untranslated"))

	for n, want := range map[int]string{
		1:  "{count} файл",
		3:  "{count} файла",
		5:  "{count} файлов",
		21: "{count} файл",
	} {
		assert.Equal(t, want, c.GetN("{count} file", "{count} files", n), "n=%d", n)
	}

	assert.Equal(t, "{x} boxes", c.GetN("{x} box", "{x} boxes", 2))

	a, err := gettext.New(c)
	require.NoError(t, err)
	assert.Equal(t, 3, a.Plurals())
	assert.Equal(t, "Открыть", a.Select("menu")("Open"))
}

const partialDePo = `msgid ""
msgstr ""
"Language: de\n"
"Plural-Forms: nplurals=2; plural=(n != 1);\n"

msgid "{n} file"
msgid_plural "{n} files"
msgstr[0] "{n} Datei"
msgstr[1] ""

msgctxt "menu"
msgid "{n} tab"
msgid_plural "{n} tabs"
msgstr[0] ""
msgstr[1] "{n} Tabs"
`

func TestLoadCompiledPartialPlural(t *testing.T) {
	t.Parallel()

	po := gotext.NewPo()
	po.Parse([]byte(partialDePo))

	data, err := Compile(po, "app").Marshal(false)
	require.NoError(t, err)

	c, err := LoadCompiled(data, "app")
	require.NoError(t, err)

	// Empty forms fall back to the source strings, as gotext does.
	assert.Equal(t, "{n} Datei", c.GetN("{n} file", "{n} files", 1))
	assert.Equal(t, "{n} files", c.GetN("{n} file", "{n} files", 5))
	assert.Equal(t, po.GetN("{n} file", "{n} files", 5), c.GetN("{n} file", "{n} files", 5))

	assert.Equal(t, "{n} tab", c.GetNC("{n} tab", "{n} tabs", 1, "menu"))
	assert.Equal(t, "{n} Tabs", c.GetNC("{n} tab", "{n} tabs", 2, "menu"))
	assert.Equal(t, "{n} tab", c.GetC("{n} tab", "menu"))
}

func TestLoadCompiledErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadCompiled([]byte("{not json"), "")
	require.ErrorIs(t, err, errInvalidJSON)

	_, err = LoadCompiled(compileRu(t), "other")
	require.ErrorIs(t, err, errDomainMissing)

	_, err = LoadCompiled([]byte(`{"d": {"x": [["Blink", null]]}}`), "d")
	require.Error(t, err)
}

func TestCompileFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ru.po")
	require.NoError(t, os.WriteFile(path, []byte(ruPo), 0o600))

	doc, err := CompileFile(path, "")
	require.NoError(t, err)
	assert.Contains(t, doc, DefaultDomain)

	_, err = CompileFile(filepath.Join(t.TempDir(), "missing.po"), "")
	require.Error(t, err)
}
