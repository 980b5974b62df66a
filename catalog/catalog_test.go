// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"strings"
	"testing"
	"time"

	"github.com/leonelquinteros/gotext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeAggregatesReferences(t *testing.T) {
	t.Parallel()

	c := Merge([]Entry{
		{MsgID: "Hello", Reference: "a.go:3"},
		{MsgID: "Hello", MsgIDPlural: "Hellos", Reference: "b.templ:10"},
		{MsgID: "Hello", Reference: "a.go:3"},
	}, map[string]string{})

	require.Equal(t, 1, c.Len())

	r, ok := c.Lookup("", "Hello")
	require.True(t, ok)

	assert.Equal(t, "a.go:3\nb.templ:10", r.Reference())
	assert.Equal(t, "Hellos", r.MsgIDPlural)
	assert.Len(t, r.Translations, 2)
}

func TestMergeNeverDowngradesPlural(t *testing.T) {
	t.Parallel()

	c := Merge([]Entry{
		{MsgID: "{count} file", MsgIDPlural: "{count} files"},
		{MsgID: "{count} file"},
	}, map[string]string{})

	r, ok := c.Lookup("", "{count} file")
	require.True(t, ok)
	assert.Len(t, r.Translations, 2)
	assert.Equal(t, "{count} files", r.MsgIDPlural)
}

func TestMergeKeysByContext(t *testing.T) {
	t.Parallel()

	c := Merge([]Entry{
		{MsgID: "Open", Context: "menu"},
		{MsgID: "Open"},
		{MsgID: "Open", Context: "menu", Comment: "File menu entry"},
		{MsgID: "Open", Context: "menu", Comment: "File menu entry"},
	}, map[string]string{})

	require.Equal(t, 2, c.Len())

	r, ok := c.Lookup("menu", "Open")
	require.True(t, ok)
	assert.Equal(t, "File menu entry", r.Extracted())
	assert.Len(t, r.Translations, 1)

	records := c.Records()
	assert.Equal(t, "menu", records[0].Context)
	assert.Empty(t, records[1].Context)
}

func TestMergeComparesWholeComments(t *testing.T) {
	t.Parallel()

	c := Merge([]Entry{
		{MsgID: "Save", Comment: "Toolbar button\nKeep it short"},
		{MsgID: "Save", Comment: "Dialog button\nKeep it short"},
		{MsgID: "Save", Comment: "Toolbar button\nKeep it short"},
	}, map[string]string{})

	r, ok := c.Lookup("", "Save")
	require.True(t, ok)
	assert.Equal(t, []string{"Toolbar button\nKeep it short", "Dialog button\nKeep it short"}, r.Comments)

	var b strings.Builder

	_, err := c.WriteTo(&b)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(b.String(), "#. Keep it short\n"))
}

func TestMergeSkipsEmptyMsgID(t *testing.T) {
	t.Parallel()

	c := Merge([]Entry{
		{MsgID: "", Reference: "a.go:3"},
		{MsgID: "Hello"},
	}, map[string]string{"Language": "de", "Plural-Forms": "nplurals=2; plural=(n != 1);"})

	require.Equal(t, 1, c.Len())

	var b strings.Builder

	_, err := c.WriteTo(&b)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(b.String(), "msgid \"\"\n"))

	po := gotext.NewPo()
	po.Parse([]byte(b.String()))
	assert.Equal(t, "de", po.Language)
	assert.Equal(t, "nplurals=2; plural=(n != 1);", po.PluralForms)
}

func TestMergeHeaders(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		c := Merge(nil, nil)

		assert.Equal(t, "text/plain; charset=utf-8", c.Headers["Content-Type"])
		assert.Equal(t, "8bit", c.Headers["Content-Transfer-Encoding"])
		assert.Equal(t, "1.0", c.Headers["MIME-Version"])
		assert.Equal(t, DefaultGenerator, c.Headers["Generated-By"])
		assert.NotEmpty(t, c.Headers["POT-Creation-Date"])
	})

	t.Run("override replaces defaults", func(t *testing.T) {
		t.Parallel()

		c := Merge(nil, map[string]string{"Language": "fr"})

		assert.Equal(t, map[string]string{"Language": "fr"}, c.Headers)
	})
}

func TestWriteTo(t *testing.T) {
	t.Parallel()

	headers := DefaultHeaders(time.Date(2024, 5, 1, 13, 4, 0, 0, time.UTC), "tagtr test")
	headers["Language"] = "en"

	c := Merge([]Entry{
		{MsgID: "Hello, {name}", Comment: "Greeting on the home page", Reference: "views/home.templ:4"},
		{MsgID: "Hello, {name}", Reference: "views/profile.templ:9"},
		{MsgID: "Open", Context: "menu"},
		{MsgID: "{count} \"file\"", MsgIDPlural: "{count} \"files\"", Reference: "main.go:1"},
	}, headers)

	want := `msgid ""
msgstr ""
"POT-Creation-Date: 2024-05-01 13:04+0000\n"
"Content-Type: text/plain; charset=utf-8\n"
"Content-Transfer-Encoding: 8bit\n"
"MIME-Version: 1.0\n"
"Generated-By: tagtr test\n"
"Language: en\n"

#. Greeting on the home page
#: views/home.templ:4
#: views/profile.templ:9
msgid "Hello, {name}"
msgstr ""

msgctxt "menu"
msgid "Open"
msgstr ""

#: main.go:1
msgid "{count} \"file\""
msgid_plural "{count} \"files\""
msgstr[0] ""
msgstr[1] ""
`

	assert.Equal(t, want, c.String())
}
