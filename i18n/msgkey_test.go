// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/tagtr/tagtr/gettext"
)

func TestMsgKeyAsComponent(t *testing.T) {
	var (
		_ templ.Component = MsgKey("foo")
		_ templ.Component = Translate("foo")
		_ templ.Component = PluralTranslate(1, Singular("foo"), Plural("foos"))
	)
}

func TestMsgKeyRenderEscapes(t *testing.T) {
	t.Parallel()

	r := NewRenderer(newAdapter(t, gettext.Funcs{
		Gettext:  func(string) string { return "Fish & <chips>" },
		NGettext: func(msgid, _ string, _ int) string { return msgid },
	}))

	var buf bytes.Buffer
	require.NoError(t, MsgKey("Dinner").Render(WithRenderer(context.Background(), r), &buf))
	assert.Equal(t, "Fish &amp; &lt;chips&gt;", buf.String())
}
