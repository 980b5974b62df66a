// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n translates structured messages in templ components, backed by
GNU gettext catalogues.

# Components

A message is built from text and named parameters and rendered like any
other component:

	@i18n.Translate("Hello, ", i18n.Param("name", user.Name), "!")
	@i18n.Translate(
		"Read the ",
		i18n.WrapParam("link", docsLink(), "documentation"),
		i18n.Comment("Shown under the search box"),
	)
	@i18n.PluralTranslate(n,
		i18n.Singular(i18n.Param("count", n), " file"),
		i18n.Plural(i18n.Param("count", n), " files"),
	)

The msgid of the first message is "Hello, {name}!" and that of the second
"Read the {link}documentation{/link}". Translators may move and reword the
placeholders; at render time each placeholder of the translation is bound by
name to the parameter given in source. Text is HTML-escaped, and the body of
a WrapParam is rendered as the children of its wrapper component.

# Flat strings

Strings outside of markup are translated with the call forms:

	i18n.Tr(ctx, "Are you sure you want to quit?")
	i18n.TrC(ctx, "menu", "Open") // disambiguation via context
	i18n.TrN(ctx, "{count} file", "{count} files", n, "count", n)

String, StringC, PluralString and PluralStringC do the same and return
formatting errors instead of logging them.

# Renderers

Lookups go through a [Renderer]. Setup loads one per catalogue, and the
locale carried by a context (see [WithTag] and [WithRequest]) selects among
them. [WithRenderer] installs a renderer explicitly, which tests and
callers with their own catalogues use.

# Missing translations

By default, missing translations return the msgid unchanged. When
StrictMissingKeys is enabled, missing lookups are logged once
per locale+key and the output is visibly wrapped as "⟦...⟧".
*/
package i18n
