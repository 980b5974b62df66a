// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package extract finds translatable messages in Go and templ sources.

Recognised calls are qualified by a package name, i18n by default:

	i18n.Translate("Hello ", i18n.Param("name", user.Name), "!")
	i18n.PluralTranslate(n, i18n.Singular("a cow"), i18n.Plural(i18n.Param("count", n), " cows"))
	i18n.Tr(ctx, "Settings")
	i18n.MsgKey("Log in")

Component children must be string literals (or concatenations of them) and
the Param, WrapParam, Context and Comment helpers. Anything else stops the
file with an error. Call forms whose message is not a literal are skipped.

A comment starting with "i18n:" on the line directly above a message becomes
its translator comment. In templ files, HTML comments work the same way:

	<!-- i18n: shown on the login page -->
	@i18n.Translate("Log in")
*/
package extract
