// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"slices"
	"strings"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

// BaseLocale is the language source messages are written in. It needs no
// catalogue and is the fallback of every match.
const BaseLocale = "en"

var baseTag = language.Make(BaseLocale)

// locale is a loaded catalogue and the renderer built on it.
type locale struct {
	po       *gotext.Po
	renderer *Renderer
}

// Languages returns the base tag and the tags of the loaded catalogues,
// sorted by tag string. Before Setup it holds the base tag only.
func Languages() []language.Tag {
	if len(supportedTags) == 0 {
		return []language.Tag{baseTag}
	}

	return slices.SortedFunc(slices.Values(supportedTags), compareTags)
}

// Catalogue returns the catalogue loaded for tag.
func Catalogue(tag language.Tag) (*gotext.Po, bool) {
	loc, ok := localesByTag[tag.String()]
	if !ok {
		return nil, false
	}

	return loc.po, true
}

func match(preferred string) *locale {
	tag, ok := Match(preferred)
	if !ok {
		return nil
	}

	return localesByTag[tag.String()]
}

func compareTags(a, b language.Tag) int {
	return strings.Compare(a.String(), b.String())
}
