// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/tagtr/tagtr/gettext"
)

var (
	// localesByTag maps canonical BCP 47 tags, for example
	// "en", "ja", "pt-BR", to their loaded catalogue.
	localesByTag map[string]*locale

	// supportedTags holds the base tag followed by every loaded tag,
	// in matcher order.
	supportedTags []language.Tag

	// matcher is a private [language.Matcher] derived from the loaded locales.
	matcher language.Matcher

	// baseRenderer serves the base locale when it has no catalogue.
	baseRenderer = NewRenderer(gettext.Identity())
)

// Setup initialises package i18n by loading gettext catalogues from dir in
// fsys and constructing a language matcher. The expected layout is:
//
//	<dir>/<locale>.po
//
// The <locale> filename part may use hyphens or underscores, for example "pt-BR.po" or "pt_BR.po",
// and is normalised to a canonical BCP 47 language tag for matching. Templates (.pot) are
// ignored. The base locale, specified by BaseLocale, is always included and acts as the default fallback.
//
// Calling Setup again replaces the previously loaded locales and matcher.
func Setup(fsys fs.FS, dir string) error {
	Logger = log.With().Str("sys", "i18n").Logger()

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read po directory: %w", err)
	}

	loaded := make(map[string]*locale)

	var tagsList []language.Tag

	for _, entry := range entries {
		fileName := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(fileName, ".po") {
			continue
		}

		localeName := strings.TrimSuffix(fileName, ".po")

		// Accept both underscore and hyphen.
		t, err := language.Parse(strings.ReplaceAll(localeName, "_", "-"))
		if err != nil {
			Logger.Warn().Err(err).Str("file", fileName).Msg("Skipping invalid locale file")

			continue
		}

		data, err := fs.ReadFile(fsys, path.Join(dir, fileName))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", fileName, err)
		}

		po := gotext.NewPo()
		po.Parse(data)

		canonical := t.String()
		loaded[canonical] = &locale{
			po:       po,
			renderer: NewRenderer(gettext.FromPo(po), WithLocale(t)),
		}

		tagsList = append(tagsList, t)

		Logger.Info().
			Str("locale", canonical).
			Int("messages", len(po.GetDomain().GetTranslations())).
			Msg("Loaded locale")
	}

	// baseTag is first to make it the default fallback for matching.
	all := make([]language.Tag, 0, len(tagsList)+1)
	all = append(all, baseTag)

	slices.SortFunc(tagsList, compareTags)

	for _, t := range tagsList {
		if t == baseTag {
			continue
		}

		all = append(all, t)
	}

	localesByTag = loaded
	supportedTags = all
	matcher = language.NewMatcher(all)

	return nil
}

// Match returns the supported tag that best matches the preferences, each
// a BCP 47 tag or an Accept-Language value. The second result reports
// whether a catalogue is loaded for the returned tag.
//
// Before Setup, Match returns the tag for [BaseLocale] and false.
func Match(preferred ...string) (language.Tag, bool) {
	if matcher == nil {
		return baseTag, false
	}

	_, index := language.MatchStrings(matcher, preferred...)
	tag := supportedTags[index]

	_, ok := localesByTag[tag.String()]

	return tag, ok
}
