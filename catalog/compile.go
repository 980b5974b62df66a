// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog/log"

	"codeberg.org/tagtr/tagtr/placeholder"
)

// DefaultDomain is the domain name used when none is given.
const DefaultDomain = "messages"

// Meta is stored under the "" key of a compiled domain.
type Meta struct {
	Domain      string `json:"domain"`
	Lang        string `json:"lang"`
	PluralForms string `json:"plural_forms"`
}

// Document is a compiled catalogue:
//
//	{domain: {"": Meta, msgid: [translation, ...], msgctxt "\u0004" msgid: [...]}}
//
// Each translation is a placeholder string, or its decoded tree when it
// contains parameters.
type Document map[string]map[string]any

// Compile converts a parsed PO catalogue into a [Document] for domain.
//
// Entries without any translated form are left out so that lookups fall
// back to the source text.
func Compile(po *gotext.Po, domain string) Document {
	if domain == "" {
		domain = DefaultDomain
	}

	dom := po.GetDomain()

	messages := map[string]any{
		"": Meta{Domain: domain, Lang: dom.Language, PluralForms: dom.PluralForms},
	}

	for id, tr := range dom.GetTranslations() {
		if id == "" {
			continue
		}

		if forms, ok := compileForms(tr); ok {
			messages[id] = forms
		}
	}

	for ctx, trs := range dom.GetCtxTranslations() {
		for id, tr := range trs {
			if forms, ok := compileForms(tr); ok {
				messages[ContextKey(ctx, id)] = forms
			}
		}
	}

	return Document{domain: messages}
}

// ContextKey joins a context and a msgid the way gettext does.
func ContextKey(msgctxt, msgid string) string {
	if msgctxt == "" {
		return msgid
	}

	return msgctxt + gotext.EotSeparator + msgid
}

func compileForms(tr *gotext.Translation) ([]placeholder.Node, bool) {
	if tr == nil || len(tr.Trs) == 0 {
		return nil, false
	}

	indexes := make([]int, 0, len(tr.Trs))
	for i := range tr.Trs {
		indexes = append(indexes, i)
	}

	slices.Sort(indexes)

	known := placeholder.Names(tr.ID + " " + tr.PluralID)
	forms := make([]placeholder.Node, 0, len(indexes))
	translated := false

	for _, i := range indexes {
		s := tr.Trs[i]
		if s != "" {
			translated = true
		}

		for _, name := range placeholder.Names(s) {
			if !slices.Contains(known, name) {
				log.Warn().
					Str("sys", "catalog").
					Str("msgid", tr.ID).
					Str("placeholder", name).
					Msg("Translation references a placeholder that the source message does not define")
			}
		}

		forms = append(forms, placeholder.Parse(s))
	}

	return forms, translated
}

// Marshal encodes doc as JSON, indented when pretty is set.
func (doc Document) Marshal(pretty bool) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if pretty {
		enc.SetIndent("", "  ")
	}

	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode compiled catalogue: %w", err)
	}

	return buf.Bytes(), nil
}

// CompileFile parses the PO file at path and compiles it for domain.
func CompileFile(path, domain string) (Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is chosen by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	po := gotext.NewPo()
	po.Parse(data)

	return Compile(po, domain), nil
}
