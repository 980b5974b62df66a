// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package catalog merges extracted messages into gettext catalogues, writes them
as PO text and compiles translated PO files into the JSON form served to
clients.
*/
package catalog

import (
	"slices"
	"strings"
	"time"
)

// DefaultGenerator is the Generated-By header used when no other generator
// identity is supplied.
const DefaultGenerator = "tagtr"

// potDateFormat matches the POT-Creation-Date format written by xgettext.
const potDateFormat = "2006-01-02 15:04-0700"

// headerOrder lists the headers written first, in this order.
var headerOrder = []string{
	"POT-Creation-Date",
	"Content-Type",
	"Content-Transfer-Encoding",
	"MIME-Version",
	"Generated-By",
}

// Entry is one sighting of a translatable message in source code.
type Entry struct {
	MsgID       string
	MsgIDPlural string
	Context     string
	// Comment is the translator comment, if any.
	Comment string
	// Reference locates the sighting, for example "views/home.templ:12".
	// Empty references are not recorded.
	Reference string
}

// Record is the merged catalogue entry for one (context, msgid) key.
type Record struct {
	Context     string
	MsgID       string
	MsgIDPlural string

	// Comments and References are ordered sets.
	Comments   []string
	References []string

	// Translations has one slot for singular-only messages and two once a
	// plural form has been seen.
	Translations []string
}

// Extracted returns the translator comments joined by newlines.
func (r *Record) Extracted() string { return strings.Join(r.Comments, "\n") }

// Reference returns the references joined by newlines.
func (r *Record) Reference() string { return strings.Join(r.References, "\n") }

type key struct {
	context string
	msgid   string
}

// Catalog is a set of records keyed by context and msgid, kept in the order
// they were first seen. A Catalog is not safe for concurrent use.
type Catalog struct {
	Headers map[string]string

	records []*Record
	index   map[key]*Record
}

// New returns an empty Catalog with the given headers.
func New(headers map[string]string) *Catalog {
	return &Catalog{
		Headers: headers,
		index:   make(map[key]*Record),
	}
}

// Merge groups entries by (context, msgid).
//
// When headers is nil, the catalogue carries [DefaultHeaders] for the current
// time. Otherwise headers replaces the defaults entirely.
func Merge(entries []Entry, headers map[string]string) *Catalog {
	if headers == nil {
		headers = DefaultHeaders(time.Now(), DefaultGenerator)
	}

	c := New(headers)
	for _, e := range entries {
		c.Add(e)
	}

	return c
}

// Add merges one entry into c.
//
// The first sighting of a key seeds its record. Later sightings append
// references and comments not seen before and upgrade the record to
// two translation slots when a plural form appears. Records are never
// downgraded. Entries with an empty msgid are ignored, since that key holds
// the catalogue header.
func (c *Catalog) Add(e Entry) {
	if e.MsgID == "" {
		return
	}

	k := key{context: e.Context, msgid: e.MsgID}

	r, ok := c.index[k]
	if !ok {
		r = &Record{
			Context:      e.Context,
			MsgID:        e.MsgID,
			MsgIDPlural:  e.MsgIDPlural,
			Translations: []string{""},
		}

		if e.MsgIDPlural != "" {
			r.Translations = []string{"", ""}
		}

		c.index[k] = r
		c.records = append(c.records, r)
	} else if r.MsgIDPlural == "" && e.MsgIDPlural != "" {
		r.MsgIDPlural = e.MsgIDPlural
		r.Translations = []string{"", ""}
	}

	if e.Reference != "" && !slices.Contains(r.References, e.Reference) {
		r.References = append(r.References, e.Reference)
	}

	if e.Comment != "" && !slices.Contains(r.Comments, e.Comment) {
		r.Comments = append(r.Comments, e.Comment)
	}
}

// Records returns the records in first-seen order.
func (c *Catalog) Records() []*Record {
	return slices.Clone(c.records)
}

// Lookup returns the record for context and msgid.
func (c *Catalog) Lookup(context, msgid string) (*Record, bool) {
	r, ok := c.index[key{context: context, msgid: msgid}]

	return r, ok
}

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.records) }

// DefaultHeaders returns the headers written into freshly extracted
// catalogues.
func DefaultHeaders(now time.Time, generator string) map[string]string {
	return map[string]string{
		"POT-Creation-Date":         now.Format(potDateFormat),
		"Content-Type":              "text/plain; charset=utf-8",
		"Content-Transfer-Encoding": "8bit",
		"MIME-Version":              "1.0",
		"Generated-By":              generator,
	}
}
