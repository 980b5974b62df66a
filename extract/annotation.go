// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import "strings"

const annotationPrefix = "i18n:"

// annotations tracks runs of comments on consecutive lines, keyed by the
// line the run ends on. A construct starting on line L takes the last
// annotation of the run ending on line L-1.
type annotations struct {
	byEnd map[int]*commentRun
}

type commentRun struct {
	end   int
	note  string
	found bool
}

// add records a comment spanning lines start to end. Comments must be added
// in source order.
func (a *annotations) add(start, end int, text string) {
	if a.byEnd == nil {
		a.byEnd = make(map[int]*commentRun)
	}

	note, found := annotationText(text)

	run := a.byEnd[start-1]
	if run == nil {
		run = a.byEnd[start]
	}

	if run == nil {
		run = &commentRun{}
	} else {
		delete(a.byEnd, run.end)
	}

	run.end = end
	if found {
		run.note, run.found = note, true
	}

	a.byEnd[end] = run
}

// at returns the annotation for a construct starting on line.
func (a *annotations) at(line int) (string, bool) {
	run := a.byEnd[line-1]
	if run == nil || !run.found {
		return "", false
	}

	return run.note, true
}

// annotationText returns the note carried by comment text, without comment
// markers, if it starts with the annotation prefix.
func annotationText(text string) (string, bool) {
	text = strings.TrimSpace(text)

	rest, ok := strings.CutPrefix(text, annotationPrefix)
	if !ok {
		return "", false
	}

	return strings.TrimSpace(rest), true
}

// goCommentText strips the markers of a Go comment.
func goCommentText(c string) string {
	if s, ok := strings.CutPrefix(c, "//"); ok {
		return s
	}

	c = strings.TrimPrefix(c, "/*")

	return strings.TrimSuffix(c, "*/")
}
