// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package placeholder

import "regexp"

var (
	marker        = regexp.MustCompile(`\{/?[a-z]+\}`)
	openingMarker = regexp.MustCompile(`\{[a-z]+\}`)
)

type token struct {
	text    string
	name    string // set for markers
	closing bool
}

// Parse decodes a placeholder string.
//
// A string without any opening marker decodes to a single Text node. Anything
// else decodes to a Fragment whose children are Text and Param nodes:
// {name}body{/name} becomes a Param with a body, a lone {name} a Param without
// one and {name}{/name} a Param with an empty body. A closing marker that
// does not end a parameter is kept as text.
func Parse(s string) Node {
	if !openingMarker.MatchString(s) {
		return NewText(s)
	}

	tokens := tokenize(s)
	children := make([]Node, 0, len(tokens))

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if tok.name == "" || tok.closing {
			children = appendText(children, tok.text)

			continue
		}

		switch {
		case i+1 < len(tokens) && isClosing(tokens[i+1], tok.name):
			children = append(children, Node{Kind: Param, Name: tok.name, HasBody: true})
			i++
		case i+2 < len(tokens) && tokens[i+1].name == "" && isClosing(tokens[i+2], tok.name):
			children = append(children, Node{Kind: Param, Name: tok.name, Body: tokens[i+1].text, HasBody: true})
			i += 2
		default:
			children = append(children, Node{Kind: Param, Name: tok.name})
		}
	}

	return NewFragment(children...)
}

// Names returns the distinct parameter names referenced by s, in order of
// first appearance.
func Names(s string) []string {
	var names []string

	seen := make(map[string]struct{})

	for _, m := range openingMarker.FindAllString(s, -1) {
		name := m[1 : len(m)-1]
		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names
}

func tokenize(s string) []token {
	var tokens []token

	last := 0

	for _, loc := range marker.FindAllStringIndex(s, -1) {
		if loc[0] > last {
			tokens = append(tokens, token{text: s[last:loc[0]]})
		}

		m := s[loc[0]:loc[1]]
		if m[1] == '/' {
			tokens = append(tokens, token{text: m, name: m[2 : len(m)-1], closing: true})
		} else {
			tokens = append(tokens, token{text: m, name: m[1 : len(m)-1]})
		}

		last = loc[1]
	}

	if last < len(s) {
		tokens = append(tokens, token{text: s[last:]})
	}

	return tokens
}

func isClosing(tok token, name string) bool {
	return tok.closing && tok.name == name
}

// appendText merges adjacent text runs.
func appendText(children []Node, s string) []Node {
	if n := len(children); n > 0 && children[n-1].Kind == Text {
		children[n-1].Text += s

		return children
	}

	return append(children, NewText(s))
}
