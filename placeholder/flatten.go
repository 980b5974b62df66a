// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package placeholder

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Flatten encodes nodes as a placeholder string.
//
// Whitespace runs collapse to a single space and the result is trimmed.
// Flatten fails with a *StructuralError if a child is not a text or parameter
// node, if a parameter name is empty or used twice, or if a parameter carries
// neither a value, a wrapper nor a body.
func Flatten(nodes []Node) (string, error) {
	s, err := concat(nodes)
	if err != nil {
		return "", err
	}

	return Collapse(s), nil
}

// FlattenStrict is like [Flatten], but whitespace on the outer boundary of the
// message that does not contain a line break is reported as a
// *StructuralError instead of being trimmed. Whitespace spanning a line break
// is layout and is trimmed as usual.
func FlattenStrict(nodes []Node) (string, error) {
	s, err := concat(nodes)
	if err != nil {
		return "", err
	}

	lead := s[:len(s)-len(strings.TrimLeftFunc(s, unicode.IsSpace))]
	trail := s[len(strings.TrimRightFunc(s, unicode.IsSpace)):]

	if lead != "" && lead != s && !strings.Contains(lead, "\n") {
		return "", Structuralf("leading whitespace %q would be lost in the catalogue", lead)
	}

	if trail != "" && trail != s && !strings.Contains(trail, "\n") {
		return "", Structuralf("trailing whitespace %q would be lost in the catalogue", trail)
	}

	return Collapse(s), nil
}

// Collapse replaces every whitespace run in s with one space and trims the ends.
func Collapse(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

func concat(nodes []Node) (string, error) {
	var b strings.Builder

	seen := make(map[string]struct{}, len(nodes))

	for _, n := range nodes {
		switch n.Kind {
		case Text:
			b.WriteString(n.Text)
		case Param:
			if n.Name == "" {
				return "", Structuralf("parameter without a name")
			}

			if _, dup := seen[n.Name]; dup {
				return "", Structuralf("parameter %q used more than once", n.Name)
			}

			seen[n.Name] = struct{}{}

			if n.Value == nil && n.Wrapper == nil && !n.HasBody {
				return "", Structuralf("parameter %q has neither a value nor a body", n.Name)
			}

			format(&b, n)
		default:
			return "", Structuralf("unexpected %s child, want Text or Param", n.Kind)
		}
	}

	return b.String(), nil
}
