// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package placeholder

import (
	"fmt"
	"regexp"
	"strings"
)

var interpolationMarker = regexp.MustCompile(`\{(/?)([A-Za-z][A-Za-z0-9_]*)\}`)

// Interpolate replaces every {name} in s with fmt.Sprint(values[name]).
//
// It fails with a *MissingPlaceholderError if values has no entry for a name,
// and with an *UnsupportedPlaceholderError if a placeholder has body content,
// since a flat string cannot carry the wrapper around it.
func Interpolate(s string, values map[string]any) (string, error) {
	matches := interpolationMarker.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	// Body content shows up as a closing marker somewhere in the string.
	for _, m := range matches {
		if m[3] > m[2] {
			return "", &UnsupportedPlaceholderError{Name: s[m[4]:m[5]]}
		}
	}

	var b strings.Builder

	last := 0

	for _, m := range matches {
		name := s[m[4]:m[5]]

		v, ok := values[name]
		if !ok {
			return "", &MissingPlaceholderError{Name: name}
		}

		b.WriteString(s[last:m[0]])
		fmt.Fprint(&b, v)

		last = m[1]
	}

	b.WriteString(s[last:])

	return b.String(), nil
}
