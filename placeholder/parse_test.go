// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Node
	}{
		{
			in:   "no markers here",
			want: NewText("no markers here"),
		},
		{
			in:   "only {/closing} markers",
			want: NewText("only {/closing} markers"),
		},
		{
			in: "Hello, {name}!",
			want: NewFragment(
				NewText("Hello, "),
				Node{Kind: Param, Name: "name"},
				NewText("!"),
			),
		},
		{
			in: "Read the {link}docs{/link} first",
			want: NewFragment(
				NewText("Read the "),
				Node{Kind: Param, Name: "link", Body: "docs", HasBody: true},
				NewText(" first"),
			),
		},
		{
			in:   "{x}{/x}",
			want: NewFragment(Node{Kind: Param, Name: "x", HasBody: true}),
		},
		{
			in: "{a} and {b}x{/c}",
			want: NewFragment(
				Node{Kind: Param, Name: "a"},
				NewText(" and "),
				Node{Kind: Param, Name: "b"},
				NewText("x{/c}"),
			),
		},
		{
			// Uppercase names are not markers.
			in:   "THIS IS {COUNT} VACHES",
			want: NewText("THIS IS {COUNT} VACHES"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := [][]Node{
		{NewText("Fetchez la vache")},
		{NewText("Hello, "), NewParam("name", "dude")},
		{NewParam("count", 3), NewText(" vaches")},
		{NewText("Read the "), NewBodyParam("link", "a", "documentation"), NewText(" and "), NewParam("n", 1)},
		{NewBodyParam("em", "em", ""), NewText("tail")},
		{NewParam("a", 1), NewParam("b", 2)},
	}

	for _, nodes := range inputs {
		s, err := Flatten(nodes)
		require.NoError(t, err)

		got := Parse(s).Nodes()
		require.Len(t, got, len(nodes), s)

		for i, want := range nodes {
			assert.Equal(t, want.Kind, got[i].Kind, s)
			assert.Equal(t, want.Text, got[i].Text, s)
			assert.Equal(t, want.Name, got[i].Name, s)
			assert.Equal(t, want.Body, got[i].Body, s)
			assert.Equal(t, want.HasBody, got[i].HasBody, s)
		}

		assert.Equal(t, s, Format(Parse(s)))
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "link"}, Names("{a} {link}x{/link} {a}"))
	assert.Empty(t, Names("nothing"))
}
