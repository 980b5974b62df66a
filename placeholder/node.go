// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package placeholder

import "strings"

// Kind tags the variant held by a [Node].
type Kind uint8

const (
	// Text is a literal run of text.
	Text Kind = iota
	// Param is a named parameter, optionally wrapping body text.
	Param
	// Fragment groups the children of a decoded translation.
	Fragment
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "Text"
	case Param:
		return "Param"
	case Fragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Node is one element of a translatable message.
//
// Which fields are meaningful depends on Kind:
//   - Text uses Text.
//   - Param uses Name, Value, Wrapper, Body and HasBody. Nodes decoded by
//     [Parse] only carry Name and the body; values are bound at render time.
//   - Fragment uses Children.
type Node struct {
	Kind Kind

	Text string

	Name    string
	Value   any
	Wrapper any
	Body    string
	HasBody bool

	Children []Node
}

// NewText returns a text node.
func NewText(s string) Node {
	return Node{Kind: Text, Text: s}
}

// NewParam returns a parameter without body content. It is written as {name}.
func NewParam(name string, value any) Node {
	return Node{Kind: Param, Name: name, Value: value}
}

// NewBodyParam returns a parameter whose body is rendered inside wrapper.
// List bodies are joined into one string. It is written as {name}body{/name}.
func NewBodyParam(name string, wrapper any, body ...string) Node {
	return Node{Kind: Param, Name: name, Wrapper: wrapper, Body: JoinBody(body...), HasBody: true}
}

// NewFragment returns a fragment holding children.
func NewFragment(children ...Node) Node {
	return Node{Kind: Fragment, Children: children}
}

// Nodes returns the sequence of text and parameter nodes that n stands for:
// the children of a fragment, or n itself otherwise.
func (n Node) Nodes() []Node {
	if n.Kind == Fragment {
		return n.Children
	}

	return []Node{n}
}

// Format writes n back into its placeholder string form without any
// whitespace processing. Parameter values are not included.
func Format(n Node) string {
	var b strings.Builder

	format(&b, n)

	return b.String()
}

func format(b *strings.Builder, n Node) {
	switch n.Kind {
	case Text:
		b.WriteString(n.Text)
	case Param:
		b.WriteString(open(n.Name))

		if n.HasBody {
			b.WriteString(n.Body)
			b.WriteString(closing(n.Name))
		}
	case Fragment:
		for _, child := range n.Children {
			format(b, child)
		}
	}
}

func open(name string) string    { return "{" + name + "}" }
func closing(name string) string { return "{/" + name + "}" }

// JoinBody joins the parts of a list body into one string.
func JoinBody(parts ...string) string {
	return strings.Join(parts, "")
}
