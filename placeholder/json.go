// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package placeholder

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

type paramAttrs struct {
	Name string `json:"name"`
}

// MarshalJSON encodes n in the compiled catalogue form: a Text node is a JSON
// string, a Fragment is ["Fragment", null, child...] and a Param is
// ["Param", {"name": n}] with the body appended when present.
func (n Node) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case Text:
		return json.Marshal(n.Text)
	case Param:
		arr := []any{"Param", paramAttrs{Name: n.Name}}
		if n.HasBody {
			arr = append(arr, n.Body)
		}

		return json.Marshal(arr)
	case Fragment:
		arr := make([]any, 0, len(n.Children)+2)

		arr = append(arr, "Fragment", nil)
		for _, child := range n.Children {
			arr = append(arr, child)
		}

		return json.Marshal(arr)
	default:
		return nil, Structuralf("cannot encode node of kind %s", n.Kind)
	}
}

// DecodeJSON decodes a value produced by [Node.MarshalJSON].
func DecodeJSON(v gjson.Result) (Node, error) {
	switch {
	case v.Type == gjson.String:
		return NewText(v.String()), nil
	case v.IsArray():
		items := v.Array()
		if len(items) < 2 {
			return Node{}, Structuralf("node array too short: %s", v.Raw)
		}

		switch tag := items[0].String(); tag {
		case "Fragment":
			children := make([]Node, 0, len(items)-2)

			for _, item := range items[2:] {
				child, err := DecodeJSON(item)
				if err != nil {
					return Node{}, err
				}

				children = append(children, child)
			}

			return NewFragment(children...), nil
		case "Param":
			n := Node{Kind: Param, Name: items[1].Get("name").String()}
			if n.Name == "" {
				return Node{}, Structuralf("Param without a name: %s", v.Raw)
			}

			if len(items) > 2 {
				n.Body = items[2].String()
				n.HasBody = true
			}

			return n, nil
		default:
			return Node{}, Structuralf("unknown node tag %q", tag)
		}
	default:
		return Node{}, fmt.Errorf("%w: unexpected JSON value %s", ErrStructural, v.Raw)
	}
}
