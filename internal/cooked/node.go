// Package cooked implements the AST Simplifier: it converts the
// parser's tagged-JSON dict tree into a closed algebraic IR. The
// simplification is purely structural — no node kind is given semantic
// meaning here, that happens one layer up in internal/extract (Pass 1).
//
// Wire contract consumed here: a leaf object carries {"kind": one of
// "str"|"int"|"bool"|"None"|"dict", "value": ...}; a container object
// carries {"kind": <node-kind-name>, "slots": {name: child, ...}}, where
// a child may itself be a leaf, a container, or a JSON array (a list
// slot, whose element order is significant and preserved). This mirrors
// the shape ast_cooked.as_json_dict produces upstream, flattened to a
// single discriminated shape rather than one Python class per node kind.
package cooked

import (
	"encoding/json"
	"fmt"
	"sort"

	"pykythego/internal/ir"
)

// Node is one value of the closed IR tree. Exactly one of the payload
// groups below is meaningful, selected by Kind.
type Node struct {
	Kind string

	// leaf payloads
	IsLeafStr  bool
	Str        string
	IsLeafInt  bool
	Int        int64
	IsLeafBool bool
	Bool       bool
	IsNone     bool
	IsDict     bool
	Dict       map[string]any

	// list payload (Kind == "__list__")
	List []Node

	// container payload
	Slots map[string]Node
}

// Simplify converts a raw JSON AST root into the closed IR tree.
func Simplify(raw json.RawMessage) (Node, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Node{}, fmt.Errorf("cooked: unmarshal: %w", err)
	}
	return simplifyValue(v)
}

func simplifyValue(v any) (Node, error) {
	switch t := v.(type) {
	case []any:
		items := make([]Node, 0, len(t))
		for _, child := range t {
			n, err := simplifyValue(child)
			if err != nil {
				return Node{}, err
			}
			items = append(items, n)
		}
		return Node{Kind: "__list__", List: items}, nil
	case map[string]any:
		return simplifyObject(t)
	default:
		return Node{}, fmt.Errorf("cooked: unexpected JSON shape at top level: %T", v)
	}
}

func simplifyObject(obj map[string]any) (Node, error) {
	kindRaw, ok := obj["kind"]
	if !ok {
		return Node{}, fmt.Errorf("cooked: object missing %q discriminator", "kind")
	}
	kind, ok := kindRaw.(string)
	if !ok {
		return Node{}, fmt.Errorf("cooked: %q discriminator is not a string", "kind")
	}

	switch kind {
	case "str":
		s, _ := obj["value"].(string)
		return Node{Kind: kind, IsLeafStr: true, Str: s}, nil
	case "int":
		f, _ := obj["value"].(float64)
		return Node{Kind: kind, IsLeafInt: true, Int: int64(f)}, nil
	case "bool":
		b, _ := obj["value"].(bool)
		return Node{Kind: kind, IsLeafBool: true, Bool: b}, nil
	case "None":
		return Node{Kind: kind, IsNone: true}, nil
	case "dict":
		d, _ := obj["value"].(map[string]any)
		return Node{Kind: kind, IsDict: true, Dict: d}, nil
	default:
		slotsRaw, _ := obj["slots"].(map[string]any)
		slots := make(map[string]Node, len(slotsRaw))
		for name, child := range slotsRaw {
			n, err := simplifyValue(child)
			if err != nil {
				return Node{}, fmt.Errorf("cooked: slot %q: %w", name, err)
			}
			slots[name] = n
		}
		return Node{Kind: kind, Slots: slots}, nil
	}
}

// Slot returns the named child of a container node, or the zero Node
// (Kind == "") if absent, letting extract's per-kind handlers treat a
// missing optional slot as "nothing here" without a second return value
// at every call site.
func (n Node) Slot(name string) Node {
	return n.Slots[name]
}

// Items returns a list-slot node's elements, or nil if n is not a list.
func (n Node) Items() []Node {
	if n.Kind != "__list__" {
		return nil
	}
	return n.List
}

// IsZero reports whether n is the absent-slot sentinel.
func (n Node) IsZero() bool { return n.Kind == "" }

// Astn interprets a container node of kind "Astn" — the uniform
// leaf-token shape {start:int, end:int, value:str} carried by every
// name/number/string/operator token — as an ir.Astn. Any other shape is
// a malformed-AST invariant error for the caller to surface.
func (n Node) Astn() (ir.Astn, error) {
	if n.Kind != "Astn" {
		return ir.Astn{}, fmt.Errorf("cooked: expected Astn node, got kind %q", n.Kind)
	}
	start := n.Slot("start")
	end := n.Slot("end")
	value := n.Slot("value")
	if !start.IsLeafInt || !end.IsLeafInt || !value.IsLeafStr {
		return ir.Astn{}, fmt.Errorf("cooked: Astn node missing start/end/value")
	}
	return ir.Astn{Start: int(start.Int), End: int(end.Int), Value: value.Str}, nil
}

// DictKeys returns a dict-leaf's keys in sorted order, for callers that
// need deterministic iteration over an opaque dict payload.
func (n Node) DictKeys() []string {
	keys := make([]string, 0, len(n.Dict))
	for k := range n.Dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
