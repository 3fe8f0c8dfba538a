package kythe

import (
	"encoding/base64"
)

// Standard fact names and node kinds used throughout extraction and
// emission.
const (
	FactNodeKind = "/kythe/node/kind"
	FactSubkind  = "/kythe/subkind"
	FactLocStart = "/kythe/loc/start"
	FactLocEnd   = "/kythe/loc/end"
	FactText     = "/kythe/text"
	FactNumLines = "/kythe/x-numlines"
	FactSymtab   = "/kythe/x-symtab"

	EdgeDefinesBinding = "/kythe/edge/defines/binding"
	EdgeRef            = "/kythe/edge/ref"

	NodeKindFile     = "file"
	NodeKindVariable = "variable"
	NodeKindFunction = "function"
	NodeKindRecord   = "record"
	NodeKindAnchor   = "anchor"

	SubkindClass = "class"
)

// Fact is one {source, fact_name, fact_value} record. fact_value is
// base64-encoded on the wire; Value holds the decoded bytes.
type Fact struct {
	Source VName
	Name   string
	Value  []byte
}

// Edge is one {source, edge_kind, target} record; fact_name is
// always "/" on the wire and is not modeled as a field here.
type Edge struct {
	Source VName
	Kind   string
	Target VName
}

type factKey struct {
	source VName
	name   string
}

type edgeKey struct {
	source VName
	kind   string
	target VName
}

// Store is the Kythe-fact accumulator: a deduplicating map from
// (source, fact_name) to a fact record and from (source, kind, target)
// to an edge record. Facts are first-write-wins; a duplicate edge is
// idempotent rather than an error (see AddEdge).
type Store struct {
	facts                 map[factKey]Fact
	factOrder             []factKey
	edges                 map[edgeKey]Edge
	edgeOrder             []edgeKey
	duplicateEdgeAttempts int
}

// NewStore returns an empty accumulator.
func NewStore() *Store {
	return &Store{
		facts: make(map[factKey]Fact),
		edges: make(map[edgeKey]Edge),
	}
}

// AddFact records a fact, keeping the first value written for a given
// (source, fact_name) pair and silently discarding later writes.
func (s *Store) AddFact(source VName, name string, value []byte) {
	k := factKey{source: source, name: name}
	if _, exists := s.facts[k]; exists {
		return
	}
	s.facts[k] = Fact{Source: source, Name: name, Value: value}
	s.factOrder = append(s.factOrder, k)
}

// AddStringFact is a convenience wrapper for the common case of a
// UTF-8 fact value (node kinds, subkinds, and the like).
func (s *Store) AddStringFact(source VName, name, value string) {
	s.AddFact(source, name, []byte(value))
}

// AddEdge records an edge, keeping it unique on (source, kind, target).
// A genuinely unexpected duplicate is still a bug worth catching, but
// two references landing on the identical span happen routinely once
// the fixpoint driver starts re-synthesizing Expr obligations from the
// symbol table every pass — that overlap must still yield exactly one
// edge. Both concerns are honored by making the triple idempotent here
// — a second write is a no-op, not an error — while
// DuplicateEdgeAttempts tracks how often that happened so a caller can
// assert the count matches the expected re-synthesis overlap rather
// than an unbounded number.
func (s *Store) AddEdge(source VName, kind string, target VName) {
	k := edgeKey{source: source, kind: kind, target: target}
	if _, exists := s.edges[k]; exists {
		s.duplicateEdgeAttempts++
		return
	}
	s.edges[k] = Edge{Source: source, Kind: kind, Target: target}
	s.edgeOrder = append(s.edgeOrder, k)
}

// DuplicateEdgeAttempts reports how many AddEdge calls were suppressed
// because the (source, kind, target) triple was already present.
func (s *Store) DuplicateEdgeAttempts() int { return s.duplicateEdgeAttempts }

// Facts returns the accumulated facts in insertion order.
func (s *Store) Facts() []Fact {
	out := make([]Fact, 0, len(s.factOrder))
	for _, k := range s.factOrder {
		out = append(out, s.facts[k])
	}
	return out
}

// Edges returns the accumulated edges in insertion order.
func (s *Store) Edges() []Edge {
	out := make([]Edge, 0, len(s.edgeOrder))
	for _, k := range s.edgeOrder {
		out = append(out, s.edges[k])
	}
	return out
}

// HasFact reports whether a (source, fact_name) pair has already been
// written, letting the anchor extractor skip re-emitting an anchor for
// an already-seen span.
func (s *Store) HasFact(source VName, name string) bool {
	_, ok := s.facts[factKey{source: source, name: name}]
	return ok
}

// EncodeFactValue base64-encodes a fact value for the wire form.
func EncodeFactValue(v []byte) string {
	return base64.StdEncoding.EncodeToString(v)
}
